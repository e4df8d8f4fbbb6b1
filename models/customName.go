package models

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// CustomNameMapping overrides the display name for one UPC at label export
// time. It never alters catalog records.
type CustomNameMapping struct {
	ID         string `json:"id"`
	UPCCode    string `json:"upcCode"`
	CustomName string `json:"customName"`
	UploadedAt string `json:"uploadedAt"`
}

// CustomNameRegistry holds the uploaded UPC -> display name table.
type CustomNameRegistry struct {
	mu       sync.RWMutex
	mappings []*CustomNameMapping
}

func NewCustomNameRegistry() *CustomNameRegistry {
	return &CustomNameRegistry{}
}

// CustomNamePair is one row of an uploaded mapping file.
type CustomNamePair struct {
	UPCCode    string
	CustomName string
}

// Upload merges pairs into the registry: a pair whose UPC matches an existing
// row exactly replaces that row, anything else is appended. Returns the
// number of rows applied.
func (reg *CustomNameRegistry) Upload(pairs []CustomNamePair) int {
	now := nowStamp()
	reg.mu.Lock()
	defer reg.mu.Unlock()

	byUPC := make(map[string]*CustomNameMapping, len(reg.mappings))
	for _, m := range reg.mappings {
		byUPC[m.UPCCode] = m
	}

	applied := 0
	for _, pair := range pairs {
		upc := strings.TrimSpace(pair.UPCCode)
		name := strings.TrimSpace(pair.CustomName)
		if upc == "" || name == "" {
			continue
		}
		if existing, ok := byUPC[upc]; ok {
			existing.CustomName = name
			existing.UploadedAt = now
		} else {
			mapping := &CustomNameMapping{
				ID:         uuid.NewString(),
				UPCCode:    upc,
				CustomName: name,
				UploadedAt: now,
			}
			reg.mappings = append(reg.mappings, mapping)
			byUPC[upc] = mapping
		}
		applied++
	}
	return applied
}

// All returns the registry contents in upload order.
func (reg *CustomNameRegistry) All() []*CustomNameMapping {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	mappings := make([]*CustomNameMapping, len(reg.mappings))
	copy(mappings, reg.mappings)
	return mappings
}

// Clear empties the registry and returns how many rows were dropped.
func (reg *CustomNameRegistry) Clear() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	dropped := len(reg.mappings)
	reg.mappings = nil
	return dropped
}

// Lookup resolves a UPC with the same exact-then-normalized matching as the
// catalog: an exact hit wins over a zero-stripped one.
func (reg *CustomNameRegistry) Lookup(upc string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, m := range reg.mappings {
		if m.UPCCode == upc {
			return m.CustomName, true
		}
	}
	normalized := NormalizeUPC(upc)
	for _, m := range reg.mappings {
		if NormalizeUPC(m.UPCCode) == normalized {
			return m.CustomName, true
		}
	}
	return "", false
}

// ParseCustomNameFile reads an uploaded two-column mapping file (UPC, custom
// name). Both .xlsx and .csv uploads are accepted; a header row is skipped
// when the first cell does not look like a UPC.
func ParseCustomNameFile(filename string, file io.Reader) ([]CustomNamePair, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return parseCustomNameXlsx(file)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return parseCustomNameCsv(file)
	default:
		return nil, fmt.Errorf("invalid file type: only .xlsx and .csv files are allowed")
	}
}

func parseCustomNameXlsx(file io.Reader) ([]CustomNamePair, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet: %v", err)
	}
	return pairsFromRows(rows), nil
}

func parseCustomNameCsv(file io.Reader) ([]CustomNamePair, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %v", err)
	}
	return pairsFromRows(rows), nil
}

func pairsFromRows(rows [][]string) []CustomNamePair {
	pairs := make([]CustomNamePair, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		upc := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if upc == "" || name == "" {
			continue
		}
		// Tolerate a header row ("UPC", "Custom Name").
		if i == 0 && !strings.ContainsAny(upc, "0123456789") {
			continue
		}
		pairs = append(pairs, CustomNamePair{UPCCode: upc, CustomName: name})
	}
	return pairs
}
