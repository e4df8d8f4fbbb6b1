package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greatlakespos/pricebook_backend/utils"
)

// PriceBookSummary is the ingestion report surfaced after a feed load.
type PriceBookSummary struct {
	TotalRecords  int             `json:"totalRecords"`
	UniqueBrands  int             `json:"uniqueBrands"`
	UniqueVendors int             `json:"uniqueVendors"`
	AvgShelfPrice decimal.Decimal `json:"avgShelfPrice"`
}

// PriceBookResult carries the parsed records plus their summary.
type PriceBookResult struct {
	Records []*LiquorRecord
	Summary PriceBookSummary
}

// LoadPriceBook splits feed content into lines, parses each non-blank line in
// order, and accumulates summary statistics. Empty input is not an error; it
// yields zero counts and the caller decides whether that is acceptable.
func LoadPriceBook(content string) *PriceBookResult {
	lines := strings.Split(content, "\n")
	records := make([]*LiquorRecord, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, ParsePriceBookLine(line))
	}
	return &PriceBookResult{
		Records: records,
		Summary: Summarize(records),
	}
}

// Summarize recomputes the feed statistics for a record set: record count,
// distinct non-empty brands and vendors, and the mean of the numeric shelf
// prices rounded to cents. Rows whose shelf price kept its raw text are
// excluded from the average.
func Summarize(records []*LiquorRecord) PriceBookSummary {
	brands := make([]string, 0, len(records))
	vendors := make([]string, 0, len(records))
	priceSum := decimal.Zero
	priceCount := 0

	for _, r := range records {
		if r.BrandName != "" {
			brands = append(brands, r.BrandName)
		}
		if r.VendorName != "" {
			vendors = append(vendors, r.VendorName)
		}
		if r.ShelfPrice.Numeric {
			priceSum = priceSum.Add(r.ShelfPrice.Amount)
			priceCount++
		}
	}

	avg := decimal.Zero
	if priceCount > 0 {
		avg = priceSum.DivRound(decimal.NewFromInt(int64(priceCount)), 2)
	}

	return PriceBookSummary{
		TotalRecords:  len(records),
		UniqueBrands:  len(utils.UniqueSlice(brands)),
		UniqueVendors: len(utils.UniqueSlice(vendors)),
		AvgShelfPrice: avg,
	}
}

// FetchError reports an upstream feed download failure with enough detail for
// the client to display and retry manually.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("price book fetch failed: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("price book fetch failed: %s: %s", e.URL, e.Message)
}

// FetchPriceBook downloads and parses the feed from url. The context bounds
// the download; a timeout or non-200 response surfaces as *FetchError and
// leaves the caller's catalog untouched. The body is read fully and parsed
// before anything is committed.
func FetchPriceBook(ctx context.Context, url string) (*PriceBookResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Message: err.Error()}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Message: err.Error()}
	}

	return LoadPriceBook(string(body)), nil
}
