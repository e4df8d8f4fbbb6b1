package models

import (
	"strings"
	"sync"
)

// catalogSnapshot is the immutable unit of catalog state. ReplaceAll and
// Insert build a complete snapshot off to the side and swap the pointer under
// the lock, so concurrent lookups never observe a partially-replaced set.
type catalogSnapshot struct {
	records []*LiquorRecord
	byID    map[string]*LiquorRecord
}

func newSnapshot(records []*LiquorRecord) *catalogSnapshot {
	byID := make(map[string]*LiquorRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &catalogSnapshot{records: records, byID: byID}
}

// Catalog holds the current price book record set in memory. The whole set is
// replaced on every feed ingestion; there is no incremental merge.
type Catalog struct {
	mu   sync.RWMutex
	snap *catalogSnapshot
}

func NewCatalog() *Catalog {
	return &Catalog{snap: newSnapshot(nil)}
}

func (c *Catalog) snapshot() *catalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// ReplaceAll atomically discards the previous record set and installs the new
// one. Price-override shadow records from the old set are discarded with it;
// scan events pointing at them resolve to no product afterwards.
func (c *Catalog) ReplaceAll(records []*LiquorRecord) {
	snap := newSnapshot(records)
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Insert adds a single record (a price-override shadow copy) to the current
// set by building a successor snapshot that shares the existing record
// pointers.
func (c *Catalog) Insert(record *LiquorRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records := make([]*LiquorRecord, 0, len(c.snap.records)+1)
	records = append(records, c.snap.records...)
	records = append(records, record)
	c.snap = newSnapshot(records)
}

// All returns the current record set in feed order.
func (c *Catalog) All() []*LiquorRecord {
	return c.snapshot().records
}

// Get resolves a record id against the current set.
func (c *Catalog) Get(id string) (*LiquorRecord, bool) {
	r, ok := c.snapshot().byID[id]
	return r, ok
}

// Summary recomputes the feed statistics over the current set.
func (c *Catalog) Summary() PriceBookSummary {
	return Summarize(c.snapshot().records)
}

// NormalizeUPC strips leading zeros from a barcode so zero-padded feed UPCs
// compare equal to the unpadded values scanners emit. All-zero input
// normalizes to "0".
func NormalizeUPC(code string) string {
	normalized := strings.TrimLeft(code, "0")
	if normalized == "" {
		return "0"
	}
	return normalized
}

// FindByBarcode resolves a scanned or typed barcode to a record. Exact
// equality against either UPC column wins first; only when no record matches
// exactly is the zero-stripped comparison tried. The feed may carry duplicate
// UPCs (discontinued vs current products), so ties resolve to the first match
// in feed order.
func (c *Catalog) FindByBarcode(code string) *LiquorRecord {
	snap := c.snapshot()

	for _, r := range snap.records {
		if r.UPCCode1 == code || r.UPCCode2 == code {
			return r
		}
	}

	normalized := NormalizeUPC(code)
	for _, r := range snap.records {
		if NormalizeUPC(r.UPCCode1) == normalized || NormalizeUPC(r.UPCCode2) == normalized {
			return r
		}
	}
	return nil
}

// Search does a case-insensitive substring match on brand name and liquor
// code, feeding the manual add-by-search path.
func (c *Catalog) Search(query string, limit int) []*LiquorRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []*LiquorRecord
	for _, r := range c.snapshot().records {
		if strings.Contains(strings.ToLower(r.BrandName), query) ||
			strings.Contains(strings.ToLower(r.LiquorCode), query) {
			matches = append(matches, r)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches
}
