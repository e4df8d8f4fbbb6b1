package models

// ScanResult reports a barcode resolution. An unmatched barcode is a normal
// outcome, not an error.
type ScanResult struct {
	Matched bool          `json:"matched"`
	Product *LiquorRecord `json:"product"`
}

// ScanBarcode resolves a raw scanned or typed barcode against the catalog
// and, when it matches and a session is given, records a scan event carrying
// the barcode verbatim. Unmatched scans record nothing; the manual
// add-by-search path goes through SessionStore.AddScanEvent directly.
func ScanBarcode(catalog *Catalog, store *SessionStore, barcode string, sessionID string) (ScanResult, error) {
	record := catalog.FindByBarcode(barcode)
	if record == nil {
		return ScanResult{}, nil
	}
	if sessionID != "" {
		if _, err := store.AddScanEvent(sessionID, barcode, record.ID, 1); err != nil {
			return ScanResult{}, err
		}
	}
	return ScanResult{Matched: true, Product: record}, nil
}
