package exports

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/greatlakespos/pricebook_backend/models"
)

// ErrNoRecords is returned when an export is requested for an empty record
// collection; no partial file is produced.
var ErrNoRecords = errors.New("no records to export")

const sheetName = "Sheet1"

var catalogHeaders = []string{
	"Liquor Code", "Brand Name", "ADA Number", "ADA Name", "Vendor Name",
	"Proof", "Bottle Size", "Pack Size", "On Premise Price",
	"Off Premise Price", "Shelf Price", "UPC Code 1", "UPC Code 2",
	"Effective Date",
}

// priceCell writes the numeric arm as a number so spreadsheet consumers can
// aggregate it, and the raw arm as text.
func priceCell(p models.PriceValue) interface{} {
	if p.Numeric {
		value, _ := p.Amount.Float64()
		return value
	}
	return p.Raw
}

func writeRow(f *excelize.File, rowNo int, values []interface{}) {
	col := 'A'
	for _, value := range values {
		f.SetCellValue(sheetName, fmt.Sprintf("%c%d", col, rowNo), value)
		col++
	}
}

func writeHeaders(f *excelize.File, headers []string) {
	col := 'A'
	for _, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%c1", col), h)
		col++
	}
}

// BuildCatalogWorkbook renders the full price book with the feed's column
// order.
func BuildCatalogWorkbook(records []*models.LiquorRecord) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	writeHeaders(f, catalogHeaders)

	for i, r := range records {
		writeRow(f, i+2, []interface{}{
			r.LiquorCode, r.BrandName, r.ADANumber, r.ADAName, r.VendorName,
			r.Proof, r.BottleSize, r.PackSize, priceCell(r.OnPremisePrice),
			priceCell(r.OffPremisePrice), priceCell(r.ShelfPrice),
			r.UPCCode1, r.UPCCode2, r.EffectiveDate,
		})
	}
	return f, nil
}

// BuildSessionWorkbook renders a session's scanned items. The UPC Code 1
// column carries the barcode that was actually scanned, not the catalog's
// stored UPC. Items whose record was replaced since scan time come through as
// Product Not Found rows.
func BuildSessionWorkbook(items []*models.ScanEventDetail) (*excelize.File, error) {
	if len(items) == 0 {
		return nil, ErrNoRecords
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	writeHeaders(f, catalogHeaders)

	for i, item := range items {
		p := item.Product
		if p == nil {
			writeRow(f, i+2, []interface{}{
				"", "Product Not Found", "", "", "", "", "", "", "", "", "",
				item.ScannedBarcode, "", "",
			})
			continue
		}
		writeRow(f, i+2, []interface{}{
			p.LiquorCode, p.BrandName, p.ADANumber, p.ADAName, p.VendorName,
			p.Proof, p.BottleSize, p.PackSize, priceCell(p.OnPremisePrice),
			priceCell(p.OffPremisePrice), priceCell(p.ShelfPrice),
			item.ScannedBarcode, p.UPCCode2, p.EffectiveDate,
		})
	}
	return f, nil
}
