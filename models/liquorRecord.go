package models

import (
	"strings"

	"github.com/google/uuid"
)

// LiquorRecord is one entry of the Michigan liquor price book. Every field
// maps to a fixed byte range of one feed line; blank ranges come through as
// empty strings, never missing fields.
type LiquorRecord struct {
	ID              string     `json:"id"`
	LiquorCode      string     `json:"liquorCode"`
	BrandName       string     `json:"brandName"`
	ADANumber       string     `json:"adaNumber"`
	ADAName         string     `json:"adaName"`
	VendorName      string     `json:"vendorName"`
	Proof           string     `json:"proof"`
	BottleSize      string     `json:"bottleSize"`
	PackSize        string     `json:"packSize"`
	OnPremisePrice  PriceValue `json:"onPremisePrice"`
	OffPremisePrice PriceValue `json:"offPremisePrice"`
	ShelfPrice      PriceValue `json:"shelfPrice"`
	UPCCode1        string     `json:"upcCode1"`
	UPCCode2        string     `json:"upcCode2"`
	EffectiveDate   string     `json:"effectiveDate"`

	// OriginalShelfPrice is set only on price-override shadow copies so the
	// pre-edit price stays displayable ("was $X").
	OriginalShelfPrice *PriceValue `json:"originalShelfPrice,omitempty"`
}

// Fixed column layout of the price book feed. Offsets are 0-indexed byte
// positions, end exclusive. Bytes 90-110 are filler in the source layout and
// intentionally unmapped.
const (
	colLiquorCodeStart      = 0
	colLiquorCodeEnd        = 5
	colBrandNameEnd         = 37
	colADANumberEnd         = 40
	colADANameEnd           = 65
	colVendorNameEnd        = 90
	colProofStart           = 110
	colProofEnd             = 115
	colBottleSizeEnd        = 122
	colPackSizeEnd          = 125
	colOnPremisePriceEnd    = 136
	colOffPremisePriceEnd   = 147
	colShelfPriceEnd        = 158
	colUPCCode1End          = 172
	colUPCCode2End          = 186
	colEffectiveDateEnd     = 194
)

// sliceField extracts a trimmed byte range from a feed line. Short or
// truncated lines yield whatever substring is available.
func sliceField(line string, start int, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

// reformatEffectiveDate rewrites an 8-character MMDDYYYY date as YYYY-MM-DD.
// Anything else passes through trimmed and unchanged.
func reformatEffectiveDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	return raw[4:8] + "-" + raw[0:2] + "-" + raw[2:4]
}

// ParsePriceBookLine turns one fixed-width feed line into a record. It never
// fails: malformed or truncated lines produce best-effort field values.
func ParsePriceBookLine(line string) *LiquorRecord {
	return &LiquorRecord{
		ID:              uuid.NewString(),
		LiquorCode:      sliceField(line, colLiquorCodeStart, colLiquorCodeEnd),
		BrandName:       sliceField(line, colLiquorCodeEnd, colBrandNameEnd),
		ADANumber:       sliceField(line, colBrandNameEnd, colADANumberEnd),
		ADAName:         sliceField(line, colADANumberEnd, colADANameEnd),
		VendorName:      sliceField(line, colADANameEnd, colVendorNameEnd),
		Proof:           sliceField(line, colProofStart, colProofEnd),
		BottleSize:      sliceField(line, colProofEnd, colBottleSizeEnd),
		PackSize:        sliceField(line, colBottleSizeEnd, colPackSizeEnd),
		OnPremisePrice:  ParsePrice(sliceField(line, colPackSizeEnd, colOnPremisePriceEnd)),
		OffPremisePrice: ParsePrice(sliceField(line, colOnPremisePriceEnd, colOffPremisePriceEnd)),
		ShelfPrice:      ParsePrice(sliceField(line, colOffPremisePriceEnd, colShelfPriceEnd)),
		UPCCode1:        sliceField(line, colShelfPriceEnd, colUPCCode1End),
		UPCCode2:        sliceField(line, colUPCCode1End, colUPCCode2End),
		EffectiveDate:   reformatEffectiveDate(sliceField(line, colUPCCode2End, colEffectiveDateEnd)),
	}
}

// CloneWithShelfPrice materializes a price-override shadow copy: new identity,
// overridden shelf price, original price preserved. The source record is not
// touched, so other sessions referencing it are unaffected.
func (r *LiquorRecord) CloneWithShelfPrice(price PriceValue) *LiquorRecord {
	clone := *r
	clone.ID = uuid.NewString()
	if r.OriginalShelfPrice != nil {
		original := *r.OriginalShelfPrice
		clone.OriginalShelfPrice = &original
	} else {
		original := r.ShelfPrice
		clone.OriginalShelfPrice = &original
	}
	clone.ShelfPrice = price
	return &clone
}
