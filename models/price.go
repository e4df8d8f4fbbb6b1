package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greatlakespos/pricebook_backend/utils"
)

// PriceValue is the dual-typed price carried by a price book field. The feed
// usually prints a currency literal ("$24.99", "1,234.56") which parses to a
// decimal amount, but some rows carry placeholders ("N/A", "CALL") that must
// survive untouched. Numeric reports which arm is populated.
type PriceValue struct {
	Amount  decimal.Decimal
	Raw     string
	Numeric bool
}

// ParsePrice accepts common feed-formatted price strings:
// - "$24.99"
// - "1,234.56"
// - "  $ 28.99 "
// Dollar signs and thousands separators are stripped before parsing. Anything
// that still fails to parse is kept verbatim as the raw arm.
func ParsePrice(value string) PriceValue {
	trimmed := strings.TrimSpace(value)
	cleaned := strings.ReplaceAll(trimmed, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := utils.ParseDecimal(cleaned)
	if err != nil {
		return PriceValue{Raw: trimmed}
	}
	return PriceValue{Amount: amount, Raw: trimmed, Numeric: true}
}

// NumericPrice wraps an already-parsed amount, e.g. a session price override.
func NumericPrice(amount decimal.Decimal) PriceValue {
	return PriceValue{Amount: amount, Raw: amount.StringFixed(2), Numeric: true}
}

// Display renders either arm for labels and UI ("$24.99" or the raw text).
func (p PriceValue) Display() string {
	if p.Numeric {
		return "$" + p.Amount.StringFixed(2)
	}
	return p.Raw
}

// Cents returns the amount in integer cents (0 for the raw arm); the POS label
// CSV wants whole cents, not a decimal.
func (p PriceValue) Cents() int64 {
	if !p.Numeric {
		return 0
	}
	return p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// MarshalJSON emits a JSON number for the numeric arm and a JSON string for
// the raw arm, matching what API clients expect from the feed semantics.
func (p PriceValue) MarshalJSON() ([]byte, error) {
	if p.Numeric {
		return []byte(p.Amount.String()), nil
	}
	return json.Marshal(p.Raw)
}

// UnmarshalJSON accepts both arms back, so records survive a round trip
// through API payloads.
func (p *PriceValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PriceValue{Raw: s}
		return nil
	}
	amount, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	*p = PriceValue{Amount: amount, Raw: string(data), Numeric: true}
	return nil
}
