package dto

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Money renders an amount rounded half-up to two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// OptionalMoney renders a nullable amount.
func OptionalMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Money(*d)
	return &s
}

// OptionalAmount is a patchable amount. Set is true when the field was present,
// and a present null leaves Value nil.
type OptionalAmount struct {
	Set   bool
	Value *decimal.Decimal
}

func (a *OptionalAmount) UnmarshalJSON(data []byte) error {
	a.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		a.Value = nil
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	a.Value = &d
	return nil
}

// Cleared reports whether the field was explicitly set to null.
func (a OptionalAmount) Cleared() bool {
	return a.Set && a.Value == nil
}
