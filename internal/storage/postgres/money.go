package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are NUMERIC(14,2). They are written as fixed point text and read
// back through a ::text cast so no float ever sits in between.

func moneyArg(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoneyArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := moneyArg(*d)
	return &s
}

func parseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return d, nil
}

func parseOptionalMoney(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseMoney(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
