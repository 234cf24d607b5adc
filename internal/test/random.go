package test

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns an alphanumeric string of length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomLineItems returns n valid line items with quantities up to 20 and
// unit prices between 0.001 and 999.999, so sub-cent values are exercised.
func RandomLineItems(n int) []model.LineItem {
	items := make([]model.LineItem, n)
	for i := range items {
		items[i] = model.LineItem{
			Description: "item " + RandomASCIIString(4, 8),
			Quantity:    1 + rand.IntN(20),
			UnitPrice:   decimal.New(1+rand.Int64N(999_999), -3),
		}
	}
	return items
}
