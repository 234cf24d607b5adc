package usecase

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/tax"
)

const (
	resourceOrder   = "order"
	resourceInvoice = "invoice"
	resourcePayment = "payment"
)

var textPolicy = bluemonday.StrictPolicy()

const maxCleanPasses = 8

// CleanText strips markup from free text and trims surrounding whitespace.
// Entity-encoded markup is decoded and stripped as well; the result is a fixed
// point, so sanitizing it again would not remove anything.
func CleanText(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(next)
		}
		s = next
	}
	// Still changing: keep the escaped form so no markup survives.
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// ValidateCost rejects negative amounts.
func ValidateCost(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainErrors.ErrInvalidCost
	}
	return nil
}

// ValidateLineItems checks every item before it reaches the tax calculator and
// returns cleaned copies.
func ValidateLineItems(items []model.LineItem) ([]model.LineItem, error) {
	cleaned := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		item.Description = CleanText(item.Description)
		if item.Description == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, domainErrors.ErrInvalidLineItem
		}
		item.Amount = decimal.Zero
		cleaned = append(cleaned, item)
	}
	return cleaned, nil
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(tax.Places)
}

func roundMoneyPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := roundMoney(*d)
	return &r
}

// notFound narrows a generic repository miss to the resource specific error.
func notFound(err, specific error) error {
	if errors.Is(err, domainErrors.ErrNotFound) {
		return specific
	}
	return err
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameMoney(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
