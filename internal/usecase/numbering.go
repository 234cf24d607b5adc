package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/polkiloo/atelier/internal/domain/repository"
)

const (
	orderNumberPrefix   = "ORD"
	invoiceNumberPrefix = "INV"
	paymentNumberPrefix = "PAY"
)

// nextNumber issues the next human readable number, e.g. ORD-2026-000042.
// Sequences restart every year and are kept per account.
func nextNumber(ctx context.Context, seq repository.SequenceRepository, prefix string, accountID int64, now time.Time) (string, error) {
	year := now.Year()
	name := fmt.Sprintf("%s:%d:%04d", strings.ToLower(prefix), accountID, year)
	value, err := seq.Next(ctx, name)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%04d-%06d", prefix, year, value), nil
}

var (
	cedi         = currency.MustParseISO("GHS")
	moneyPrinter = message.NewPrinter(language.English)
)

// FormatMoney renders an amount for client facing messages.
func FormatMoney(amount decimal.Decimal) string {
	return moneyPrinter.Sprint(cedi.Amount(amount.Round(2).InexactFloat64()))
}
