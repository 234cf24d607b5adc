// Package tax computes invoice totals under the flat levy model: VAT, NHIL and
// GETFund are each charged on the subtotal and never on each other.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// Levy rates applied to the subtotal.
var (
	VATRate     = decimal.RequireFromString("0.15")
	NHILRate    = decimal.RequireFromString("0.025")
	GETFundRate = decimal.RequireFromString("0.025")
)

// Places is the number of decimal places used when amounts are stored or displayed.
const Places = 2

// Breakdown holds unrounded invoice amounts.
type Breakdown struct {
	Items         []model.LineItem
	Subtotal      decimal.Decimal
	VATAmount     decimal.Decimal
	NHILAmount    decimal.Decimal
	GETFundAmount decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Calculate prices every item and derives the levies from the subtotal.
// Inputs are assumed validated. An empty list yields zero amounts.
func Calculate(items []model.LineItem) Breakdown {
	priced := make([]model.LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item.Amount = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(item.Amount)
		priced[i] = item
	}

	vat := subtotal.Mul(VATRate)
	nhil := subtotal.Mul(NHILRate)
	getfund := subtotal.Mul(GETFundRate)

	return Breakdown{
		Items:         priced,
		Subtotal:      subtotal,
		VATAmount:     vat,
		NHILAmount:    nhil,
		GETFundAmount: getfund,
		TotalAmount:   subtotal.Add(vat).Add(nhil).Add(getfund),
	}
}

// Rounded returns a copy with every amount rounded half away from zero to Places.
// The rounded total is the sum of the rounded parts so stored invoices stay balanced.
func (b Breakdown) Rounded() Breakdown {
	items := make([]model.LineItem, len(b.Items))
	for i, item := range b.Items {
		item.UnitPrice = item.UnitPrice.Round(Places)
		item.Amount = item.Amount.Round(Places)
		items[i] = item
	}
	subtotal := b.Subtotal.Round(Places)
	vat := b.VATAmount.Round(Places)
	nhil := b.NHILAmount.Round(Places)
	getfund := b.GETFundAmount.Round(Places)
	return Breakdown{
		Items:         items,
		Subtotal:      subtotal,
		VATAmount:     vat,
		NHILAmount:    nhil,
		GETFundAmount: getfund,
		TotalAmount:   subtotal.Add(vat).Add(nhil).Add(getfund),
	}
}

// ApplyTo overwrites the items and all five totals of the invoice together.
func (b Breakdown) ApplyTo(invoice *model.Invoice) {
	r := b.Rounded()
	invoice.Items = r.Items
	invoice.Subtotal = r.Subtotal
	invoice.VATAmount = r.VATAmount
	invoice.NHILAmount = r.NHILAmount
	invoice.GETFundAmount = r.GETFundAmount
	invoice.TotalAmount = r.TotalAmount
}
