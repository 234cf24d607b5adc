package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/tax"
)

// LineItemRequest is one billed line. The amount is always derived.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineItems converts request lines into domain line items.
func LineItems(in []LineItemRequest) []model.LineItem {
	items := make([]model.LineItem, 0, len(in))
	for _, item := range in {
		items = append(items, model.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return items
}

// CreateInvoiceRequest describes a new draft invoice.
type CreateInvoiceRequest struct {
	ClientID int64             `json:"clientId" binding:"required"`
	OrderID  *int64            `json:"orderId"`
	Items    []LineItemRequest `json:"items"`
	DueDate  *time.Time        `json:"dueDate"`
	Notes    string            `json:"notes"`
}

// UpdateInvoiceRequest is a partial edit. A present items list replaces every line.
type UpdateInvoiceRequest struct {
	Status          *string            `json:"status"`
	Items           *[]LineItemRequest `json:"items"`
	DueDate         *time.Time         `json:"dueDate"`
	Notes           *string            `json:"notes"`
	ExpectedVersion *int64             `json:"expectedVersion"`
}

// PreviewRequest prices line items without creating an invoice.
type PreviewRequest struct {
	Items []LineItemRequest `json:"items"`
}

type LineItemResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// TaxBreakdownResponse lists the subtotal, each levy and the grand total.
type TaxBreakdownResponse struct {
	Items         []LineItemResponse `json:"items"`
	Subtotal      string             `json:"subtotal"`
	VATAmount     string             `json:"vatAmount"`
	NHILAmount    string             `json:"nhilAmount"`
	GETFundAmount string             `json:"getfundAmount"`
	TotalAmount   string             `json:"totalAmount"`
}

func NewTaxBreakdownResponse(b tax.Breakdown) TaxBreakdownResponse {
	return TaxBreakdownResponse{
		Items:         lineItemResponses(b.Items),
		Subtotal:      Money(b.Subtotal),
		VATAmount:     Money(b.VATAmount),
		NHILAmount:    Money(b.NHILAmount),
		GETFundAmount: Money(b.GETFundAmount),
		TotalAmount:   Money(b.TotalAmount),
	}
}

// InvoiceResponse describes an invoice with its levies and running balance.
type InvoiceResponse struct {
	ID            int64              `json:"id"`
	Number        string             `json:"number"`
	ClientID      int64              `json:"clientId"`
	OrderID       *int64             `json:"orderId,omitempty"`
	Status        string             `json:"status"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      string             `json:"subtotal"`
	VATAmount     string             `json:"vatAmount"`
	NHILAmount    string             `json:"nhilAmount"`
	GETFundAmount string             `json:"getfundAmount"`
	TotalAmount   string             `json:"totalAmount"`
	PaidAmount    string             `json:"paidAmount"`
	Balance       string             `json:"balance"`
	Notes         string             `json:"notes,omitempty"`
	DueDate       *time.Time         `json:"dueDate,omitempty"`
	SentAt        *time.Time         `json:"sentAt,omitempty"`
	ViewedAt      *time.Time         `json:"viewedAt,omitempty"`
	PaidAt        *time.Time         `json:"paidAt,omitempty"`
	Version       int64              `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func NewInvoiceResponse(i model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		Number:        i.Number,
		ClientID:      i.ClientID,
		OrderID:       i.OrderID,
		Status:        string(i.Status),
		Items:         lineItemResponses(i.Items),
		Subtotal:      Money(i.Subtotal),
		VATAmount:     Money(i.VATAmount),
		NHILAmount:    Money(i.NHILAmount),
		GETFundAmount: Money(i.GETFundAmount),
		TotalAmount:   Money(i.TotalAmount),
		PaidAmount:    Money(i.PaidAmount),
		Balance:       Money(i.Balance()),
		Notes:         i.Notes,
		DueDate:       i.DueDate,
		SentAt:        i.SentAt,
		ViewedAt:      i.ViewedAt,
		PaidAt:        i.PaidAt,
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func lineItemResponses(items []model.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   Money(item.UnitPrice),
			Amount:      Money(item.Amount),
		})
	}
	return out
}
