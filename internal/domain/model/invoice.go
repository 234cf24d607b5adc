package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus describes the billing lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusViewed    InvoiceStatus = "VIEWED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

var invoiceStateTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {
		InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled,
	},
	InvoiceStatusSent:    {InvoiceStatusViewed, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusViewed:  {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusViewed, InvoiceStatusPaid, InvoiceStatusCancelled},
}

// ParseInvoiceStatus validates a raw status value.
func ParseInvoiceStatus(raw string) (InvoiceStatus, bool) {
	status := InvoiceStatus(raw)
	switch status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether the invoice is paid or cancelled.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanTransitionInvoice reports whether the invoice may move from current to target.
func CanTransitionInvoice(current, target InvoiceStatus) bool {
	if current == target {
		return true
	}
	next, ok := invoiceStateTransitions[current]
	if !ok {
		return false
	}
	return slices.Contains(next, target)
}

// LineItem is a single billed line on an invoice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a billing document, optionally tied to one order.
type Invoice struct {
	ID            int64
	AccountID     int64
	ClientID      int64
	OrderID       *int64
	Number        string
	Status        InvoiceStatus
	Items         []LineItem
	Subtotal      decimal.Decimal
	VATAmount     decimal.Decimal
	NHILAmount    decimal.Decimal
	GETFundAmount decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	Notes         string
	DueDate       *time.Time
	SentAt        *time.Time
	ViewedAt      *time.Time
	PaidAt        *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balance is the amount still owed on the invoice.
func (i Invoice) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// EnterStatus moves the invoice into status. Each timestamp is stamped on first entry only.
// It reports whether sentAt was stamped by this call.
func (i *Invoice) EnterStatus(status InvoiceStatus, now time.Time) (firstSent bool) {
	i.Status = status
	ts := now
	switch status {
	case InvoiceStatusSent:
		if i.SentAt == nil {
			i.SentAt = &ts
			return true
		}
	case InvoiceStatusViewed:
		if i.ViewedAt == nil {
			i.ViewedAt = &ts
		}
	case InvoiceStatusPaid:
		if i.PaidAt == nil {
			i.PaidAt = &ts
		}
	}
	return false
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	ClientID *int64
	OrderID  *int64
	Status   *InvoiceStatus
}
