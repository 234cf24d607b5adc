package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// RecordPaymentRequest describes money received from a client. Status defaults to COMPLETED.
type RecordPaymentRequest struct {
	ClientID      int64           `json:"clientId" binding:"required"`
	OrderID       *int64          `json:"orderId"`
	InvoiceID     *int64          `json:"invoiceId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" binding:"required"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transactionId"`
	Notes         string          `json:"notes"`
	PaidAt        *time.Time      `json:"paidAt"`
}

// ConfirmPaymentRequest carries a gateway result for a pending payment.
type ConfirmPaymentRequest struct {
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transactionId"`
}

type PaymentResponse struct {
	ID            int64      `json:"id"`
	Number        string     `json:"number"`
	ClientID      int64      `json:"clientId"`
	OrderID       *int64     `json:"orderId,omitempty"`
	InvoiceID     *int64     `json:"invoiceId,omitempty"`
	Amount        string     `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID *string    `json:"transactionId,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		Number:        p.Number,
		ClientID:      p.ClientID,
		OrderID:       p.OrderID,
		InvoiceID:     p.InvoiceID,
		Amount:        Money(p.Amount),
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}
