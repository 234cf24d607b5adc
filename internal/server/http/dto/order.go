package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// CreateOrderRequest describes a new order. Amounts may be sent as JSON numbers or strings.
type CreateOrderRequest struct {
	ClientID     int64            `json:"clientId" binding:"required"`
	GarmentType  string           `json:"garmentType" binding:"required"`
	Description  string           `json:"description"`
	Quantity     int              `json:"quantity"`
	LaborCost    decimal.Decimal  `json:"laborCost"`
	MaterialCost *decimal.Decimal `json:"materialCost"`
	Deadline     *time.Time       `json:"deadline"`
	CollectionID *int64           `json:"collectionId"`
}

// UpdateOrderRequest is a partial edit. Omitted fields are left untouched;
// "materialCost": null removes the material cost.
type UpdateOrderRequest struct {
	Status          *string          `json:"status"`
	GarmentType     *string          `json:"garmentType"`
	Description     *string          `json:"description"`
	Quantity        *int             `json:"quantity"`
	LaborCost       *decimal.Decimal `json:"laborCost"`
	MaterialCost    OptionalAmount   `json:"materialCost"`
	Deadline        *time.Time       `json:"deadline"`
	CollectionID    *int64           `json:"collectionId"`
	ExpectedVersion *int64           `json:"expectedVersion"`
}

// OrderResponse describes an order with its derived totals.
type OrderResponse struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	ClientID     int64      `json:"clientId"`
	Status       string     `json:"status"`
	GarmentType  string     `json:"garmentType"`
	Description  string     `json:"description,omitempty"`
	Quantity     int        `json:"quantity"`
	MaterialCost *string    `json:"materialCost,omitempty"`
	LaborCost    string     `json:"laborCost"`
	TotalAmount  string     `json:"totalAmount"`
	PaidAmount   string     `json:"paidAmount"`
	Balance      string     `json:"balance"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CollectionID *int64     `json:"collectionId,omitempty"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		ClientID:     o.ClientID,
		Status:       string(o.Status),
		GarmentType:  o.GarmentType,
		Description:  o.Description,
		Quantity:     o.Quantity,
		MaterialCost: OptionalMoney(o.MaterialCost),
		LaborCost:    Money(o.LaborCost),
		TotalAmount:  Money(o.TotalAmount),
		PaidAmount:   Money(o.PaidAmount),
		Balance:      Money(o.Balance()),
		Deadline:     o.Deadline,
		StartedAt:    o.StartedAt,
		CompletedAt:  o.CompletedAt,
		CollectionID: o.CollectionID,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// BalanceResponse reports what is still owed on an order.
type BalanceResponse struct {
	OrderID     int64  `json:"orderId"`
	TotalAmount string `json:"totalAmount"`
	PaidAmount  string `json:"paidAmount"`
	Balance     string `json:"balance"`
	Overpaid    bool   `json:"overpaid"`
}

func NewBalanceResponse(b model.OrderBalance) BalanceResponse {
	return BalanceResponse{
		OrderID:     b.OrderID,
		TotalAmount: Money(b.TotalAmount),
		PaidAmount:  Money(b.PaidAmount),
		Balance:     Money(b.Balance),
		Overpaid:    b.Overpaid,
	}
}

// ReconciliationResponse reports a paid amount recomputed from payment records.
type ReconciliationResponse struct {
	OrderID    int64  `json:"orderId,omitempty"`
	InvoiceID  int64  `json:"invoiceId,omitempty"`
	Previous   string `json:"previous"`
	Recomputed string `json:"recomputed"`
	Drift      string `json:"drift"`
	Repaired   bool   `json:"repaired"`
	Overpaid   bool   `json:"overpaid"`
}

func NewReconciliationResponse(r model.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		OrderID:    r.OrderID,
		InvoiceID:  r.InvoiceID,
		Previous:   Money(r.Previous),
		Recomputed: Money(r.Recomputed),
		Drift:      Money(r.Drift),
		Repaired:   r.Repaired,
		Overpaid:   r.Overpaid,
	}
}

// HistoryEntry is one audit record of an order.
type HistoryEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	ActorID   int64          `json:"actorId"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewHistoryEntry(e model.AuditEntry) HistoryEntry {
	return HistoryEntry{
		ID:        e.ID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}
