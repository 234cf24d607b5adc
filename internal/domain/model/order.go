package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the production lifecycle of a garment order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusInProgress      OrderStatus = "IN_PROGRESS"
	OrderStatusReadyForFitting OrderStatus = "READY_FOR_FITTING"
	OrderStatusFittingDone     OrderStatus = "FITTING_DONE"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// Forward moves may skip intermediate production steps. Terminal statuses have no entry.
var orderStateTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {
		OrderStatusConfirmed, OrderStatusInProgress, OrderStatusReadyForFitting,
		OrderStatusFittingDone, OrderStatusCompleted, OrderStatusCancelled,
	},
	OrderStatusConfirmed: {
		OrderStatusInProgress, OrderStatusReadyForFitting, OrderStatusFittingDone,
		OrderStatusCompleted, OrderStatusCancelled,
	},
	OrderStatusInProgress:      {OrderStatusReadyForFitting, OrderStatusFittingDone, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusReadyForFitting: {OrderStatusFittingDone, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusFittingDone:     {OrderStatusCompleted, OrderStatusCancelled},
}

// ParseOrderStatus validates a raw status value.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(raw)
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProgress, OrderStatusReadyForFitting,
		OrderStatusFittingDone, OrderStatusCompleted, OrderStatusCancelled:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is accepted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionOrder reports whether the order may move from current to target.
// Resubmitting the current status is always accepted and treated as a no-op by callers.
func CanTransitionOrder(current, target OrderStatus) bool {
	if current == target {
		return true
	}
	next, ok := orderStateTransitions[current]
	if !ok {
		return false
	}
	return slices.Contains(next, target)
}

// Order is a unit of garment work for one client.
type Order struct {
	ID           int64
	AccountID    int64
	ClientID     int64
	Number       string
	Status       OrderStatus
	GarmentType  string
	Description  string
	Quantity     int
	MaterialCost *decimal.Decimal
	LaborCost    decimal.Decimal
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	Deadline     *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CollectionID *int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderTotal returns labor plus material cost, treating a missing material cost as zero.
func OrderTotal(labor decimal.Decimal, material *decimal.Decimal) decimal.Decimal {
	if material == nil {
		return labor
	}
	return labor.Add(*material)
}

// RecalculateTotal restores the total invariant after a cost edit.
func (o *Order) RecalculateTotal() {
	o.TotalAmount = OrderTotal(o.LaborCost, o.MaterialCost)
}

// Balance is the amount still owed on the order.
func (o Order) Balance() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// EnterStatus moves the order into status and stamps lifecycle timestamps.
// startedAt is set once; completedAt is refreshed on every completion.
func (o *Order) EnterStatus(status OrderStatus, now time.Time) {
	o.Status = status
	switch status {
	case OrderStatusInProgress:
		if o.StartedAt == nil {
			ts := now
			o.StartedAt = &ts
		}
	case OrderStatusCompleted:
		ts := now
		o.CompletedAt = &ts
	}
}

// OrderBalance summarises what a client owes on an order.
type OrderBalance struct {
	OrderID     int64
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Balance     decimal.Decimal
	Overpaid    bool
}

// OverpaymentTolerance is the amount paidAmount may exceed totalAmount before it is reported.
var OverpaymentTolerance = decimal.RequireFromString("0.01")

// BalanceOf derives the balance view of an order.
func BalanceOf(o Order) OrderBalance {
	return OrderBalance{
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
		PaidAmount:  o.PaidAmount,
		Balance:     o.Balance(),
		Overpaid:    IsOverpaid(o.TotalAmount, o.PaidAmount),
	}
}

// IsOverpaid reports a paid amount beyond the total plus tolerance.
func IsOverpaid(total, paid decimal.Decimal) bool {
	return paid.GreaterThan(total.Add(OverpaymentTolerance))
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	ClientID     *int64
	CollectionID *int64
	Status       *OrderStatus
}

// OrderRef identifies an order across accounts for maintenance sweeps.
type OrderRef struct {
	ID        int64
	AccountID int64
}
