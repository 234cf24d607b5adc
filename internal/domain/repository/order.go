package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, accountID, id int64) (*model.Order, error)
	// GetForUpdate reads the order and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, accountID, id int64) (*model.Order, error)
	List(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error)
	// Update persists the order if its version still matches and bumps the version.
	Update(ctx context.Context, order *model.Order) error
	UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error
	Delete(ctx context.Context, accountID, id int64) error
	ListRefs(ctx context.Context, afterID int64, limit int) ([]model.OrderRef, error)
}
