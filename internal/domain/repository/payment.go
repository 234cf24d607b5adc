package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// PaymentRepository describes persistence operations with payments.
// Payments are never deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, accountID, id int64) (*model.Payment, error)
	GetForUpdate(ctx context.Context, accountID, id int64) (*model.Payment, error)
	ListByOrder(ctx context.Context, accountID, orderID int64) ([]model.Payment, error)
	// UpdateStatus finalises a pending payment.
	UpdateStatus(ctx context.Context, payment *model.Payment) error
	CountByOrder(ctx context.Context, orderID int64) (int, error)
	SumCompletedByOrder(ctx context.Context, orderID int64) (decimal.Decimal, error)
	SumCompletedByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error)
}
