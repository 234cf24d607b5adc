package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// InvoiceRepository describes persistence operations with invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, accountID, id int64) (*model.Invoice, error)
	GetForUpdate(ctx context.Context, accountID, id int64) (*model.Invoice, error)
	List(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error
	Delete(ctx context.Context, accountID, id int64) error
}
