package handlers

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/tax"
	"github.com/polkiloo/atelier/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, workshopName string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// ClientFacade manages clients and collections.
type ClientFacade interface {
	CreateClient(ctx context.Context, accountID int64, in usecase.ClientInput) (*model.Client, error)
	Client(ctx context.Context, accountID, id int64) (*model.Client, error)
	Clients(ctx context.Context, accountID int64) ([]model.Client, error)
	CreateCollection(ctx context.Context, accountID int64, name, description string) (*model.Collection, error)
	Collection(ctx context.Context, accountID, id int64) (*model.Collection, error)
	Collections(ctx context.Context, accountID int64) ([]model.Collection, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, accountID int64, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, accountID, id int64) (*model.Order, error)
	Orders(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error)
	UpdateOrder(ctx context.Context, accountID, id int64, in usecase.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, accountID, id int64) error
	OrderBalance(ctx context.Context, accountID, id int64) (model.OrderBalance, error)
	ReconcileOrder(ctx context.Context, accountID, id int64) (*model.Reconciliation, error)
	OrderHistory(ctx context.Context, accountID, id int64) ([]model.AuditEntry, error)
}

// InvoiceFacade encapsulates invoice operations exposed via HTTP.
type InvoiceFacade interface {
	PreviewInvoice(items []model.LineItem) (tax.Breakdown, error)
	CreateInvoice(ctx context.Context, accountID int64, in usecase.CreateInvoiceInput) (*model.Invoice, error)
	Invoice(ctx context.Context, accountID, id int64) (*model.Invoice, error)
	Invoices(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error)
	UpdateInvoice(ctx context.Context, accountID, id int64, in usecase.UpdateInvoiceInput) (*model.Invoice, error)
	DeleteInvoice(ctx context.Context, accountID, id int64) error
	ReconcileInvoice(ctx context.Context, accountID, id int64) (*model.Reconciliation, error)
}

// PaymentFacade encapsulates payment operations exposed via HTTP.
type PaymentFacade interface {
	RecordPayment(ctx context.Context, accountID int64, in usecase.RecordPaymentInput) (*model.Payment, error)
	ConfirmPayment(ctx context.Context, accountID, id int64, in usecase.ConfirmPaymentInput) (*model.Payment, error)
	Payment(ctx context.Context, accountID, id int64) (*model.Payment, error)
	OrderPayments(ctx context.Context, accountID, orderID int64) ([]model.Payment, error)
}

// HealthChecker reports whether backing services are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// WorkshopFacade aggregates the full set of operations used across handlers.
type WorkshopFacade interface {
	AuthFacade
	ClientFacade
	OrderFacade
	InvoiceFacade
	PaymentFacade
	HealthChecker
}
