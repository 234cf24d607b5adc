package app

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/tax"
	"github.com/polkiloo/atelier/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// UseCases groups the business services the facade delegates to.
type UseCases struct {
	Auth        *usecase.AuthUseCase
	Clients     *usecase.ClientUseCase
	Collections *usecase.CollectionUseCase
	Orders      *usecase.OrderUseCase
	Invoices    *usecase.InvoiceUseCase
	Payments    *usecase.PaymentUseCase
	Audit       *usecase.AuditTrail
}

// WorkshopFacade exposes every workshop operation to the transport layer.
type WorkshopFacade struct {
	uc     UseCases
	health HealthChecker
}

func NewWorkshopFacade(uc UseCases, health HealthChecker) *WorkshopFacade {
	return &WorkshopFacade{uc: uc, health: health}
}

func (f *WorkshopFacade) Register(ctx context.Context, login, password, workshopName string) (string, error) {
	_, token, err := f.uc.Auth.Register(ctx, login, password, workshopName)
	return token, err
}

func (f *WorkshopFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.uc.Auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *WorkshopFacade) ParseToken(token string) (int64, error) {
	return f.uc.Auth.ParseToken(token)
}

func (f *WorkshopFacade) CreateClient(ctx context.Context, accountID int64, in usecase.ClientInput) (*model.Client, error) {
	return f.uc.Clients.Create(ctx, accountID, in)
}

func (f *WorkshopFacade) Client(ctx context.Context, accountID, id int64) (*model.Client, error) {
	return f.uc.Clients.Get(ctx, accountID, id)
}

func (f *WorkshopFacade) Clients(ctx context.Context, accountID int64) ([]model.Client, error) {
	return f.uc.Clients.List(ctx, accountID)
}

func (f *WorkshopFacade) CreateCollection(ctx context.Context, accountID int64, name, description string) (*model.Collection, error) {
	return f.uc.Collections.Create(ctx, accountID, name, description)
}

func (f *WorkshopFacade) Collection(ctx context.Context, accountID, id int64) (*model.Collection, error) {
	return f.uc.Collections.Get(ctx, accountID, id)
}

func (f *WorkshopFacade) Collections(ctx context.Context, accountID int64) ([]model.Collection, error) {
	return f.uc.Collections.List(ctx, accountID)
}

func (f *WorkshopFacade) CreateOrder(ctx context.Context, accountID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.uc.Orders.Create(ctx, accountID, in)
}

func (f *WorkshopFacade) Order(ctx context.Context, accountID, id int64) (*model.Order, error) {
	return f.uc.Orders.Get(ctx, accountID, id)
}

func (f *WorkshopFacade) Orders(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error) {
	return f.uc.Orders.List(ctx, accountID, filter)
}

func (f *WorkshopFacade) UpdateOrder(ctx context.Context, accountID, id int64, in usecase.UpdateOrderInput) (*model.Order, error) {
	return f.uc.Orders.Update(ctx, accountID, id, in)
}

func (f *WorkshopFacade) DeleteOrder(ctx context.Context, accountID, id int64) error {
	return f.uc.Orders.Delete(ctx, accountID, id)
}

func (f *WorkshopFacade) OrderBalance(ctx context.Context, accountID, id int64) (model.OrderBalance, error) {
	return f.uc.Orders.Balance(ctx, accountID, id)
}

// ReconcileOrder recomputes the order's paid amount from its completed payments.
func (f *WorkshopFacade) ReconcileOrder(ctx context.Context, accountID, id int64) (*model.Reconciliation, error) {
	return f.uc.Payments.RecomputeFromPayments(ctx, accountID, id)
}

func (f *WorkshopFacade) OrderHistory(ctx context.Context, accountID, id int64) ([]model.AuditEntry, error) {
	return f.uc.Audit.OrderHistory(ctx, accountID, id)
}

func (f *WorkshopFacade) PreviewInvoice(items []model.LineItem) (tax.Breakdown, error) {
	return f.uc.Invoices.Preview(items)
}

func (f *WorkshopFacade) CreateInvoice(ctx context.Context, accountID int64, in usecase.CreateInvoiceInput) (*model.Invoice, error) {
	return f.uc.Invoices.Create(ctx, accountID, in)
}

func (f *WorkshopFacade) Invoice(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	return f.uc.Invoices.Get(ctx, accountID, id)
}

func (f *WorkshopFacade) Invoices(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error) {
	return f.uc.Invoices.List(ctx, accountID, filter)
}

func (f *WorkshopFacade) UpdateInvoice(ctx context.Context, accountID, id int64, in usecase.UpdateInvoiceInput) (*model.Invoice, error) {
	return f.uc.Invoices.Update(ctx, accountID, id, in)
}

func (f *WorkshopFacade) DeleteInvoice(ctx context.Context, accountID, id int64) error {
	return f.uc.Invoices.Delete(ctx, accountID, id)
}

// ReconcileInvoice recomputes the invoice's paid amount from the completed payments
// recorded against it.
func (f *WorkshopFacade) ReconcileInvoice(ctx context.Context, accountID, id int64) (*model.Reconciliation, error) {
	return f.uc.Payments.RecomputeInvoiceFromPayments(ctx, accountID, id)
}

func (f *WorkshopFacade) RecordPayment(ctx context.Context, accountID int64, in usecase.RecordPaymentInput) (*model.Payment, error) {
	return f.uc.Payments.Record(ctx, accountID, in)
}

func (f *WorkshopFacade) ConfirmPayment(ctx context.Context, accountID, id int64, in usecase.ConfirmPaymentInput) (*model.Payment, error) {
	return f.uc.Payments.Confirm(ctx, accountID, id, in)
}

func (f *WorkshopFacade) Payment(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	return f.uc.Payments.Get(ctx, accountID, id)
}

func (f *WorkshopFacade) OrderPayments(ctx context.Context, accountID, orderID int64) ([]model.Payment, error) {
	return f.uc.Payments.ListByOrder(ctx, accountID, orderID)
}

// ReconcileBatch repairs drifted paid amounts for one page of orders across all accounts.
func (f *WorkshopFacade) ReconcileBatch(ctx context.Context, afterID int64, limit int) ([]model.Reconciliation, int64, error) {
	return f.uc.Payments.ReconcileBatch(ctx, afterID, limit)
}

func (f *WorkshopFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
