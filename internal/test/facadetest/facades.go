// Package facadetest provides controllable implementations of the HTTP facades.
package facadetest

import (
	"context"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/tax"
	"github.com/polkiloo/atelier/internal/usecase"
)

var epoch = time.Unix(0, 0).UTC()

// AuthFacadeStub emulates authentication behaviour in HTTP tests.
type AuthFacadeStub struct {
	RegisterFn     func(ctx context.Context, login, password, workshopName string) (string, error)
	AuthenticateFn func(ctx context.Context, login, password string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password, workshopName string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, workshopName)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated account.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// ClientFacadeStub provides controllable behaviour for client and collection endpoints.
type ClientFacadeStub struct {
	CreateClientFn     func(context.Context, int64, usecase.ClientInput) (*model.Client, error)
	ClientFn           func(context.Context, int64, int64) (*model.Client, error)
	ClientsFn          func(context.Context, int64) ([]model.Client, error)
	CreateCollectionFn func(context.Context, int64, string, string) (*model.Collection, error)
	CollectionFn       func(context.Context, int64, int64) (*model.Collection, error)
	CollectionsFn      func(context.Context, int64) ([]model.Collection, error)
}

func (s ClientFacadeStub) CreateClient(ctx context.Context, accountID int64, in usecase.ClientInput) (*model.Client, error) {
	if s.CreateClientFn != nil {
		return s.CreateClientFn(ctx, accountID, in)
	}
	return &model.Client{ID: 1, AccountID: accountID, Name: in.Name, Phone: in.Phone, Email: in.Email, CreatedAt: epoch}, nil
}

func (s ClientFacadeStub) Client(ctx context.Context, accountID, id int64) (*model.Client, error) {
	if s.ClientFn != nil {
		return s.ClientFn(ctx, accountID, id)
	}
	return &model.Client{ID: id, AccountID: accountID, Name: "Ama", CreatedAt: epoch}, nil
}

func (s ClientFacadeStub) Clients(ctx context.Context, accountID int64) ([]model.Client, error) {
	if s.ClientsFn != nil {
		return s.ClientsFn(ctx, accountID)
	}
	return []model.Client{{ID: 1, AccountID: accountID, Name: "Ama", CreatedAt: epoch}}, nil
}

func (s ClientFacadeStub) CreateCollection(ctx context.Context, accountID int64, name, description string) (*model.Collection, error) {
	if s.CreateCollectionFn != nil {
		return s.CreateCollectionFn(ctx, accountID, name, description)
	}
	return &model.Collection{ID: 1, AccountID: accountID, Name: name, Description: description, CreatedAt: epoch}, nil
}

func (s ClientFacadeStub) Collection(ctx context.Context, accountID, id int64) (*model.Collection, error) {
	if s.CollectionFn != nil {
		return s.CollectionFn(ctx, accountID, id)
	}
	return &model.Collection{ID: id, AccountID: accountID, Name: "Harmattan", CreatedAt: epoch}, nil
}

func (s ClientFacadeStub) Collections(ctx context.Context, accountID int64) ([]model.Collection, error) {
	if s.CollectionsFn != nil {
		return s.CollectionsFn(ctx, accountID)
	}
	return nil, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn    func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn     func(context.Context, int64, int64) (*model.Order, error)
	OrdersFn    func(context.Context, int64, model.OrderFilter) ([]model.Order, error)
	UpdateFn    func(context.Context, int64, int64, usecase.UpdateOrderInput) (*model.Order, error)
	DeleteFn    func(context.Context, int64, int64) error
	BalanceFn   func(context.Context, int64, int64) (model.OrderBalance, error)
	ReconcileFn func(context.Context, int64, int64) (*model.Reconciliation, error)
	HistoryFn   func(context.Context, int64, int64) ([]model.AuditEntry, error)
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, accountID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, accountID, in)
	}
	order := &model.Order{
		ID:           1,
		AccountID:    accountID,
		ClientID:     in.ClientID,
		Number:       "ORD-1970-0001",
		Status:       model.OrderStatusPending,
		GarmentType:  in.GarmentType,
		Quantity:     in.Quantity,
		LaborCost:    in.LaborCost,
		MaterialCost: in.MaterialCost,
		CollectionID: in.CollectionID,
		Version:      1,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
	order.RecalculateTotal()
	return order, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, accountID, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, accountID, id)
	}
	return &model.Order{ID: id, AccountID: accountID, Status: model.OrderStatusPending, Version: 1}, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, accountID, filter)
	}
	return nil, nil
}

func (s OrderFacadeStub) UpdateOrder(ctx context.Context, accountID, id int64, in usecase.UpdateOrderInput) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, accountID, id, in)
	}
	order := &model.Order{ID: id, AccountID: accountID, Status: model.OrderStatusPending, Version: 2}
	if in.Status != nil {
		order.Status = *in.Status
	}
	return order, nil
}

func (s OrderFacadeStub) DeleteOrder(ctx context.Context, accountID, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, accountID, id)
	}
	return nil
}

func (s OrderFacadeStub) OrderBalance(ctx context.Context, accountID, id int64) (model.OrderBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, accountID, id)
	}
	return model.OrderBalance{OrderID: id}, nil
}

func (s OrderFacadeStub) ReconcileOrder(ctx context.Context, accountID, id int64) (*model.Reconciliation, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, accountID, id)
	}
	return &model.Reconciliation{OrderID: id, AccountID: accountID}, nil
}

func (s OrderFacadeStub) OrderHistory(ctx context.Context, accountID, id int64) ([]model.AuditEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, accountID, id)
	}
	return nil, nil
}

// InvoiceFacadeStub provides controllable behaviour for invoice endpoints.
type InvoiceFacadeStub struct {
	PreviewFn   func([]model.LineItem) (tax.Breakdown, error)
	CreateFn    func(context.Context, int64, usecase.CreateInvoiceInput) (*model.Invoice, error)
	InvoiceFn   func(context.Context, int64, int64) (*model.Invoice, error)
	InvoicesFn  func(context.Context, int64, model.InvoiceFilter) ([]model.Invoice, error)
	UpdateFn    func(context.Context, int64, int64, usecase.UpdateInvoiceInput) (*model.Invoice, error)
	DeleteFn    func(context.Context, int64, int64) error
	ReconcileFn func(context.Context, int64, int64) (*model.Reconciliation, error)
}

// PreviewInvoice prices items with the real calculator unless overridden.
func (s InvoiceFacadeStub) PreviewInvoice(items []model.LineItem) (tax.Breakdown, error) {
	if s.PreviewFn != nil {
		return s.PreviewFn(items)
	}
	return tax.Calculate(items).Rounded(), nil
}

func (s InvoiceFacadeStub) CreateInvoice(ctx context.Context, accountID int64, in usecase.CreateInvoiceInput) (*model.Invoice, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, accountID, in)
	}
	invoice := &model.Invoice{
		ID:        1,
		AccountID: accountID,
		ClientID:  in.ClientID,
		OrderID:   in.OrderID,
		Number:    "INV-1970-0001",
		Status:    model.InvoiceStatusDraft,
		Version:   1,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
	tax.Calculate(in.Items).Rounded().ApplyTo(invoice)
	return invoice, nil
}

func (s InvoiceFacadeStub) Invoice(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, accountID, id)
	}
	return &model.Invoice{ID: id, AccountID: accountID, Status: model.InvoiceStatusDraft, Version: 1}, nil
}

func (s InvoiceFacadeStub) Invoices(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx, accountID, filter)
	}
	return nil, nil
}

func (s InvoiceFacadeStub) UpdateInvoice(ctx context.Context, accountID, id int64, in usecase.UpdateInvoiceInput) (*model.Invoice, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, accountID, id, in)
	}
	invoice := &model.Invoice{ID: id, AccountID: accountID, Status: model.InvoiceStatusDraft, Version: 2}
	if in.Status != nil {
		invoice.Status = *in.Status
	}
	return invoice, nil
}

func (s InvoiceFacadeStub) DeleteInvoice(ctx context.Context, accountID, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, accountID, id)
	}
	return nil
}

func (s InvoiceFacadeStub) ReconcileInvoice(ctx context.Context, accountID, id int64) (*model.Reconciliation, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, accountID, id)
	}
	return &model.Reconciliation{InvoiceID: id, AccountID: accountID}, nil
}

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	RecordFn        func(context.Context, int64, usecase.RecordPaymentInput) (*model.Payment, error)
	ConfirmFn       func(context.Context, int64, int64, usecase.ConfirmPaymentInput) (*model.Payment, error)
	PaymentFn       func(context.Context, int64, int64) (*model.Payment, error)
	OrderPaymentsFn func(context.Context, int64, int64) ([]model.Payment, error)
}

func (s PaymentFacadeStub) RecordPayment(ctx context.Context, accountID int64, in usecase.RecordPaymentInput) (*model.Payment, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, accountID, in)
	}
	status := in.Status
	if status == "" {
		status = model.PaymentStatusCompleted
	}
	return &model.Payment{
		ID:        1,
		AccountID: accountID,
		ClientID:  in.ClientID,
		OrderID:   in.OrderID,
		InvoiceID: in.InvoiceID,
		Number:    "PAY-1970-0001",
		Amount:    in.Amount,
		Method:    in.Method,
		Status:    status,
		CreatedAt: epoch,
	}, nil
}

func (s PaymentFacadeStub) ConfirmPayment(ctx context.Context, accountID, id int64, in usecase.ConfirmPaymentInput) (*model.Payment, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, accountID, id, in)
	}
	return &model.Payment{ID: id, AccountID: accountID, Method: model.PaymentMethodGateway, Status: in.Status}, nil
}

func (s PaymentFacadeStub) Payment(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, accountID, id)
	}
	return &model.Payment{ID: id, AccountID: accountID, Method: model.PaymentMethodCash, Status: model.PaymentStatusCompleted}, nil
}

func (s PaymentFacadeStub) OrderPayments(ctx context.Context, accountID, orderID int64) ([]model.Payment, error) {
	if s.OrderPaymentsFn != nil {
		return s.OrderPaymentsFn(ctx, accountID, orderID)
	}
	return nil, nil
}

// WorkshopFacadeStub aggregates facade dependencies for HTTP layer tests.
type WorkshopFacadeStub struct {
	AuthFacadeStub
	ClientFacadeStub
	OrderFacadeStub
	InvoiceFacadeStub
	PaymentFacadeStub
	HealthErr error
}

// HealthCheck reports the configured health error.
func (s *WorkshopFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
