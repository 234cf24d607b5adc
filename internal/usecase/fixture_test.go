package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/atelier/internal/domain/model"
	testhelpers "github.com/polkiloo/atelier/internal/test"
)

const testAccount int64 = 100

var fixedNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store       *testhelpers.MemStore
	notifier    *testhelpers.NotifierStub
	audit       *testhelpers.AuditLoggerStub
	clients     *ClientUseCase
	collections *CollectionUseCase
	orders      *OrderUseCase
	invoices    *InvoiceUseCase
	payments    *PaymentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := testhelpers.NewMemStore()
	notifier := &testhelpers.NotifierStub{}
	audit := &testhelpers.AuditLoggerStub{}
	effects := NewSideEffects(notifier, audit, store, logger)
	effects.now = func() time.Time { return fixedNow }

	f := &fixture{
		store:       store,
		notifier:    notifier,
		audit:       audit,
		clients:     NewClientUseCase(store),
		collections: NewCollectionUseCase(store),
		orders:      NewOrderUseCase(store, effects, logger),
		invoices:    NewInvoiceUseCase(store, effects, logger),
		payments:    NewPaymentUseCase(store, effects, logger),
	}
	clock := func() time.Time { return fixedNow }
	f.clients.now = clock
	f.collections.now = clock
	f.orders.now = clock
	f.invoices.now = clock
	f.payments.now = clock
	return f
}

func (f *fixture) client(t *testing.T) *model.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), testAccount, ClientInput{
		Name:  "Ama Mensah",
		Phone: "+233 24 000 0000",
		Email: "ama@example.com",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) collection(t *testing.T) *model.Collection {
	t.Helper()
	c, err := f.collections.Create(context.Background(), testAccount, "Harmattan 2026", "")
	require.NoError(t, err)
	return c
}

func (f *fixture) order(t *testing.T, clientID int64, labor string, collectionID *int64) *model.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), testAccount, CreateOrderInput{
		ClientID:     clientID,
		GarmentType:  "kaba",
		LaborCost:    dec(labor),
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) setOrderStatus(t *testing.T, orderID int64, status model.OrderStatus) *model.Order {
	t.Helper()
	o, err := f.orders.Update(context.Background(), testAccount, orderID, UpdateOrderInput{Status: &status})
	require.NoError(t, err)
	return o
}

func (f *fixture) counters(t *testing.T, id int64) (int, int) {
	t.Helper()
	c, err := f.collections.Get(context.Background(), testAccount, id)
	require.NoError(t, err)
	return c.TotalOrders, c.CompletedOrders
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}
