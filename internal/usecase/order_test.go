package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

func TestOrderCreateDerivesTotalAndNumber(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)

	order, err := f.orders.Create(context.Background(), testAccount, CreateOrderInput{
		ClientID:     client.ID,
		GarmentType:  " <i>kaba</i> and slit ",
		LaborCost:    dec("80"),
		MaterialCost: decPtr("20.004"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-000001", order.Number)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "kaba and slit", order.GarmentType)
	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, "100.00", order.TotalAmount.StringFixed(2))
	assert.True(t, order.PaidAmount.IsZero())
	assert.Equal(t, []string{model.AuditActionOrderCreated}, f.audit.Actions())

	second := f.order(t, client.ID, "10", nil)
	assert.Equal(t, "ORD-2026-000002", second.Number)
}

func TestOrderCreateValidation(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateOrderInput
		want error
	}{
		{"missing client", CreateOrderInput{GarmentType: "kaba"}, domainErrors.ErrValidation},
		{"missing garment", CreateOrderInput{ClientID: client.ID, GarmentType: "<b></b>"}, domainErrors.ErrValidation},
		{"negative quantity", CreateOrderInput{ClientID: client.ID, GarmentType: "kaba", Quantity: -1}, domainErrors.ErrInvalidQuantity},
		{"negative labor", CreateOrderInput{ClientID: client.ID, GarmentType: "kaba", LaborCost: dec("-1")}, domainErrors.ErrInvalidCost},
		{"negative material", CreateOrderInput{ClientID: client.ID, GarmentType: "kaba", MaterialCost: decPtr("-0.01")}, domainErrors.ErrInvalidCost},
		{"unknown client", CreateOrderInput{ClientID: 9999, GarmentType: "kaba"}, domainErrors.ErrClientNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, testAccount, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrderCreateInUnknownCollectionRollsBack(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)

	_, err := f.orders.Create(context.Background(), testAccount, CreateOrderInput{
		ClientID:     client.ID,
		GarmentType:  "kaba",
		CollectionID: ptr(int64(4242)),
	})
	require.ErrorIs(t, err, domainErrors.ErrCollectionNotFound)

	orders, err := f.orders.List(context.Background(), testAccount, model.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderUpdateStartedAtAndSameStatusNoop(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	collection := f.collection(t)
	order := f.order(t, client.ID, "80", &collection.ID)

	inProgress := f.setOrderStatus(t, order.ID, model.OrderStatusInProgress)
	require.NotNil(t, inProgress.StartedAt)
	assert.True(t, inProgress.StartedAt.Equal(fixedNow))
	assert.Len(t, f.notifier.OfKind(model.NotificationOrderStatusChanged), 1)

	f.orders.now = func() time.Time { return fixedNow.Add(time.Hour) }
	again := f.setOrderStatus(t, order.ID, model.OrderStatusInProgress)

	assert.True(t, again.StartedAt.Equal(fixedNow))
	assert.Equal(t, inProgress.Version, again.Version)
	assert.Len(t, f.notifier.OfKind(model.NotificationOrderStatusChanged), 1)
	total, completed := f.counters(t, collection.ID)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, completed)
	assert.Equal(t, []string{model.AuditActionOrderCreated, model.AuditActionOrderUpdated}, f.audit.Actions())
}

func TestOrderUpdateStatusNotification(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "80", nil)

	f.setOrderStatus(t, order.ID, model.OrderStatusConfirmed)

	sent := f.notifier.OfKind(model.NotificationOrderStatusChanged)
	require.Len(t, sent, 1)
	assert.Equal(t, "ama@example.com", sent[0].Recipient.Email)
	assert.Equal(t, "+233240000000", sent[0].Recipient.Phone)
	assert.Equal(t, order.Number, sent[0].Data["orderNumber"])
	assert.Equal(t, "PENDING", sent[0].Data["from"])
	assert.Equal(t, "CONFIRMED", sent[0].Data["to"])
	assert.NotEmpty(t, sent[0].ID)
}

func TestOrderUpdateRejectsIllegalTransitions(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()

	backwards := f.order(t, client.ID, "10", nil)
	f.setOrderStatus(t, backwards.ID, model.OrderStatusInProgress)
	_, err := f.orders.Update(ctx, testAccount, backwards.ID, UpdateOrderInput{Status: ptr(model.OrderStatusConfirmed)})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)

	completed := f.order(t, client.ID, "10", nil)
	f.setOrderStatus(t, completed.ID, model.OrderStatusCompleted)
	_, err = f.orders.Update(ctx, testAccount, completed.ID, UpdateOrderInput{Status: ptr(model.OrderStatusCancelled)})
	assert.ErrorIs(t, err, domainErrors.ErrConflict)

	_, err = f.orders.Update(ctx, testAccount, completed.ID, UpdateOrderInput{Status: ptr(model.OrderStatus("SHIPPED"))})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStatus)

	stored, err := f.orders.Get(ctx, testAccount, backwards.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInProgress, stored.Status)
}

func TestOrderUpdateCompletedAtRefreshedOnCompletion(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "10", nil)

	done := f.setOrderStatus(t, order.ID, model.OrderStatusCompleted)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(fixedNow))
	assert.Nil(t, done.StartedAt)
}

func TestOrderUpdateRecomputesTotalFromMergedCosts(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, testAccount, CreateOrderInput{
		ClientID:     client.ID,
		GarmentType:  "agbada",
		LaborCost:    dec("80"),
		MaterialCost: decPtr("20"),
	})
	require.NoError(t, err)

	updated, err := f.orders.Update(ctx, testAccount, order.ID, UpdateOrderInput{LaborCost: decPtr("95.5")})
	require.NoError(t, err)
	assert.Equal(t, "115.50", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, "20.00", updated.MaterialCost.StringFixed(2))

	entries := f.audit.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, []string{"laborCost", "totalAmount"}, last.Details["changedFields"])
}

func TestOrderUpdateClearsMaterialCost(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, testAccount, CreateOrderInput{
		ClientID:     client.ID,
		GarmentType:  "kaftan",
		LaborCost:    dec("80"),
		MaterialCost: decPtr("20"),
	})
	require.NoError(t, err)
	require.Equal(t, "100.00", order.TotalAmount.StringFixed(2))

	_, err = f.orders.Update(ctx, testAccount, order.ID, UpdateOrderInput{
		MaterialCost:      decPtr("5"),
		ClearMaterialCost: true,
	})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	updated, err := f.orders.Update(ctx, testAccount, order.ID, UpdateOrderInput{ClearMaterialCost: true})
	require.NoError(t, err)
	assert.Nil(t, updated.MaterialCost)
	assert.Equal(t, "80.00", updated.TotalAmount.StringFixed(2))

	entries := f.audit.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, []string{"materialCost", "totalAmount"}, last.Details["changedFields"])

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.MaterialCost)
	assert.Equal(t, "80.00", stored.TotalAmount.StringFixed(2))

	again, err := f.orders.Update(ctx, testAccount, order.ID, UpdateOrderInput{ClearMaterialCost: true, Description: ptr("no fabric")})
	require.NoError(t, err)
	assert.Nil(t, again.MaterialCost)
	assert.Equal(t, "80.00", again.TotalAmount.StringFixed(2))
}

func TestOrderUpdateVersionConflict(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "10", nil)

	_, err := f.orders.Update(context.Background(), testAccount, order.ID, UpdateOrderInput{
		Description:     ptr("hem lowered"),
		ExpectedVersion: ptr(order.Version + 1),
	})
	assert.ErrorIs(t, err, domainErrors.ErrConcurrentUpdate)

	updated, err := f.orders.Update(context.Background(), testAccount, order.ID, UpdateOrderInput{
		Description:     ptr("hem lowered"),
		ExpectedVersion: ptr(order.Version),
	})
	require.NoError(t, err)
	assert.Equal(t, order.Version+1, updated.Version)
}

func TestOrderCollectionCountersFollowLifecycle(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	collection := f.collection(t)
	ctx := context.Background()

	for range 4 {
		f.order(t, client.ID, "10", &collection.ID)
	}
	order := f.order(t, client.ID, "10", &collection.ID)
	f.setOrderStatus(t, order.ID, model.OrderStatusConfirmed)

	total, completed := f.counters(t, collection.ID)
	require.Equal(t, 5, total)
	require.Equal(t, 0, completed)

	f.setOrderStatus(t, order.ID, model.OrderStatusCompleted)
	total, completed = f.counters(t, collection.ID)
	assert.Equal(t, 5, total)
	assert.Equal(t, 1, completed)

	require.NoError(t, f.orders.Delete(ctx, testAccount, order.ID))
	total, completed = f.counters(t, collection.ID)
	assert.Equal(t, 4, total)
	assert.Equal(t, 0, completed)
}

func TestOrderCancelLeavesCollectionDenominator(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	collection := f.collection(t)
	order := f.order(t, client.ID, "10", &collection.ID)
	f.order(t, client.ID, "10", &collection.ID)

	f.setOrderStatus(t, order.ID, model.OrderStatusCancelled)
	total, completed := f.counters(t, collection.ID)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, completed)

	require.NoError(t, f.orders.Delete(context.Background(), testAccount, order.ID))
	total, _ = f.counters(t, collection.ID)
	assert.Equal(t, 1, total)
}

func TestOrderMoveBetweenCollections(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	from := f.collection(t)
	to := f.collection(t)
	order := f.order(t, client.ID, "10", &from.ID)
	f.setOrderStatus(t, order.ID, model.OrderStatusCompleted)

	_, err := f.orders.Update(context.Background(), testAccount, order.ID, UpdateOrderInput{CollectionID: &to.ID})
	require.NoError(t, err)

	total, completed := f.counters(t, from.ID)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, completed)
	total, completed = f.counters(t, to.ID)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, completed)
}

func TestOrderDeleteRejectedWithPayments(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	collection := f.collection(t)
	order := f.order(t, client.ID, "100", &collection.ID)

	_, err := f.payments.Record(context.Background(), testAccount, RecordPaymentInput{
		ClientID: client.ID,
		OrderID:  &order.ID,
		Amount:   dec("10"),
		Method:   model.PaymentMethodCash,
	})
	require.NoError(t, err)

	err = f.orders.Delete(context.Background(), testAccount, order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderHasPayments)
	total, _ := f.counters(t, collection.ID)
	assert.Equal(t, 1, total)
}

func TestOrderUpdateRollsBackWhenCounterWriteFails(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	collection := f.collection(t)
	order := f.order(t, client.ID, "10", &collection.ID)

	f.store.FailOn = func(op string) error {
		if op == "collections.ApplyDelta" {
			return errors.New("disk full")
		}
		return nil
	}
	_, err := f.orders.Update(context.Background(), testAccount, order.ID, UpdateOrderInput{Status: ptr(model.OrderStatusCompleted)})
	require.Error(t, err)
	f.store.FailOn = nil

	stored, err := f.orders.Get(context.Background(), testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Empty(t, f.notifier.OfKind(model.NotificationOrderStatusChanged))
}

func TestOrderAccountsAreIsolated(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "10", nil)

	_, err := f.orders.Get(context.Background(), testAccount+1, order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestOrderNotificationFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = errors.New("provider down")
	client := f.client(t)
	order := f.order(t, client.ID, "10", nil)

	updated := f.setOrderStatus(t, order.ID, model.OrderStatusConfirmed)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
}

func TestOrderBalance(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "100", nil)

	_, err := f.payments.Record(context.Background(), testAccount, RecordPaymentInput{
		ClientID: client.ID,
		OrderID:  &order.ID,
		Amount:   dec("40"),
		Method:   model.PaymentMethodCash,
	})
	require.NoError(t, err)

	balance, err := f.orders.Balance(context.Background(), testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", balance.Balance.StringFixed(2))
	assert.False(t, balance.Overpaid)
}
