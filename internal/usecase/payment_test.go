package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

func TestPaymentCompletedSettlesOrderWithoutTouchingInvoiceStatus(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, testAccount, CreateOrderInput{
		ClientID:     client.ID,
		GarmentType:  "suit",
		LaborCost:    dec("80"),
		MaterialCost: decPtr("20"),
	})
	require.NoError(t, err)
	inv := f.invoice(t, client.ID, &order.ID)
	f.setInvoiceStatus(t, inv.ID, model.InvoiceStatusSent)

	payment, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:  client.ID,
		InvoiceID: &inv.ID,
		Amount:    dec("100"),
		Method:    model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2026-000001", payment.Number)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.OrderID)
	assert.Equal(t, order.ID, *payment.OrderID)
	require.NotNil(t, payment.PaidAt)

	balance, err := f.orders.Balance(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", balance.PaidAmount.StringFixed(2))
	assert.True(t, balance.Balance.IsZero())

	stored, err := f.invoices.Get(ctx, testAccount, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, stored.Status)
	assert.Equal(t, "100.00", stored.PaidAmount.StringFixed(2))
	assert.Nil(t, stored.PaidAt)

	received := f.notifier.OfKind(model.NotificationPaymentReceived)
	require.Len(t, received, 1)
	assert.Equal(t, payment.Number, received[0].Data["paymentNumber"])
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "50", nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RecordPaymentInput
		want error
	}{
		{"zero amount", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("0"), Method: model.PaymentMethodCash}, domainErrors.ErrInvalidAmount},
		{"negative amount", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("-5"), Method: model.PaymentMethodCash}, domainErrors.ErrInvalidAmount},
		{"unknown method", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("5"), Method: "BARTER"}, domainErrors.ErrInvalidPaymentMethod},
		{"momo without reference", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("5"), Method: model.PaymentMethodMTNMoMo, TransactionID: "  "}, domainErrors.ErrTransactionIDRequired},
		{"gateway without reference", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("5"), Method: model.PaymentMethodGateway}, domainErrors.ErrTransactionIDRequired},
		{"recorded as failed", RecordPaymentInput{ClientID: client.ID, OrderID: &order.ID, Amount: dec("5"), Method: model.PaymentMethodCash, Status: model.PaymentStatusFailed}, domainErrors.ErrValidation},
		{"foreign order", RecordPaymentInput{ClientID: client.ID, OrderID: ptr(int64(777)), Amount: dec("5"), Method: model.PaymentMethodCash}, domainErrors.ErrOrderNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.payments.Record(ctx, testAccount, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
}

func TestPaymentMissingTransactionIDIsValidationError(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "50", nil)
	ctx := context.Background()

	methods := []model.PaymentMethod{
		model.PaymentMethodCash,
		model.PaymentMethodMTNMoMo,
		model.PaymentMethodVodafoneCash,
		model.PaymentMethodAirtelTigoMoney,
		model.PaymentMethodBankTransfer,
		model.PaymentMethodGateway,
	}
	for _, method := range methods {
		t.Run(string(method), func(t *testing.T) {
			_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
				ClientID: client.ID,
				OrderID:  &order.ID,
				Amount:   dec("1"),
				Method:   method,
				Status:   model.PaymentStatusPending,
			})
			if !method.RequiresTransactionID() {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domainErrors.ErrTransactionIDRequired)
			assert.ErrorIs(t, err, domainErrors.ErrValidation)
			assert.NotErrorIs(t, err, domainErrors.ErrConflict)
		})
	}
}

func TestPaymentInvoiceForDifferentOrder(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	first := f.order(t, client.ID, "50", nil)
	second := f.order(t, client.ID, "50", nil)
	inv := f.invoice(t, client.ID, &first.ID)

	_, err := f.payments.Record(context.Background(), testAccount, RecordPaymentInput{
		ClientID:  client.ID,
		OrderID:   &second.ID,
		InvoiceID: &inv.ID,
		Amount:    dec("5"),
		Method:    model.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domainErrors.ErrPaymentOrderMismatch)
}

func TestPaymentAgainstCancelledInvoiceRejected(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	inv := f.invoice(t, client.ID, nil)
	f.setInvoiceStatus(t, inv.ID, model.InvoiceStatusCancelled)

	_, err := f.payments.Record(context.Background(), testAccount, RecordPaymentInput{
		ClientID:  client.ID,
		InvoiceID: &inv.ID,
		Amount:    dec("5"),
		Method:    model.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domainErrors.ErrInvoiceCancelled)
}

func TestPaymentOverpaymentIsAcceptedAndReported(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "50", nil)

	_, err := f.payments.Record(context.Background(), testAccount, RecordPaymentInput{
		ClientID:      client.ID,
		OrderID:       &order.ID,
		Amount:        dec("60"),
		Method:        model.PaymentMethodVodafoneCash,
		TransactionID: "VC-123",
	})
	require.NoError(t, err)

	balance, err := f.orders.Balance(context.Background(), testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "-10.00", balance.Balance.StringFixed(2))
	assert.True(t, balance.Overpaid)
}

func TestPaymentPendingThenConfirmed(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "100", nil)
	ctx := context.Background()

	pending, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:      client.ID,
		OrderID:       &order.ID,
		Amount:        dec("30"),
		Method:        model.PaymentMethodGateway,
		Status:        model.PaymentStatusPending,
		TransactionID: "gw_1",
	})
	require.NoError(t, err)
	assert.Nil(t, pending.PaidAt)
	assert.Empty(t, f.notifier.OfKind(model.NotificationPaymentReceived))

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())

	confirmed, err := f.payments.Confirm(ctx, testAccount, pending.ID, ConfirmPaymentInput{Status: model.PaymentStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, confirmed.Status)
	require.NotNil(t, confirmed.PaidAt)

	stored, err = f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", stored.PaidAmount.StringFixed(2))
	assert.Len(t, f.notifier.OfKind(model.NotificationPaymentReceived), 1)

	again, err := f.payments.Confirm(ctx, testAccount, pending.ID, ConfirmPaymentInput{Status: model.PaymentStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, again.Status)
	stored, err = f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", stored.PaidAmount.StringFixed(2))

	_, err = f.payments.Confirm(ctx, testAccount, pending.ID, ConfirmPaymentInput{Status: model.PaymentStatusFailed})
	assert.ErrorIs(t, err, domainErrors.ErrPaymentFinalized)
}

func TestPaymentFailedConfirmationLeavesBalance(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "100", nil)
	ctx := context.Background()

	pending, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:      client.ID,
		OrderID:       &order.ID,
		Amount:        dec("30"),
		Method:        model.PaymentMethodAirtelTigoMoney,
		Status:        model.PaymentStatusPending,
		TransactionID: "AT-9",
	})
	require.NoError(t, err)

	failed, err := f.payments.Confirm(ctx, testAccount, pending.ID, ConfirmPaymentInput{Status: model.PaymentStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, failed.Status)

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
}

func TestPaymentRollsBackWhenInvoiceUpdateFails(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "100", nil)
	inv := f.invoice(t, client.ID, &order.ID)
	ctx := context.Background()

	f.store.FailOn = func(op string) error {
		if op == "invoices.UpdatePaidAmount" {
			return errors.New("connection reset")
		}
		return nil
	}
	_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:  client.ID,
		InvoiceID: &inv.ID,
		Amount:    dec("40"),
		Method:    model.PaymentMethodCash,
	})
	require.Error(t, err)
	f.store.FailOn = nil

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
	payments, err := f.payments.ListByOrder(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRecomputeFromPaymentsRepairsDrift(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "100", nil)
	ctx := context.Background()

	for _, amount := range []string{"25", "15.50"} {
		_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
			ClientID: client.ID,
			OrderID:  &order.ID,
			Amount:   dec(amount),
			Method:   model.PaymentMethodBankTransfer,
		})
		require.NoError(t, err)
	}
	_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:      client.ID,
		OrderID:       &order.ID,
		Amount:        dec("99"),
		Method:        model.PaymentMethodMTNMoMo,
		Status:        model.PaymentStatusPending,
		TransactionID: "MOMO-1",
	})
	require.NoError(t, err)

	clean, err := f.payments.RecomputeFromPayments(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.False(t, clean.Repaired)
	assert.Equal(t, "40.50", clean.Recomputed.StringFixed(2))

	require.NoError(t, f.store.Orders().UpdatePaidAmount(ctx, order.ID, dec("12")))

	repaired, err := f.payments.RecomputeFromPayments(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.True(t, repaired.Repaired)
	assert.Equal(t, "12.00", repaired.Previous.StringFixed(2))
	assert.Equal(t, "28.50", repaired.Drift.StringFixed(2))

	stored, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.50", stored.PaidAmount.StringFixed(2))
	assert.Contains(t, f.audit.Actions(), model.AuditActionOrderReconciled)
}

func TestRecomputeInvoiceFromPaymentsRepairsDrift(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	order := f.order(t, client.ID, "500", nil)
	inv := f.invoice(t, client.ID, nil)
	ctx := context.Background()

	for _, amount := range []string{"30", "20.25"} {
		_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
			ClientID:  client.ID,
			InvoiceID: &inv.ID,
			Amount:    dec(amount),
			Method:    model.PaymentMethodCash,
		})
		require.NoError(t, err)
	}
	_, err := f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID:      client.ID,
		InvoiceID:     &inv.ID,
		Amount:        dec("60"),
		Method:        model.PaymentMethodMTNMoMo,
		Status:        model.PaymentStatusPending,
		TransactionID: "MOMO-7",
	})
	require.NoError(t, err)
	_, err = f.payments.Record(ctx, testAccount, RecordPaymentInput{
		ClientID: client.ID,
		OrderID:  &order.ID,
		Amount:   dec("45"),
		Method:   model.PaymentMethodCash,
	})
	require.NoError(t, err)

	clean, err := f.payments.RecomputeInvoiceFromPayments(ctx, testAccount, inv.ID)
	require.NoError(t, err)
	assert.False(t, clean.Repaired)
	assert.Equal(t, inv.ID, clean.InvoiceID)
	assert.Zero(t, clean.OrderID)
	assert.Equal(t, "50.25", clean.Recomputed.StringFixed(2))

	require.NoError(t, f.store.Invoices().UpdatePaidAmount(ctx, inv.ID, dec("5")))

	repaired, err := f.payments.RecomputeInvoiceFromPayments(ctx, testAccount, inv.ID)
	require.NoError(t, err)
	assert.True(t, repaired.Repaired)
	assert.Equal(t, "5.00", repaired.Previous.StringFixed(2))
	assert.Equal(t, "45.25", repaired.Drift.StringFixed(2))

	stored, err := f.invoices.Get(ctx, testAccount, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.25", stored.PaidAmount.StringFixed(2))
	assert.Contains(t, f.audit.Actions(), model.AuditActionInvoiceReconciled)

	untouched, err := f.orders.Get(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "45.00", untouched.PaidAmount.StringFixed(2))

	_, err = f.payments.RecomputeInvoiceFromPayments(ctx, testAccount, inv.ID+100)
	assert.ErrorIs(t, err, domainErrors.ErrInvoiceNotFound)
	_, err = f.payments.RecomputeInvoiceFromPayments(ctx, testAccount+1, inv.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvoiceNotFound)
}

func TestReconcileBatchWalksAllAccounts(t *testing.T) {
	f := newFixture(t)
	client := f.client(t)
	ctx := context.Background()
	var ids []int64
	for range 3 {
		ids = append(ids, f.order(t, client.ID, "10", nil).ID)
	}
	require.NoError(t, f.store.Orders().UpdatePaidAmount(ctx, ids[1], dec("3")))

	results, next, err := f.payments.ReconcileBatch(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, ids[1], next)
	assert.True(t, results[1].Repaired)

	results, next, err = f.payments.ReconcileBatch(ctx, next, 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, next)
	assert.False(t, results[0].Repaired)
}

func TestPaymentListByOrderUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.ListByOrder(context.Background(), testAccount, 404)
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}
