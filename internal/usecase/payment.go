package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// RecordPaymentInput describes money received from a client.
type RecordPaymentInput struct {
	ClientID      int64
	OrderID       *int64
	InvoiceID     *int64
	Amount        decimal.Decimal
	Method        model.PaymentMethod
	Status        model.PaymentStatus
	TransactionID string
	Notes         string
	PaidAt        *time.Time
}

// ConfirmPaymentInput carries the result reported by a payment provider.
type ConfirmPaymentInput struct {
	Status        model.PaymentStatus
	TransactionID string
}

// PaymentUseCase records payments and keeps order and invoice paid amounts in step with them.
type PaymentUseCase struct {
	store   repository.Store
	effects *SideEffects
	logger  *slog.Logger
	now     func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(store repository.Store, effects *SideEffects, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{store: store, effects: effects, logger: logger, now: time.Now}
}

// Record stores a payment. A COMPLETED payment is added to the paid amount of its order
// and invoice in the same transaction. Balances reaching zero do not change any status.
func (u *PaymentUseCase) Record(ctx context.Context, accountID int64, in RecordPaymentInput) (*model.Payment, error) {
	if err := validatePayment(&in); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	payment := &model.Payment{
		AccountID: accountID,
		ClientID:  in.ClientID,
		InvoiceID: in.InvoiceID,
		Amount:    roundMoney(in.Amount),
		Method:    in.Method,
		Status:    in.Status,
		Notes:     CleanText(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.TransactionID != "" {
		txID := in.TransactionID
		payment.TransactionID = &txID
	}
	if payment.Counts() {
		paidAt := now
		if in.PaidAt != nil {
			paidAt = in.PaidAt.UTC()
		}
		payment.PaidAt = &paidAt
	}

	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		if _, err := repos.Clients().GetByID(ctx, accountID, in.ClientID); err != nil {
			return notFound(err, domainErrors.ErrClientNotFound)
		}

		orderID := in.OrderID
		if in.InvoiceID != nil {
			invoice, err := repos.Invoices().GetByID(ctx, accountID, *in.InvoiceID)
			if err != nil {
				return notFound(err, domainErrors.ErrInvoiceNotFound)
			}
			if invoice.ClientID != in.ClientID {
				return domainErrors.ErrInvoiceNotFound
			}
			if invoice.OrderID != nil {
				if orderID == nil {
					orderID = invoice.OrderID
				} else if *orderID != *invoice.OrderID {
					return domainErrors.ErrPaymentOrderMismatch
				}
			}
		}
		payment.OrderID = orderID

		order, invoice, err := lockTargets(ctx, repos, accountID, payment)
		if err != nil {
			return err
		}
		if invoice != nil && invoice.Status == model.InvoiceStatusCancelled {
			return domainErrors.ErrInvoiceCancelled
		}

		number, err := nextNumber(ctx, repos.Sequences(), paymentNumberPrefix, accountID, now)
		if err != nil {
			return err
		}
		payment.Number = number
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if !payment.Counts() {
			return nil
		}
		return u.applyPayment(ctx, repos, payment, order, invoice)
	})
	if err != nil {
		return nil, err
	}

	u.afterPayment(ctx, payment, model.AuditActionPaymentRecorded)
	return payment, nil
}

// Confirm finalises a PENDING payment with the provider's result. COMPLETED applies the
// payment to its order and invoice; FAILED does not. Repeating the same result is a no-op.
func (u *PaymentUseCase) Confirm(ctx context.Context, accountID, id int64, in ConfirmPaymentInput) (*model.Payment, error) {
	if in.Status != model.PaymentStatusCompleted && in.Status != model.PaymentStatusFailed {
		return nil, domainErrors.Validationf("payment result must be COMPLETED or FAILED")
	}
	in.TransactionID = strings.TrimSpace(in.TransactionID)

	var (
		confirmed *model.Payment
		changed   bool
	)
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		payment, err := repos.Payments().GetForUpdate(ctx, accountID, id)
		if err != nil {
			return notFound(err, domainErrors.ErrPaymentNotFound)
		}
		confirmed = payment
		if payment.Status == in.Status {
			return nil
		}
		if payment.Status != model.PaymentStatusPending {
			return domainErrors.ErrPaymentFinalized
		}

		if in.TransactionID != "" && payment.TransactionID == nil {
			txID := in.TransactionID
			payment.TransactionID = &txID
		}
		now := u.now().UTC()
		payment.Status = in.Status
		payment.UpdatedAt = now
		if payment.Counts() {
			payment.PaidAt = &now
		}
		if err := repos.Payments().UpdateStatus(ctx, payment); err != nil {
			return err
		}
		changed = true
		if !payment.Counts() {
			return nil
		}

		order, invoice, err := lockTargets(ctx, repos, accountID, payment)
		if err != nil {
			return err
		}
		return u.applyPayment(ctx, repos, payment, order, invoice)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		u.afterPayment(ctx, confirmed, model.AuditActionPaymentConfirmed)
	}
	return confirmed, nil
}

// Get returns a payment owned by the account.
func (u *PaymentUseCase) Get(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	payment, err := u.store.Payments().GetByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrPaymentNotFound)
	}
	return payment, nil
}

// ListByOrder returns every payment recorded against an order.
func (u *PaymentUseCase) ListByOrder(ctx context.Context, accountID, orderID int64) ([]model.Payment, error) {
	if _, err := u.store.Orders().GetByID(ctx, accountID, orderID); err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return u.store.Payments().ListByOrder(ctx, accountID, orderID)
}

// RecomputeFromPayments rebuilds an order's paid amount from its completed payments and
// repairs the stored running total when it has drifted.
func (u *PaymentUseCase) RecomputeFromPayments(ctx context.Context, accountID, orderID int64) (*model.Reconciliation, error) {
	var result model.Reconciliation
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		order, err := repos.Orders().GetForUpdate(ctx, accountID, orderID)
		if err != nil {
			return notFound(err, domainErrors.ErrOrderNotFound)
		}
		sum, err := repos.Payments().SumCompletedByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		result = model.Reconciliation{
			OrderID:    order.ID,
			AccountID:  accountID,
			Previous:   order.PaidAmount,
			Recomputed: sum,
			Drift:      sum.Sub(order.PaidAmount),
			Overpaid:   model.IsOverpaid(order.TotalAmount, sum),
		}
		if result.Drift.IsZero() {
			return nil
		}
		result.Repaired = true
		return repos.Orders().UpdatePaidAmount(ctx, order.ID, sum)
	})
	if err != nil {
		return nil, err
	}

	if result.Repaired {
		u.logger.Warn("order paid amount drift repaired",
			slog.Int64("order_id", result.OrderID),
			slog.String("previous", result.Previous.StringFixed(2)),
			slog.String("recomputed", result.Recomputed.StringFixed(2)),
		)
		u.effects.Audit(ctx, model.AuditEntry{
			AccountID:    accountID,
			ActorID:      accountID,
			Action:       model.AuditActionOrderReconciled,
			ResourceType: resourceOrder,
			ResourceID:   result.OrderID,
			Details: map[string]any{
				"previous":   result.Previous.StringFixed(2),
				"recomputed": result.Recomputed.StringFixed(2),
			},
		})
	}
	if result.Overpaid {
		u.logger.Warn("order overpaid", slog.Int64("order_id", result.OrderID), slog.String("paid", result.Recomputed.StringFixed(2)))
	}
	return &result, nil
}

// RecomputeInvoiceFromPayments rebuilds an invoice's paid amount from the completed
// payments recorded against it and repairs the stored running total when it has drifted.
func (u *PaymentUseCase) RecomputeInvoiceFromPayments(ctx context.Context, accountID, invoiceID int64) (*model.Reconciliation, error) {
	var result model.Reconciliation
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		invoice, err := repos.Invoices().GetForUpdate(ctx, accountID, invoiceID)
		if err != nil {
			return notFound(err, domainErrors.ErrInvoiceNotFound)
		}
		sum, err := repos.Payments().SumCompletedByInvoice(ctx, invoice.ID)
		if err != nil {
			return err
		}

		result = model.Reconciliation{
			InvoiceID:  invoice.ID,
			AccountID:  accountID,
			Previous:   invoice.PaidAmount,
			Recomputed: sum,
			Drift:      sum.Sub(invoice.PaidAmount),
			Overpaid:   model.IsOverpaid(invoice.TotalAmount, sum),
		}
		if result.Drift.IsZero() {
			return nil
		}
		result.Repaired = true
		return repos.Invoices().UpdatePaidAmount(ctx, invoice.ID, sum)
	})
	if err != nil {
		return nil, err
	}

	if result.Repaired {
		u.logger.Warn("invoice paid amount drift repaired",
			slog.Int64("invoice_id", result.InvoiceID),
			slog.String("previous", result.Previous.StringFixed(2)),
			slog.String("recomputed", result.Recomputed.StringFixed(2)),
		)
		u.effects.Audit(ctx, model.AuditEntry{
			AccountID:    accountID,
			ActorID:      accountID,
			Action:       model.AuditActionInvoiceReconciled,
			ResourceType: resourceInvoice,
			ResourceID:   result.InvoiceID,
			Details: map[string]any{
				"previous":   result.Previous.StringFixed(2),
				"recomputed": result.Recomputed.StringFixed(2),
			},
		})
	}
	if result.Overpaid {
		u.logger.Warn("invoice overpaid", slog.Int64("invoice_id", result.InvoiceID), slog.String("paid", result.Recomputed.StringFixed(2)))
	}
	return &result, nil
}

// ReconcileBatch recomputes up to limit orders with IDs above afterID across all accounts.
// It returns the results and the cursor for the next batch; a zero cursor means the sweep is done.
func (u *PaymentUseCase) ReconcileBatch(ctx context.Context, afterID int64, limit int) ([]model.Reconciliation, int64, error) {
	refs, err := u.store.Orders().ListRefs(ctx, afterID, limit)
	if err != nil {
		return nil, 0, err
	}

	results := make([]model.Reconciliation, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return results, 0, err
		}
		res, err := u.RecomputeFromPayments(ctx, ref.AccountID, ref.ID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			u.logger.Error("order reconciliation failed", slog.Int64("order_id", ref.ID), slog.String("error", err.Error()))
			continue
		}
		results = append(results, *res)
	}

	var next int64
	if len(refs) == limit && len(refs) > 0 {
		next = refs[len(refs)-1].ID
	}
	return results, next, nil
}

// lockTargets locks the order and then the invoice the payment applies to.
func lockTargets(ctx context.Context, repos repository.Factory, accountID int64, payment *model.Payment) (*model.Order, *model.Invoice, error) {
	var (
		order   *model.Order
		invoice *model.Invoice
		err     error
	)
	if payment.OrderID != nil {
		order, err = repos.Orders().GetForUpdate(ctx, accountID, *payment.OrderID)
		if err != nil {
			return nil, nil, notFound(err, domainErrors.ErrOrderNotFound)
		}
		if order.ClientID != payment.ClientID {
			return nil, nil, domainErrors.ErrOrderNotFound
		}
	}
	if payment.InvoiceID != nil {
		invoice, err = repos.Invoices().GetForUpdate(ctx, accountID, *payment.InvoiceID)
		if err != nil {
			return nil, nil, notFound(err, domainErrors.ErrInvoiceNotFound)
		}
	}
	return order, invoice, nil
}

// applyPayment increments running paid totals. Overpayment is reported, not rejected.
func (u *PaymentUseCase) applyPayment(ctx context.Context, repos repository.Factory, payment *model.Payment, order *model.Order, invoice *model.Invoice) error {
	if order != nil {
		order.PaidAmount = order.PaidAmount.Add(payment.Amount)
		if err := repos.Orders().UpdatePaidAmount(ctx, order.ID, order.PaidAmount); err != nil {
			return err
		}
		if model.IsOverpaid(order.TotalAmount, order.PaidAmount) {
			u.logger.Warn("order overpaid",
				slog.Int64("order_id", order.ID),
				slog.String("total", order.TotalAmount.StringFixed(2)),
				slog.String("paid", order.PaidAmount.StringFixed(2)),
			)
		}
	}
	if invoice != nil {
		invoice.PaidAmount = invoice.PaidAmount.Add(payment.Amount)
		if err := repos.Invoices().UpdatePaidAmount(ctx, invoice.ID, invoice.PaidAmount); err != nil {
			return err
		}
		if model.IsOverpaid(invoice.TotalAmount, invoice.PaidAmount) {
			u.logger.Warn("invoice overpaid",
				slog.Int64("invoice_id", invoice.ID),
				slog.String("total", invoice.TotalAmount.StringFixed(2)),
				slog.String("paid", invoice.PaidAmount.StringFixed(2)),
			)
		}
	}
	return nil
}

func (u *PaymentUseCase) afterPayment(ctx context.Context, payment *model.Payment, action string) {
	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    payment.AccountID,
		ActorID:      payment.AccountID,
		Action:       action,
		ResourceType: resourcePayment,
		ResourceID:   payment.ID,
		Details: map[string]any{
			"number": payment.Number,
			"amount": payment.Amount.StringFixed(2),
			"method": string(payment.Method),
			"status": string(payment.Status),
		},
	})
	if !payment.Counts() {
		return
	}
	u.effects.NotifyClient(ctx, payment.AccountID, payment.ClientID, model.NotificationPaymentReceived, map[string]string{
		"paymentNumber": payment.Number,
		"amount":        FormatMoney(payment.Amount),
	})
}

func validatePayment(in *RecordPaymentInput) error {
	if in.ClientID <= 0 {
		return domainErrors.Validationf("client id is required")
	}
	if !in.Amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if _, ok := model.ParsePaymentMethod(string(in.Method)); !ok {
		return domainErrors.ErrInvalidPaymentMethod
	}
	if in.Status == "" {
		in.Status = model.PaymentStatusCompleted
	}
	if in.Status != model.PaymentStatusCompleted && in.Status != model.PaymentStatusPending {
		return domainErrors.Validationf("payment can only be recorded as COMPLETED or PENDING")
	}
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	if in.Method.RequiresTransactionID() && in.TransactionID == "" {
		return domainErrors.ErrTransactionIDRequired
	}
	return nil
}
