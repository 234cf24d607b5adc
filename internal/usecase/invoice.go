package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
	"github.com/polkiloo/atelier/internal/domain/tax"
)

// CreateInvoiceInput describes a new draft invoice.
type CreateInvoiceInput struct {
	ClientID int64
	OrderID  *int64
	Items    []model.LineItem
	DueDate  *time.Time
	Notes    string
}

// UpdateInvoiceInput is a partial edit. A non-nil Items replaces every line item.
type UpdateInvoiceInput struct {
	Status          *model.InvoiceStatus
	Items           *[]model.LineItem
	DueDate         *time.Time
	Notes           *string
	ExpectedVersion *int64
}

// InvoiceUseCase owns invoice totals and the invoice status lifecycle.
type InvoiceUseCase struct {
	store   repository.Store
	effects *SideEffects
	logger  *slog.Logger
	now     func() time.Time
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(store repository.Store, effects *SideEffects, logger *slog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{store: store, effects: effects, logger: logger, now: time.Now}
}

// Preview prices line items without persisting anything.
func (u *InvoiceUseCase) Preview(items []model.LineItem) (tax.Breakdown, error) {
	cleaned, err := ValidateLineItems(items)
	if err != nil {
		return tax.Breakdown{}, err
	}
	return tax.Calculate(cleaned).Rounded(), nil
}

// Create issues a DRAFT invoice with totals computed from its items.
func (u *InvoiceUseCase) Create(ctx context.Context, accountID int64, in CreateInvoiceInput) (*model.Invoice, error) {
	if in.ClientID <= 0 {
		return nil, domainErrors.Validationf("client id is required")
	}
	items, err := ValidateLineItems(in.Items)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	invoice := &model.Invoice{
		AccountID:  accountID,
		ClientID:   in.ClientID,
		OrderID:    in.OrderID,
		Status:     model.InvoiceStatusDraft,
		PaidAmount: decimal.Zero,
		Notes:      CleanText(in.Notes),
		DueDate:    in.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tax.Calculate(items).ApplyTo(invoice)

	err = u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		if _, err := repos.Clients().GetByID(ctx, accountID, in.ClientID); err != nil {
			return notFound(err, domainErrors.ErrClientNotFound)
		}
		if in.OrderID != nil {
			order, err := repos.Orders().GetByID(ctx, accountID, *in.OrderID)
			if err != nil {
				return notFound(err, domainErrors.ErrOrderNotFound)
			}
			if order.ClientID != in.ClientID {
				return domainErrors.ErrOrderNotFound
			}
		}
		number, err := nextNumber(ctx, repos.Sequences(), invoiceNumberPrefix, accountID, now)
		if err != nil {
			return err
		}
		invoice.Number = number
		return repos.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionInvoiceCreated,
		ResourceType: resourceInvoice,
		ResourceID:   invoice.ID,
		Details:      map[string]any{"number": invoice.Number, "totalAmount": invoice.TotalAmount.StringFixed(2)},
	})
	return invoice, nil
}

// Get returns an invoice owned by the account.
func (u *InvoiceUseCase) Get(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	invoice, err := u.store.Invoices().GetByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrInvoiceNotFound)
	}
	return invoice, nil
}

// List returns the account's invoices matching filter.
func (u *InvoiceUseCase) List(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error) {
	return u.store.Invoices().List(ctx, accountID, filter)
}

// Update revises items and then applies a status change. Revised items recompute all
// totals together before the status is evaluated.
func (u *InvoiceUseCase) Update(ctx context.Context, accountID, id int64, in UpdateInvoiceInput) (*model.Invoice, error) {
	if in.Status != nil {
		if _, ok := model.ParseInvoiceStatus(string(*in.Status)); !ok {
			return nil, domainErrors.ErrInvalidStatus
		}
	}
	var items []model.LineItem
	if in.Items != nil {
		cleaned, err := ValidateLineItems(*in.Items)
		if err != nil {
			return nil, err
		}
		items = cleaned
	}

	var (
		updated   *model.Invoice
		from      model.InvoiceStatus
		changed   []string
		firstSent bool
	)
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		invoice, err := repos.Invoices().GetForUpdate(ctx, accountID, id)
		if err != nil {
			return notFound(err, domainErrors.ErrInvoiceNotFound)
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != invoice.Version {
			return domainErrors.ErrConcurrentUpdate
		}
		from = invoice.Status
		now := u.now().UTC()

		if in.Items != nil {
			if invoice.Status.IsTerminal() {
				return domainErrors.ErrInvoiceLocked
			}
			previous := invoice.TotalAmount
			tax.Calculate(items).ApplyTo(invoice)
			changed = append(changed, "items")
			if !previous.Equal(invoice.TotalAmount) {
				changed = append(changed, "totalAmount")
			}
		}
		if in.DueDate != nil && !sameTime(invoice.DueDate, in.DueDate) {
			due := *in.DueDate
			invoice.DueDate = &due
			changed = append(changed, "dueDate")
		}
		if in.Notes != nil {
			if v := CleanText(*in.Notes); v != invoice.Notes {
				invoice.Notes = v
				changed = append(changed, "notes")
			}
		}
		if in.Status != nil && *in.Status != invoice.Status {
			if !model.CanTransitionInvoice(invoice.Status, *in.Status) {
				return domainErrors.Transition(string(invoice.Status), string(*in.Status))
			}
			firstSent = invoice.EnterStatus(*in.Status, now)
			changed = append(changed, "status")
		}
		updated = invoice
		if len(changed) == 0 {
			return nil
		}

		invoice.UpdatedAt = now
		return repos.Invoices().Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return updated, nil
	}

	if firstSent {
		data := map[string]string{
			"invoiceNumber": updated.Number,
			"total":         FormatMoney(updated.TotalAmount),
		}
		if updated.DueDate != nil {
			data["dueDate"] = updated.DueDate.Format(time.DateOnly)
		}
		u.effects.NotifyClient(ctx, accountID, updated.ClientID, model.NotificationInvoiceSent, data)
	}
	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionInvoiceUpdated,
		ResourceType: resourceInvoice,
		ResourceID:   updated.ID,
		Details: map[string]any{
			"from":          string(from),
			"to":            string(updated.Status),
			"changedFields": changed,
		},
	})
	return updated, nil
}

// Delete removes a DRAFT invoice. Any other status is rejected.
func (u *InvoiceUseCase) Delete(ctx context.Context, accountID, id int64) error {
	var deleted *model.Invoice
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		invoice, err := repos.Invoices().GetForUpdate(ctx, accountID, id)
		if err != nil {
			return notFound(err, domainErrors.ErrInvoiceNotFound)
		}
		if invoice.Status != model.InvoiceStatusDraft {
			return domainErrors.ErrInvoiceNotDraft
		}
		deleted = invoice
		return notFound(repos.Invoices().Delete(ctx, accountID, invoice.ID), domainErrors.ErrInvoiceNotFound)
	})
	if err != nil {
		return err
	}

	u.logger.Info("draft invoice deleted", slog.Int64("invoice_id", deleted.ID), slog.String("number", deleted.Number))
	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionInvoiceDeleted,
		ResourceType: resourceInvoice,
		ResourceID:   deleted.ID,
		Details:      map[string]any{"number": deleted.Number},
	})
	return nil
}
