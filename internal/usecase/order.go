package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// CreateOrderInput describes a new order.
type CreateOrderInput struct {
	ClientID     int64
	GarmentType  string
	Description  string
	Quantity     int
	LaborCost    decimal.Decimal
	MaterialCost *decimal.Decimal
	Deadline     *time.Time
	CollectionID *int64
}

// UpdateOrderInput is a partial edit. Nil fields are left untouched.
type UpdateOrderInput struct {
	Status          *model.OrderStatus
	GarmentType     *string
	Description     *string
	Quantity        *int
	LaborCost       *decimal.Decimal
	MaterialCost    *decimal.Decimal
	Deadline        *time.Time
	CollectionID    *int64
	ExpectedVersion *int64
	// ClearMaterialCost removes the material cost so only labor contributes to the total.
	ClearMaterialCost bool
}

// OrderUseCase owns order status transitions and everything they drive:
// derived totals, lifecycle timestamps, collection counters, notifications and audit.
type OrderUseCase struct {
	store   repository.Store
	effects *SideEffects
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.Store, effects *SideEffects, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{store: store, effects: effects, logger: logger, now: time.Now}
}

// Create registers a PENDING order and counts it into its collection.
func (u *OrderUseCase) Create(ctx context.Context, accountID int64, in CreateOrderInput) (*model.Order, error) {
	if in.ClientID <= 0 {
		return nil, domainErrors.Validationf("client id is required")
	}
	garment := CleanText(in.GarmentType)
	if garment == "" {
		return nil, domainErrors.Validationf("garment type is required")
	}
	if in.Quantity < 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := ValidateCost(in.LaborCost); err != nil {
		return nil, err
	}
	if in.MaterialCost != nil {
		if err := ValidateCost(*in.MaterialCost); err != nil {
			return nil, err
		}
	}

	now := u.now().UTC()
	order := &model.Order{
		AccountID:    accountID,
		ClientID:     in.ClientID,
		Status:       model.OrderStatusPending,
		GarmentType:  garment,
		Description:  CleanText(in.Description),
		Quantity:     in.Quantity,
		LaborCost:    roundMoney(in.LaborCost),
		MaterialCost: roundMoneyPtr(in.MaterialCost),
		PaidAmount:   decimal.Zero,
		Deadline:     in.Deadline,
		CollectionID: in.CollectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	order.RecalculateTotal()

	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		if _, err := repos.Clients().GetByID(ctx, accountID, in.ClientID); err != nil {
			return notFound(err, domainErrors.ErrClientNotFound)
		}
		number, err := nextNumber(ctx, repos.Sequences(), orderNumberPrefix, accountID, now)
		if err != nil {
			return err
		}
		order.Number = number
		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}
		return applyCollectionChanges(ctx, repos, accountID, model.MembershipState{}, model.MembershipOf(*order))
	})
	if err != nil {
		return nil, err
	}

	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionOrderCreated,
		ResourceType: resourceOrder,
		ResourceID:   order.ID,
		Details:      map[string]any{"number": order.Number, "totalAmount": order.TotalAmount.StringFixed(2)},
	})
	return order, nil
}

// Get returns an order owned by the account.
func (u *OrderUseCase) Get(ctx context.Context, accountID, id int64) (*model.Order, error) {
	order, err := u.store.Orders().GetByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return order, nil
}

// List returns the account's orders matching filter, newest first.
func (u *OrderUseCase) List(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error) {
	return u.store.Orders().List(ctx, accountID, filter)
}

// Balance reports what is still owed on an order.
func (u *OrderUseCase) Balance(ctx context.Context, accountID, id int64) (model.OrderBalance, error) {
	order, err := u.Get(ctx, accountID, id)
	if err != nil {
		return model.OrderBalance{}, err
	}
	return model.BalanceOf(*order), nil
}

// Update applies a partial edit and, when the status differs, a validated transition.
// Resubmitting the current values changes nothing and fires no side effects.
func (u *OrderUseCase) Update(ctx context.Context, accountID, id int64, in UpdateOrderInput) (*model.Order, error) {
	if err := validateOrderUpdate(in); err != nil {
		return nil, err
	}

	var (
		updated *model.Order
		from    model.OrderStatus
		changed []string
	)
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		order, err := repos.Orders().GetForUpdate(ctx, accountID, id)
		if err != nil {
			return notFound(err, domainErrors.ErrOrderNotFound)
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != order.Version {
			return domainErrors.ErrConcurrentUpdate
		}

		before := model.MembershipOf(*order)
		from = order.Status
		now := u.now().UTC()

		changed = applyOrderFields(order, in)
		if in.Status != nil && *in.Status != order.Status {
			if !model.CanTransitionOrder(order.Status, *in.Status) {
				return domainErrors.Transition(string(order.Status), string(*in.Status))
			}
			order.EnterStatus(*in.Status, now)
			changed = append(changed, "status")
		}
		updated = order
		if len(changed) == 0 {
			return nil
		}

		if !sameID(before.CollectionID, order.CollectionID) && order.CollectionID != nil {
			if _, err := repos.Collections().GetByID(ctx, accountID, *order.CollectionID); err != nil {
				return notFound(err, domainErrors.ErrCollectionNotFound)
			}
		}

		order.UpdatedAt = now
		if err := repos.Orders().Update(ctx, order); err != nil {
			return err
		}
		return applyCollectionChanges(ctx, repos, accountID, before, model.MembershipOf(*order))
	})
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return updated, nil
	}

	if updated.Status != from {
		u.logger.Info("order status changed",
			slog.Int64("order_id", updated.ID),
			slog.String("from", string(from)),
			slog.String("to", string(updated.Status)),
		)
		u.effects.NotifyClient(ctx, accountID, updated.ClientID, model.NotificationOrderStatusChanged, map[string]string{
			"orderNumber": updated.Number,
			"garmentType": updated.GarmentType,
			"from":        string(from),
			"to":          string(updated.Status),
		})
	}
	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionOrderUpdated,
		ResourceType: resourceOrder,
		ResourceID:   updated.ID,
		Details: map[string]any{
			"from":          string(from),
			"to":            string(updated.Status),
			"changedFields": changed,
		},
	})
	return updated, nil
}

// Delete removes an order that has no payments and takes it out of its collection.
func (u *OrderUseCase) Delete(ctx context.Context, accountID, id int64) error {
	var deleted *model.Order
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, repos repository.Factory) error {
		order, err := repos.Orders().GetForUpdate(ctx, accountID, id)
		if err != nil {
			return notFound(err, domainErrors.ErrOrderNotFound)
		}
		count, err := repos.Payments().CountByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domainErrors.ErrOrderHasPayments
		}
		if err := repos.Orders().Delete(ctx, accountID, order.ID); err != nil {
			return notFound(err, domainErrors.ErrOrderNotFound)
		}
		deleted = order
		return applyCollectionChanges(ctx, repos, accountID, model.MembershipOf(*order), model.MembershipState{})
	})
	if err != nil {
		return err
	}

	u.effects.Audit(ctx, model.AuditEntry{
		AccountID:    accountID,
		ActorID:      accountID,
		Action:       model.AuditActionOrderDeleted,
		ResourceType: resourceOrder,
		ResourceID:   deleted.ID,
		Details:      map[string]any{"number": deleted.Number, "status": string(deleted.Status)},
	})
	return nil
}

func validateOrderUpdate(in UpdateOrderInput) error {
	if in.Status != nil {
		if _, ok := model.ParseOrderStatus(string(*in.Status)); !ok {
			return domainErrors.ErrInvalidStatus
		}
	}
	if in.GarmentType != nil && CleanText(*in.GarmentType) == "" {
		return domainErrors.Validationf("garment type must not be empty")
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	if in.LaborCost != nil {
		if err := ValidateCost(*in.LaborCost); err != nil {
			return err
		}
	}
	if in.MaterialCost != nil {
		if in.ClearMaterialCost {
			return domainErrors.Validationf("material cost cannot be set and cleared together")
		}
		if err := ValidateCost(*in.MaterialCost); err != nil {
			return err
		}
	}
	return nil
}

// applyOrderFields merges supplied fields into the order and returns the names of those that changed.
// The total is recomputed from the merged cost view so an untouched cost keeps its contribution.
func applyOrderFields(order *model.Order, in UpdateOrderInput) []string {
	var changed []string
	if in.GarmentType != nil {
		if v := CleanText(*in.GarmentType); v != order.GarmentType {
			order.GarmentType = v
			changed = append(changed, "garmentType")
		}
	}
	if in.Description != nil {
		if v := CleanText(*in.Description); v != order.Description {
			order.Description = v
			changed = append(changed, "description")
		}
	}
	if in.Quantity != nil && *in.Quantity != order.Quantity {
		order.Quantity = *in.Quantity
		changed = append(changed, "quantity")
	}
	if in.Deadline != nil && !sameTime(order.Deadline, in.Deadline) {
		deadline := *in.Deadline
		order.Deadline = &deadline
		changed = append(changed, "deadline")
	}
	if in.CollectionID != nil && !sameID(order.CollectionID, in.CollectionID) {
		collectionID := *in.CollectionID
		order.CollectionID = &collectionID
		changed = append(changed, "collectionId")
	}

	costChanged := false
	if in.LaborCost != nil {
		if v := roundMoney(*in.LaborCost); !v.Equal(order.LaborCost) {
			order.LaborCost = v
			costChanged = true
			changed = append(changed, "laborCost")
		}
	}
	if in.MaterialCost != nil {
		if v := roundMoneyPtr(in.MaterialCost); !sameMoney(order.MaterialCost, v) {
			order.MaterialCost = v
			costChanged = true
			changed = append(changed, "materialCost")
		}
	}
	if in.ClearMaterialCost && order.MaterialCost != nil {
		order.MaterialCost = nil
		costChanged = true
		changed = append(changed, "materialCost")
	}
	if costChanged {
		previous := order.TotalAmount
		order.RecalculateTotal()
		if !previous.Equal(order.TotalAmount) {
			changed = append(changed, "totalAmount")
		}
	}
	return changed
}
