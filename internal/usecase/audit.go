package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// AuditTrail stores audit entries in the repository and reads them back per resource.
type AuditTrail struct {
	store repository.Store
}

// NewAuditTrail constructs AuditTrail.
func NewAuditTrail(store repository.Store) *AuditTrail {
	return &AuditTrail{store: store}
}

// Record implements AuditLogger.
func (a *AuditTrail) Record(ctx context.Context, entry model.AuditEntry) error {
	return a.store.Audit().Append(ctx, entry)
}

// OrderHistory lists audit entries for one order, oldest first.
func (a *AuditTrail) OrderHistory(ctx context.Context, accountID, orderID int64) ([]model.AuditEntry, error) {
	if _, err := a.store.Orders().GetByID(ctx, accountID, orderID); err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return a.store.Audit().ListByResource(ctx, accountID, resourceOrder, orderID)
}
