package repository

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// AuditRepository appends entries to the audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry model.AuditEntry) error
	ListByResource(ctx context.Context, accountID int64, resourceType string, resourceID int64) ([]model.AuditEntry, error)
}
