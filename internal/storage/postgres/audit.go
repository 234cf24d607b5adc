package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/polkiloo/atelier/internal/domain/model"
)

type auditRepository struct {
	db querier
}

func (r *auditRepository) Append(ctx context.Context, entry model.AuditEntry) error {
	var details []byte
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		details = raw
	}
	const query = `INSERT INTO audit_log (id, account_id, actor_id, action, resource_type, resource_id, details, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.AccountID, entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID, details, entry.CreatedAt)
	return mapError(err)
}

func (r *auditRepository) ListByResource(ctx context.Context, accountID int64, resourceType string, resourceID int64) ([]model.AuditEntry, error) {
	const query = `SELECT id, account_id, actor_id, action, resource_type, resource_id, details, created_at
                   FROM audit_log WHERE account_id=$1 AND resource_type=$2 AND resource_id=$3
                   ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, accountID, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AuditEntry
	for rows.Next() {
		var (
			e       model.AuditEntry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.ActorID, &e.Action, &e.ResourceType, &e.ResourceID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
