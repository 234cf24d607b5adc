package repository

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// CollectionRepository describes persistence operations for order collections.
type CollectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) error
	GetByID(ctx context.Context, accountID, id int64) (*model.Collection, error)
	List(ctx context.Context, accountID int64) ([]model.Collection, error)
	// ApplyDelta adjusts the counters in place, holding the row lock until the transaction ends.
	ApplyDelta(ctx context.Context, accountID, id int64, delta model.CounterDelta) (*model.Collection, error)
}
