package postgres

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

type collectionRepository struct {
	db querier
}

const collectionColumns = `id, account_id, name, description, total_orders, completed_orders, created_at, updated_at`

func (r *collectionRepository) Create(ctx context.Context, collection *model.Collection) error {
	const query = `INSERT INTO collections (account_id, name, description, total_orders, completed_orders, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		collection.AccountID, collection.Name, collection.Description,
		collection.TotalOrders, collection.CompletedOrders, collection.CreatedAt, collection.UpdatedAt,
	).Scan(&collection.ID)
	return mapError(err)
}

func (r *collectionRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Collection, error) {
	const query = `SELECT ` + collectionColumns + ` FROM collections WHERE account_id=$1 AND id=$2`
	c, err := scanCollection(r.db.QueryRow(ctx, query, accountID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *collectionRepository) List(ctx context.Context, accountID int64) ([]model.Collection, error) {
	const query = `SELECT ` + collectionColumns + ` FROM collections WHERE account_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyDelta updates the counters in a single statement so the row lock is taken
// and released with the surrounding transaction.
func (r *collectionRepository) ApplyDelta(ctx context.Context, accountID, id int64, delta model.CounterDelta) (*model.Collection, error) {
	const query = `UPDATE collections
                   SET total_orders = GREATEST(total_orders + $3, 0),
                       completed_orders = GREATEST(completed_orders + $4, 0),
                       updated_at = NOW()
                   WHERE account_id=$1 AND id=$2
                   RETURNING ` + collectionColumns
	c, err := scanCollection(r.db.QueryRow(ctx, query, accountID, id, delta.Total, delta.Completed))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func scanCollection(row scanner) (*model.Collection, error) {
	var c model.Collection
	if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Description, &c.TotalOrders, &c.CompletedOrders, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
