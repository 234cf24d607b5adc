package postgres

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

type clientRepository struct {
	db querier
}

const clientColumns = `id, account_id, name, phone, email, notes, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	const query = `INSERT INTO clients (account_id, name, phone, email, notes, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		client.AccountID, client.Name, client.Phone, client.Email, client.Notes, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	return mapError(err)
}

func (r *clientRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE account_id=$1 AND id=$2`
	c, err := scanClient(r.db.QueryRow(ctx, query, accountID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context, accountID int64) ([]model.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE account_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
