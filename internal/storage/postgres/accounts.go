package postgres

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

type accountRepository struct {
	db querier
}

const accountColumns = `id, login, password_hash, workshop_name, created_at`

func (r *accountRepository) Create(ctx context.Context, login, passwordHash, workshopName string) (*model.Account, error) {
	const query = `INSERT INTO accounts (login, password_hash, workshop_name) VALUES ($1, $2, $3) RETURNING id, created_at`
	a := model.Account{Login: login, PasswordHash: passwordHash, WorkshopName: workshopName}
	if err := r.db.QueryRow(ctx, query, login, passwordHash, workshopName).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE login=$1`
	return r.get(ctx, query, login)
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return r.get(ctx, query, id)
}

func (r *accountRepository) get(ctx context.Context, query string, arg any) (*model.Account, error) {
	var a model.Account
	if err := r.db.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Login, &a.PasswordHash, &a.WorkshopName, &a.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}
