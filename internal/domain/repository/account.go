package repository

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// AccountRepository describes persistence operations for workshop accounts.
type AccountRepository interface {
	Create(ctx context.Context, login, passwordHash, workshopName string) (*model.Account, error)
	GetByLogin(ctx context.Context, login string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}
