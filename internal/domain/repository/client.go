package repository

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// ClientRepository describes persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, accountID, id int64) (*model.Client, error)
	List(ctx context.Context, accountID int64) ([]model.Client, error)
}
