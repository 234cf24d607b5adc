package usecase

import (
	"context"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// ClientInput describes a new client.
type ClientInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// ClientUseCase manages the clients of an account.
type ClientUseCase struct {
	clients repository.ClientRepository
	now     func() time.Time
}

// NewClientUseCase constructs ClientUseCase.
func NewClientUseCase(store repository.Store) *ClientUseCase {
	return &ClientUseCase{clients: store.Clients(), now: time.Now}
}

// Create registers a client for the account.
func (u *ClientUseCase) Create(ctx context.Context, accountID int64, in ClientInput) (*model.Client, error) {
	client := &model.Client{
		AccountID: accountID,
		Name:      CleanText(in.Name),
		Phone:     strings.Join(strings.Fields(in.Phone), ""),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Notes:     CleanText(in.Notes),
	}
	if client.Name == "" {
		return nil, domainErrors.Validationf("client name is required")
	}
	if client.Email != "" && !strings.Contains(client.Email, "@") {
		return nil, domainErrors.Validationf("client email %q is malformed", client.Email)
	}
	now := u.now().UTC()
	client.CreatedAt, client.UpdatedAt = now, now

	if err := u.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get returns a client owned by the account.
func (u *ClientUseCase) Get(ctx context.Context, accountID, id int64) (*model.Client, error) {
	client, err := u.clients.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrClientNotFound)
	}
	return client, nil
}

// List returns the account's clients.
func (u *ClientUseCase) List(ctx context.Context, accountID int64) ([]model.Client, error) {
	return u.clients.List(ctx, accountID)
}
