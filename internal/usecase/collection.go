package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// CollectionUseCase manages order collections. Counters are only changed by order transitions.
type CollectionUseCase struct {
	collections repository.CollectionRepository
	now         func() time.Time
}

// NewCollectionUseCase constructs CollectionUseCase.
func NewCollectionUseCase(store repository.Store) *CollectionUseCase {
	return &CollectionUseCase{collections: store.Collections(), now: time.Now}
}

// Create opens an empty collection.
func (u *CollectionUseCase) Create(ctx context.Context, accountID int64, name, description string) (*model.Collection, error) {
	collection := &model.Collection{
		AccountID:   accountID,
		Name:        CleanText(name),
		Description: CleanText(description),
	}
	if collection.Name == "" {
		return nil, domainErrors.Validationf("collection name is required")
	}
	now := u.now().UTC()
	collection.CreatedAt, collection.UpdatedAt = now, now

	if err := u.collections.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Get returns a collection owned by the account.
func (u *CollectionUseCase) Get(ctx context.Context, accountID, id int64) (*model.Collection, error) {
	collection, err := u.collections.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrCollectionNotFound)
	}
	return collection, nil
}

// List returns the account's collections.
func (u *CollectionUseCase) List(ctx context.Context, accountID int64) ([]model.Collection, error) {
	return u.collections.List(ctx, accountID)
}

// applyCollectionChanges writes every counter delta implied by an order moving from
// before to after. Rows are touched in id order.
func applyCollectionChanges(ctx context.Context, repos repository.Factory, accountID int64, before, after model.MembershipState) error {
	changes := model.CollectionChanges(before, after)
	slices.SortFunc(changes, func(a, b model.CollectionChange) int {
		return cmp.Compare(a.CollectionID, b.CollectionID)
	})
	for _, change := range changes {
		if _, err := repos.Collections().ApplyDelta(ctx, accountID, change.CollectionID, change.Delta); err != nil {
			return notFound(err, domainErrors.ErrCollectionNotFound)
		}
	}
	return nil
}
