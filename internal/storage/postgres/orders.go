package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderColumns = `id, account_id, client_id, number, status, garment_type, description, quantity,
       material_cost::text, labor_cost::text, total_amount::text, paid_amount::text,
       deadline, started_at, completed_at, collection_id, version, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (account_id, client_id, number, status, garment_type, description, quantity,
                       material_cost, labor_cost, total_amount, paid_amount, deadline, started_at, completed_at,
                       collection_id, version, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17)
                   RETURNING id, version`
	err := r.db.QueryRow(ctx, query,
		order.AccountID, order.ClientID, order.Number, order.Status, order.GarmentType, order.Description, order.Quantity,
		optionalMoneyArg(order.MaterialCost), moneyArg(order.LaborCost), moneyArg(order.TotalAmount), moneyArg(order.PaidAmount),
		order.Deadline, order.StartedAt, order.CompletedAt, order.CollectionID, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID, &order.Version)
	return mapError(err)
}

func (r *orderRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE account_id=$1 AND id=$2`
	return r.get(ctx, query, accountID, id)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE account_id=$1 AND id=$2 FOR UPDATE`
	return r.get(ctx, query, accountID, id)
}

func (r *orderRepository) get(ctx context.Context, query string, accountID, id int64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, query, accountID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error) {
	conds := []string{"account_id=$1"}
	args := []any{accountID}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.CollectionID != nil {
		args = append(args, *filter.CollectionID)
		conds = append(conds, fmt.Sprintf("collection_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes every mutable column except paid_amount, which only UpdatePaidAmount touches.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	const query = `UPDATE orders
                   SET client_id=$3, status=$4, garment_type=$5, description=$6, quantity=$7,
                       material_cost=$8, labor_cost=$9, total_amount=$10, deadline=$11,
                       started_at=$12, completed_at=$13, collection_id=$14, updated_at=$15,
                       version = version + 1
                   WHERE account_id=$1 AND id=$2 AND version=$16
                   RETURNING version, paid_amount::text`
	var paid string
	err := r.db.QueryRow(ctx, query,
		order.AccountID, order.ID, order.ClientID, order.Status, order.GarmentType, order.Description, order.Quantity,
		optionalMoneyArg(order.MaterialCost), moneyArg(order.LaborCost), moneyArg(order.TotalAmount), order.Deadline,
		order.StartedAt, order.CompletedAt, order.CollectionID, order.UpdatedAt, order.Version,
	).Scan(&order.Version, &paid)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return r.versionConflict(ctx, order.AccountID, order.ID)
		}
		return err
	}
	order.PaidAmount, err = parseMoney(paid)
	return err
}

// versionConflict tells a missing row apart from a stale version after an update matched nothing.
func (r *orderRepository) versionConflict(ctx context.Context, accountID, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE account_id=$1 AND id=$2)`, accountID, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrConcurrentUpdate
}

func (r *orderRepository) UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET paid_amount=$2, updated_at=NOW() WHERE id=$1`, id, moneyArg(paid))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, accountID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE account_id=$1 AND id=$2`, accountID, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListRefs(ctx context.Context, afterID int64, limit int) ([]model.OrderRef, error) {
	const query = `SELECT id, account_id FROM orders WHERE id > $1 ORDER BY id LIMIT $2`
	rows, err := r.db.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderRef
	for rows.Next() {
		var ref model.OrderRef
		if err := rows.Scan(&ref.ID, &ref.AccountID); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o                  model.Order
		material           *string
		labor, total, paid string
	)
	err := row.Scan(&o.ID, &o.AccountID, &o.ClientID, &o.Number, &o.Status, &o.GarmentType, &o.Description, &o.Quantity,
		&material, &labor, &total, &paid,
		&o.Deadline, &o.StartedAt, &o.CompletedAt, &o.CollectionID, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.MaterialCost, err = parseOptionalMoney(material); err != nil {
		return nil, err
	}
	if o.LaborCost, err = parseMoney(labor); err != nil {
		return nil, err
	}
	if o.TotalAmount, err = parseMoney(total); err != nil {
		return nil, err
	}
	if o.PaidAmount, err = parseMoney(paid); err != nil {
		return nil, err
	}
	return &o, nil
}
