package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

type paymentRepository struct {
	db querier
}

const paymentColumns = `id, account_id, client_id, order_id, invoice_id, number, amount::text, method, status,
       transaction_id, notes, paid_at, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	const query = `INSERT INTO payments (account_id, client_id, order_id, invoice_id, number, amount, method, status,
                       transaction_id, notes, paid_at, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING id`
	err := r.db.QueryRow(ctx, query,
		payment.AccountID, payment.ClientID, payment.OrderID, payment.InvoiceID, payment.Number,
		moneyArg(payment.Amount), payment.Method, payment.Status, payment.TransactionID, payment.Notes,
		payment.PaidAt, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	return mapError(err)
}

func (r *paymentRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE account_id=$1 AND id=$2`
	return r.get(ctx, query, accountID, id)
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE account_id=$1 AND id=$2 FOR UPDATE`
	return r.get(ctx, query, accountID, id)
}

func (r *paymentRepository) get(ctx context.Context, query string, accountID, id int64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, query, accountID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, accountID, orderID int64) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE account_id=$1 AND order_id=$2 ORDER BY id`
	rows, err := r.db.Query(ctx, query, accountID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus only touches the fields a confirmation may change.
func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *model.Payment) error {
	const query = `UPDATE payments SET status=$3, transaction_id=$4, paid_at=$5, updated_at=$6
                   WHERE account_id=$1 AND id=$2`
	tag, err := r.db.Exec(ctx, query,
		payment.AccountID, payment.ID, payment.Status, payment.TransactionID, payment.PaidAt, payment.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE order_id=$1`, orderID).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *paymentRepository) SumCompletedByOrder(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(amount), 0)::text FROM payments WHERE order_id=$1 AND status=$2`
	var raw string
	if err := r.db.QueryRow(ctx, query, orderID, model.PaymentStatusCompleted).Scan(&raw); err != nil {
		return decimal.Zero, mapError(err)
	}
	return parseMoney(raw)
}

func (r *paymentRepository) SumCompletedByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(amount), 0)::text FROM payments WHERE invoice_id=$1 AND status=$2`
	var raw string
	if err := r.db.QueryRow(ctx, query, invoiceID, model.PaymentStatusCompleted).Scan(&raw); err != nil {
		return decimal.Zero, mapError(err)
	}
	return parseMoney(raw)
}

func scanPayment(row scanner) (*model.Payment, error) {
	var (
		p      model.Payment
		amount string
	)
	err := row.Scan(&p.ID, &p.AccountID, &p.ClientID, &p.OrderID, &p.InvoiceID, &p.Number, &amount, &p.Method, &p.Status,
		&p.TransactionID, &p.Notes, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Amount, err = parseMoney(amount); err != nil {
		return nil, err
	}
	return &p, nil
}
