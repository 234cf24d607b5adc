package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

type invoiceRepository struct {
	db querier
}

const invoiceColumns = `id, account_id, client_id, order_id, number, status, items,
       subtotal::text, vat_amount::text, nhil_amount::text, getfund_amount::text, total_amount::text, paid_amount::text,
       notes, due_date, sent_at, viewed_at, paid_at, version, created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	items, err := encodeItems(invoice.Items)
	if err != nil {
		return err
	}
	const query = `INSERT INTO invoices (account_id, client_id, order_id, number, status, items,
                       subtotal, vat_amount, nhil_amount, getfund_amount, total_amount, paid_amount,
                       notes, due_date, sent_at, viewed_at, paid_at, version, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1, $18, $19)
                   RETURNING id, version`
	err = r.db.QueryRow(ctx, query,
		invoice.AccountID, invoice.ClientID, invoice.OrderID, invoice.Number, invoice.Status, items,
		moneyArg(invoice.Subtotal), moneyArg(invoice.VATAmount), moneyArg(invoice.NHILAmount),
		moneyArg(invoice.GETFundAmount), moneyArg(invoice.TotalAmount), moneyArg(invoice.PaidAmount),
		invoice.Notes, invoice.DueDate, invoice.SentAt, invoice.ViewedAt, invoice.PaidAt, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.ID, &invoice.Version)
	return mapError(err)
}

func (r *invoiceRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE account_id=$1 AND id=$2`
	return r.get(ctx, query, accountID, id)
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE account_id=$1 AND id=$2 FOR UPDATE`
	return r.get(ctx, query, accountID, id)
}

func (r *invoiceRepository) get(ctx context.Context, query string, accountID, id int64) (*model.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, accountID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error) {
	conds := []string{"account_id=$1"}
	args := []any{accountID}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		conds = append(conds, fmt.Sprintf("order_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes every mutable column except paid_amount, which only UpdatePaidAmount touches.
func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	items, err := encodeItems(invoice.Items)
	if err != nil {
		return err
	}
	const query = `UPDATE invoices
                   SET status=$3, items=$4, subtotal=$5, vat_amount=$6, nhil_amount=$7, getfund_amount=$8,
                       total_amount=$9, notes=$10, due_date=$11, sent_at=$12, viewed_at=$13, paid_at=$14,
                       updated_at=$15, version = version + 1
                   WHERE account_id=$1 AND id=$2 AND version=$16
                   RETURNING version, paid_amount::text`
	var paid string
	err = r.db.QueryRow(ctx, query,
		invoice.AccountID, invoice.ID, invoice.Status, items,
		moneyArg(invoice.Subtotal), moneyArg(invoice.VATAmount), moneyArg(invoice.NHILAmount), moneyArg(invoice.GETFundAmount),
		moneyArg(invoice.TotalAmount), invoice.Notes, invoice.DueDate, invoice.SentAt, invoice.ViewedAt, invoice.PaidAt,
		invoice.UpdatedAt, invoice.Version,
	).Scan(&invoice.Version, &paid)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return r.versionConflict(ctx, invoice.AccountID, invoice.ID)
		}
		return err
	}
	invoice.PaidAmount, err = parseMoney(paid)
	return err
}

func (r *invoiceRepository) versionConflict(ctx context.Context, accountID, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE account_id=$1 AND id=$2)`, accountID, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrConcurrentUpdate
}

func (r *invoiceRepository) UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET paid_amount=$2, updated_at=NOW() WHERE id=$1`, id, moneyArg(paid))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, accountID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE account_id=$1 AND id=$2`, accountID, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func encodeItems(items []model.LineItem) ([]byte, error) {
	if items == nil {
		items = []model.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	return raw, nil
}

func scanInvoice(row scanner) (*model.Invoice, error) {
	var (
		inv                                       model.Invoice
		items                                     []byte
		subtotal, vat, nhil, getfund, total, paid string
	)
	err := row.Scan(&inv.ID, &inv.AccountID, &inv.ClientID, &inv.OrderID, &inv.Number, &inv.Status, &items,
		&subtotal, &vat, &nhil, &getfund, &total, &paid,
		&inv.Notes, &inv.DueDate, &inv.SentAt, &inv.ViewedAt, &inv.PaidAt, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decode line items: %w", err)
		}
	}
	amounts := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&inv.Subtotal, subtotal}, {&inv.VATAmount, vat}, {&inv.NHILAmount, nhil},
		{&inv.GETFundAmount, getfund}, {&inv.TotalAmount, total}, {&inv.PaidAmount, paid},
	}
	for _, a := range amounts {
		if *a.dst, err = parseMoney(a.raw); err != nil {
			return nil, err
		}
	}
	return &inv, nil
}
