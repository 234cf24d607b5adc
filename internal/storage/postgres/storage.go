package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Store = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories. Outside WithinTransaction every call
// runs on its own pooled connection.
func (s *Storage) Accounts() repository.AccountRepository       { return repos{db: s.pool}.Accounts() }
func (s *Storage) Clients() repository.ClientRepository         { return repos{db: s.pool}.Clients() }
func (s *Storage) Collections() repository.CollectionRepository { return repos{db: s.pool}.Collections() }
func (s *Storage) Orders() repository.OrderRepository           { return repos{db: s.pool}.Orders() }
func (s *Storage) Invoices() repository.InvoiceRepository       { return repos{db: s.pool}.Invoices() }
func (s *Storage) Payments() repository.PaymentRepository       { return repos{db: s.pool}.Payments() }
func (s *Storage) Sequences() repository.SequenceRepository     { return repos{db: s.pool}.Sequences() }
func (s *Storage) Audit() repository.AuditRepository            { return repos{db: s.pool}.Audit() }

// repos binds every repository to one querier.
type repos struct {
	db querier
}

func (r repos) Accounts() repository.AccountRepository       { return &accountRepository{db: r.db} }
func (r repos) Clients() repository.ClientRepository         { return &clientRepository{db: r.db} }
func (r repos) Collections() repository.CollectionRepository { return &collectionRepository{db: r.db} }
func (r repos) Orders() repository.OrderRepository           { return &orderRepository{db: r.db} }
func (r repos) Invoices() repository.InvoiceRepository       { return &invoiceRepository{db: r.db} }
func (r repos) Payments() repository.PaymentRepository       { return &paymentRepository{db: r.db} }
func (r repos) Sequences() repository.SequenceRepository     { return &sequenceRepository{db: r.db} }
func (r repos) Audit() repository.AuditRepository            { return &auditRepository{db: r.db} }

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            workshop_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS clients (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS collections (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            total_orders INTEGER NOT NULL DEFAULT 0 CHECK (total_orders >= 0),
            completed_orders INTEGER NOT NULL DEFAULT 0 CHECK (completed_orders >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            client_id BIGINT NOT NULL REFERENCES clients(id),
            number TEXT NOT NULL,
            status TEXT NOT NULL,
            garment_type TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            material_cost NUMERIC(14,2),
            labor_cost NUMERIC(14,2) NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL,
            paid_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
            deadline TIMESTAMPTZ,
            started_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ,
            collection_id BIGINT REFERENCES collections(id) ON DELETE SET NULL,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (account_id, number)
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            client_id BIGINT NOT NULL REFERENCES clients(id),
            order_id BIGINT REFERENCES orders(id) ON DELETE SET NULL,
            number TEXT NOT NULL,
            status TEXT NOT NULL,
            items JSONB NOT NULL DEFAULT '[]',
            subtotal NUMERIC(14,2) NOT NULL,
            vat_amount NUMERIC(14,2) NOT NULL,
            nhil_amount NUMERIC(14,2) NOT NULL,
            getfund_amount NUMERIC(14,2) NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL,
            paid_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
            notes TEXT NOT NULL DEFAULT '',
            due_date TIMESTAMPTZ,
            sent_at TIMESTAMPTZ,
            viewed_at TIMESTAMPTZ,
            paid_at TIMESTAMPTZ,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (account_id, number)
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            client_id BIGINT NOT NULL REFERENCES clients(id),
            order_id BIGINT REFERENCES orders(id),
            invoice_id BIGINT REFERENCES invoices(id),
            number TEXT NOT NULL,
            amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
            method TEXT NOT NULL,
            status TEXT NOT NULL,
            transaction_id TEXT,
            notes TEXT NOT NULL DEFAULT '',
            paid_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (account_id, number)
        )`,
		`CREATE TABLE IF NOT EXISTS sequences (
            name TEXT PRIMARY KEY,
            value BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS audit_log (
            id TEXT PRIMARY KEY,
            account_id BIGINT NOT NULL,
            actor_id BIGINT NOT NULL,
            action TEXT NOT NULL,
            resource_type TEXT NOT NULL,
            resource_id BIGINT NOT NULL,
            details JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_account ON orders(account_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_account ON invoices(account_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_log(account_id, resource_type, resource_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a read committed transaction. Row locks
// taken through the repositories passed to fn are held until commit or rollback.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Factory) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && s.logger != nil {
				s.logger.Warn("rollback failed", slog.Any("error", rbErr))
			}
		} else {
			err = mapError(tx.Commit(ctx))
		}
	}()

	err = fn(ctx, repos{db: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// mapError translates driver errors into domain errors. Anything unknown passes through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return domainErrors.ErrAlreadyExists
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", domainErrors.ErrConcurrentUpdate, pgErr.Message)
		}
	}
	return err
}
