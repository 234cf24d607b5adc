package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Accounts() AccountRepository
	Clients() ClientRepository
	Collections() CollectionRepository
	Orders() OrderRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Sequences() SequenceRepository
	Audit() AuditRepository
}

// Transactor runs fn atomically. Repositories obtained from the Factory passed to fn
// share one transaction; fn returning an error rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Factory) error) error
}

// Store is a transactional repository factory.
type Store interface {
	Factory
	Transactor
}
