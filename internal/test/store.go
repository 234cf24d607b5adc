package test

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

type memState struct {
	nextID      int64
	accounts    map[int64]model.Account
	clients     map[int64]model.Client
	collections map[int64]model.Collection
	orders      map[int64]model.Order
	invoices    map[int64]model.Invoice
	payments    map[int64]model.Payment
	sequences   map[string]int64
	audit       []model.AuditEntry
}

func newMemState() *memState {
	return &memState{
		accounts:    make(map[int64]model.Account),
		clients:     make(map[int64]model.Client),
		collections: make(map[int64]model.Collection),
		orders:      make(map[int64]model.Order),
		invoices:    make(map[int64]model.Invoice),
		payments:    make(map[int64]model.Payment),
		sequences:   make(map[string]int64),
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:      s.nextID,
		accounts:    maps.Clone(s.accounts),
		clients:     maps.Clone(s.clients),
		collections: maps.Clone(s.collections),
		orders:      maps.Clone(s.orders),
		invoices:    maps.Clone(s.invoices),
		payments:    maps.Clone(s.payments),
		sequences:   maps.Clone(s.sequences),
		audit:       slices.Clone(s.audit),
	}
	for id, inv := range c.invoices {
		inv.Items = slices.Clone(inv.Items)
		c.invoices[id] = inv
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// MemStore is an in-memory repository.Store. Transactions are serialised and a failed
// transaction restores the state it started from.
type MemStore struct {
	mu    sync.Mutex
	state *memState

	// FailOn, when set, is consulted before every repository call with an
	// "<repo>.<method>" name. A non-nil result is returned from that call.
	FailOn func(op string) error
}

// NewMemStore constructs an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{state: newMemState()}
}

var _ repository.Store = (*MemStore)(nil)

// WithinTransaction implements repository.Transactor.
func (m *MemStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Factory) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(ctx, memView{store: m, inTx: true}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *MemStore) Accounts() repository.AccountRepository       { return memView{store: m}.Accounts() }
func (m *MemStore) Clients() repository.ClientRepository         { return memView{store: m}.Clients() }
func (m *MemStore) Collections() repository.CollectionRepository { return memView{store: m}.Collections() }
func (m *MemStore) Orders() repository.OrderRepository           { return memView{store: m}.Orders() }
func (m *MemStore) Invoices() repository.InvoiceRepository       { return memView{store: m}.Invoices() }
func (m *MemStore) Payments() repository.PaymentRepository       { return memView{store: m}.Payments() }
func (m *MemStore) Sequences() repository.SequenceRepository     { return memView{store: m}.Sequences() }
func (m *MemStore) Audit() repository.AuditRepository            { return memView{store: m}.Audit() }

// AuditEntries returns a copy of every stored audit entry.
func (m *MemStore) AuditEntries() []model.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.audit)
}

type memView struct {
	store *MemStore
	inTx  bool
}

func (v memView) do(op string, fn func(st *memState) error) error {
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	if v.store.FailOn != nil {
		if err := v.store.FailOn(op); err != nil {
			return err
		}
	}
	return fn(v.store.state)
}

func (v memView) Accounts() repository.AccountRepository       { return memAccounts{v} }
func (v memView) Clients() repository.ClientRepository         { return memClients{v} }
func (v memView) Collections() repository.CollectionRepository { return memCollections{v} }
func (v memView) Orders() repository.OrderRepository           { return memOrders{v} }
func (v memView) Invoices() repository.InvoiceRepository       { return memInvoices{v} }
func (v memView) Payments() repository.PaymentRepository       { return memPayments{v} }
func (v memView) Sequences() repository.SequenceRepository     { return memSequences{v} }
func (v memView) Audit() repository.AuditRepository            { return memAudit{v} }

type memAccounts struct{ v memView }

func (r memAccounts) Create(ctx context.Context, login, passwordHash, workshopName string) (*model.Account, error) {
	var out model.Account
	err := r.v.do("accounts.Create", func(st *memState) error {
		for _, a := range st.accounts {
			if a.Login == login {
				return domainErrors.ErrAlreadyExists
			}
		}
		out = model.Account{ID: st.id(), Login: login, PasswordHash: passwordHash, WorkshopName: workshopName}
		st.accounts[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memAccounts) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	var out model.Account
	err := r.v.do("accounts.GetByLogin", func(st *memState) error {
		for _, a := range st.accounts {
			if a.Login == login {
				out = a
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memAccounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var out model.Account
	err := r.v.do("accounts.GetByID", func(st *memState) error {
		a, ok := st.accounts[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type memClients struct{ v memView }

func (r memClients) Create(ctx context.Context, client *model.Client) error {
	return r.v.do("clients.Create", func(st *memState) error {
		client.ID = st.id()
		st.clients[client.ID] = *client
		return nil
	})
}

func (r memClients) GetByID(ctx context.Context, accountID, id int64) (*model.Client, error) {
	var out model.Client
	err := r.v.do("clients.GetByID", func(st *memState) error {
		c, ok := st.clients[id]
		if !ok || c.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memClients) List(ctx context.Context, accountID int64) ([]model.Client, error) {
	var out []model.Client
	err := r.v.do("clients.List", func(st *memState) error {
		for _, c := range st.clients {
			if c.AccountID == accountID {
				out = append(out, c)
			}
		}
		slices.SortFunc(out, func(a, b model.Client) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

type memCollections struct{ v memView }

func (r memCollections) Create(ctx context.Context, collection *model.Collection) error {
	return r.v.do("collections.Create", func(st *memState) error {
		collection.ID = st.id()
		st.collections[collection.ID] = *collection
		return nil
	})
}

func (r memCollections) GetByID(ctx context.Context, accountID, id int64) (*model.Collection, error) {
	var out model.Collection
	err := r.v.do("collections.GetByID", func(st *memState) error {
		c, ok := st.collections[id]
		if !ok || c.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memCollections) List(ctx context.Context, accountID int64) ([]model.Collection, error) {
	var out []model.Collection
	err := r.v.do("collections.List", func(st *memState) error {
		for _, c := range st.collections {
			if c.AccountID == accountID {
				out = append(out, c)
			}
		}
		slices.SortFunc(out, func(a, b model.Collection) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

func (r memCollections) ApplyDelta(ctx context.Context, accountID, id int64, delta model.CounterDelta) (*model.Collection, error) {
	var out model.Collection
	err := r.v.do("collections.ApplyDelta", func(st *memState) error {
		c, ok := st.collections[id]
		if !ok || c.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		c.Apply(delta)
		st.collections[id] = c
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type memOrders struct{ v memView }

func (r memOrders) Create(ctx context.Context, order *model.Order) error {
	return r.v.do("orders.Create", func(st *memState) error {
		order.ID = st.id()
		order.Version = 1
		st.orders[order.ID] = *order
		return nil
	})
}

func (r memOrders) get(op string, accountID, id int64) (*model.Order, error) {
	var out model.Order
	err := r.v.do(op, func(st *memState) error {
		o, ok := st.orders[id]
		if !ok || o.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memOrders) GetByID(ctx context.Context, accountID, id int64) (*model.Order, error) {
	return r.get("orders.GetByID", accountID, id)
}

func (r memOrders) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Order, error) {
	return r.get("orders.GetForUpdate", accountID, id)
}

func (r memOrders) List(ctx context.Context, accountID int64, filter model.OrderFilter) ([]model.Order, error) {
	var out []model.Order
	err := r.v.do("orders.List", func(st *memState) error {
		for _, o := range st.orders {
			if o.AccountID != accountID {
				continue
			}
			if filter.ClientID != nil && o.ClientID != *filter.ClientID {
				continue
			}
			if filter.CollectionID != nil && (o.CollectionID == nil || *o.CollectionID != *filter.CollectionID) {
				continue
			}
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
			out = append(out, o)
		}
		slices.SortFunc(out, func(a, b model.Order) int { return cmp.Compare(b.ID, a.ID) })
		return nil
	})
	return out, err
}

func (r memOrders) Update(ctx context.Context, order *model.Order) error {
	return r.v.do("orders.Update", func(st *memState) error {
		stored, ok := st.orders[order.ID]
		if !ok || stored.AccountID != order.AccountID {
			return domainErrors.ErrNotFound
		}
		if stored.Version != order.Version {
			return domainErrors.ErrConcurrentUpdate
		}
		order.Version++
		order.PaidAmount = stored.PaidAmount
		st.orders[order.ID] = *order
		return nil
	})
}

func (r memOrders) UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error {
	return r.v.do("orders.UpdatePaidAmount", func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		o.PaidAmount = paid
		st.orders[id] = o
		return nil
	})
}

func (r memOrders) Delete(ctx context.Context, accountID, id int64) error {
	return r.v.do("orders.Delete", func(st *memState) error {
		o, ok := st.orders[id]
		if !ok || o.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		delete(st.orders, id)
		return nil
	})
}

func (r memOrders) ListRefs(ctx context.Context, afterID int64, limit int) ([]model.OrderRef, error) {
	var out []model.OrderRef
	err := r.v.do("orders.ListRefs", func(st *memState) error {
		for _, o := range st.orders {
			if o.ID > afterID {
				out = append(out, model.OrderRef{ID: o.ID, AccountID: o.AccountID})
			}
		}
		slices.SortFunc(out, func(a, b model.OrderRef) int { return cmp.Compare(a.ID, b.ID) })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

type memInvoices struct{ v memView }

func (r memInvoices) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.v.do("invoices.Create", func(st *memState) error {
		invoice.ID = st.id()
		invoice.Version = 1
		stored := *invoice
		stored.Items = slices.Clone(invoice.Items)
		st.invoices[invoice.ID] = stored
		return nil
	})
}

func (r memInvoices) get(op string, accountID, id int64) (*model.Invoice, error) {
	var out model.Invoice
	err := r.v.do(op, func(st *memState) error {
		inv, ok := st.invoices[id]
		if !ok || inv.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		out = inv
		out.Items = slices.Clone(inv.Items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memInvoices) GetByID(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	return r.get("invoices.GetByID", accountID, id)
}

func (r memInvoices) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Invoice, error) {
	return r.get("invoices.GetForUpdate", accountID, id)
}

func (r memInvoices) List(ctx context.Context, accountID int64, filter model.InvoiceFilter) ([]model.Invoice, error) {
	var out []model.Invoice
	err := r.v.do("invoices.List", func(st *memState) error {
		for _, inv := range st.invoices {
			if inv.AccountID != accountID {
				continue
			}
			if filter.ClientID != nil && inv.ClientID != *filter.ClientID {
				continue
			}
			if filter.OrderID != nil && (inv.OrderID == nil || *inv.OrderID != *filter.OrderID) {
				continue
			}
			if filter.Status != nil && inv.Status != *filter.Status {
				continue
			}
			inv.Items = slices.Clone(inv.Items)
			out = append(out, inv)
		}
		slices.SortFunc(out, func(a, b model.Invoice) int { return cmp.Compare(b.ID, a.ID) })
		return nil
	})
	return out, err
}

func (r memInvoices) Update(ctx context.Context, invoice *model.Invoice) error {
	return r.v.do("invoices.Update", func(st *memState) error {
		stored, ok := st.invoices[invoice.ID]
		if !ok || stored.AccountID != invoice.AccountID {
			return domainErrors.ErrNotFound
		}
		if stored.Version != invoice.Version {
			return domainErrors.ErrConcurrentUpdate
		}
		invoice.Version++
		invoice.PaidAmount = stored.PaidAmount
		next := *invoice
		next.Items = slices.Clone(invoice.Items)
		st.invoices[invoice.ID] = next
		return nil
	})
}

func (r memInvoices) UpdatePaidAmount(ctx context.Context, id int64, paid decimal.Decimal) error {
	return r.v.do("invoices.UpdatePaidAmount", func(st *memState) error {
		inv, ok := st.invoices[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		inv.PaidAmount = paid
		st.invoices[id] = inv
		return nil
	})
}

func (r memInvoices) Delete(ctx context.Context, accountID, id int64) error {
	return r.v.do("invoices.Delete", func(st *memState) error {
		inv, ok := st.invoices[id]
		if !ok || inv.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		delete(st.invoices, id)
		return nil
	})
}

type memPayments struct{ v memView }

func (r memPayments) Create(ctx context.Context, payment *model.Payment) error {
	return r.v.do("payments.Create", func(st *memState) error {
		payment.ID = st.id()
		st.payments[payment.ID] = *payment
		return nil
	})
}

func (r memPayments) get(op string, accountID, id int64) (*model.Payment, error) {
	var out model.Payment
	err := r.v.do(op, func(st *memState) error {
		p, ok := st.payments[id]
		if !ok || p.AccountID != accountID {
			return domainErrors.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memPayments) GetByID(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	return r.get("payments.GetByID", accountID, id)
}

func (r memPayments) GetForUpdate(ctx context.Context, accountID, id int64) (*model.Payment, error) {
	return r.get("payments.GetForUpdate", accountID, id)
}

func (r memPayments) ListByOrder(ctx context.Context, accountID, orderID int64) ([]model.Payment, error) {
	var out []model.Payment
	err := r.v.do("payments.ListByOrder", func(st *memState) error {
		for _, p := range st.payments {
			if p.AccountID == accountID && p.OrderID != nil && *p.OrderID == orderID {
				out = append(out, p)
			}
		}
		slices.SortFunc(out, func(a, b model.Payment) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

func (r memPayments) UpdateStatus(ctx context.Context, payment *model.Payment) error {
	return r.v.do("payments.UpdateStatus", func(st *memState) error {
		if _, ok := st.payments[payment.ID]; !ok {
			return domainErrors.ErrNotFound
		}
		st.payments[payment.ID] = *payment
		return nil
	})
}

func (r memPayments) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	var n int
	err := r.v.do("payments.CountByOrder", func(st *memState) error {
		for _, p := range st.payments {
			if p.OrderID != nil && *p.OrderID == orderID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r memPayments) SumCompletedByOrder(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var matched []model.Payment
	err := r.v.do("payments.SumCompletedByOrder", func(st *memState) error {
		for _, p := range st.payments {
			if p.OrderID != nil && *p.OrderID == orderID {
				matched = append(matched, p)
			}
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return model.SumCompleted(matched), nil
}

func (r memPayments) SumCompletedByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	var matched []model.Payment
	err := r.v.do("payments.SumCompletedByInvoice", func(st *memState) error {
		for _, p := range st.payments {
			if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
				matched = append(matched, p)
			}
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return model.SumCompleted(matched), nil
}

type memSequences struct{ v memView }

func (r memSequences) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.v.do("sequences.Next", func(st *memState) error {
		st.sequences[name]++
		value = st.sequences[name]
		return nil
	})
	return value, err
}

type memAudit struct{ v memView }

func (r memAudit) Append(ctx context.Context, entry model.AuditEntry) error {
	return r.v.do("audit.Append", func(st *memState) error {
		st.audit = append(st.audit, entry)
		return nil
	})
}

func (r memAudit) ListByResource(ctx context.Context, accountID int64, resourceType string, resourceID int64) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	err := r.v.do("audit.ListByResource", func(st *memState) error {
		for _, e := range st.audit {
			if e.AccountID == accountID && e.ResourceType == resourceType && e.ResourceID == resourceID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}
