package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// Notifier delivers client notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// AuditLogger records audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry model.AuditEntry) error
}

// SideEffects fires notifications and audit entries after a change has been committed.
// Failures are logged and never returned to the caller.
type SideEffects struct {
	notifier Notifier
	audit    AuditLogger
	clients  repository.ClientRepository
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewSideEffects constructs SideEffects.
func NewSideEffects(notifier Notifier, audit AuditLogger, store repository.Store, logger *slog.Logger) *SideEffects {
	return &SideEffects{
		notifier: notifier,
		audit:    audit,
		clients:  store.Clients(),
		logger:   logger,
		newID:    func() string { return ulid.Make().String() },
		now:      time.Now,
	}
}

// NotifyClient sends a notification of the given kind to the client's contact.
func (e *SideEffects) NotifyClient(ctx context.Context, accountID, clientID int64, kind model.NotificationKind, data map[string]string) {
	if e.notifier == nil {
		return
	}
	client, err := e.clients.GetByID(ctx, accountID, clientID)
	if err != nil {
		e.logger.Warn("notification recipient lookup failed",
			slog.String("kind", string(kind)),
			slog.Int64("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return
	}

	n := model.Notification{
		ID:        e.newID(),
		Kind:      kind,
		AccountID: accountID,
		Recipient: client.Contact(),
		Data:      data,
		CreatedAt: e.now().UTC(),
	}
	if err := e.notifier.Notify(ctx, n); err != nil {
		e.logger.Warn("notification dispatch failed",
			slog.String("notification_id", n.ID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// Audit appends an entry to the audit trail.
func (e *SideEffects) Audit(ctx context.Context, entry model.AuditEntry) {
	if e.audit == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = e.newID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.now().UTC()
	}
	if err := e.audit.Record(ctx, entry); err != nil {
		e.logger.Warn("audit record failed",
			slog.String("action", entry.Action),
			slog.Int64("resource_id", entry.ResourceID),
			slog.String("error", err.Error()),
		)
	}
}
