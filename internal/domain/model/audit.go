package model

import "time"

// Audit actions recorded for workshop resources.
const (
	AuditActionOrderCreated      = "order.created"
	AuditActionOrderUpdated      = "order.updated"
	AuditActionOrderDeleted      = "order.deleted"
	AuditActionOrderReconciled   = "order.reconciled"
	AuditActionInvoiceCreated    = "invoice.created"
	AuditActionInvoiceUpdated    = "invoice.updated"
	AuditActionInvoiceDeleted    = "invoice.deleted"
	AuditActionInvoiceReconciled = "invoice.reconciled"
	AuditActionPaymentRecorded   = "payment.recorded"
	AuditActionPaymentConfirmed  = "payment.confirmed"
)

// AuditEntry is one line of the audit trail.
type AuditEntry struct {
	ID           string
	AccountID    int64
	ActorID      int64
	Action       string
	ResourceType string
	ResourceID   int64
	Details      map[string]any
	CreatedAt    time.Time
}
