package model

import "time"

// NotificationKind identifies the message template.
type NotificationKind string

const (
	NotificationOrderStatusChanged NotificationKind = "ORDER_STATUS_CHANGED"
	NotificationInvoiceSent        NotificationKind = "INVOICE_SENT"
	NotificationPaymentReceived    NotificationKind = "PAYMENT_RECEIVED"
)

// Contact is where a notification is delivered.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Notification is an outbound message to a client.
type Notification struct {
	ID        string            `json:"id"`
	Kind      NotificationKind  `json:"kind"`
	AccountID int64             `json:"accountId"`
	Recipient Contact           `json:"recipient"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"createdAt"`
}
