package model

import "time"

// Client is the customer that orders, invoices and payments belong to.
type Client struct {
	ID        int64
	AccountID int64
	Name      string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact returns the recipient details used for notifications.
func (c Client) Contact() Contact {
	return Contact{Name: c.Name, Phone: c.Phone, Email: c.Email}
}
