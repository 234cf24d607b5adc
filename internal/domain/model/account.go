package model

import "time"

// Account is a workshop owner that signs in to manage clients and orders.
type Account struct {
	ID           int64
	Login        string
	PasswordHash string
	WorkshopName string
	CreatedAt    time.Time
}
