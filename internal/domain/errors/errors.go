package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the use cases wraps exactly one of them.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrConcurrentUpdate = errors.New("concurrent update, please retry")
)

var (
	ErrAlreadyExists      = fmt.Errorf("%w: already exists", ErrConflict)
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation errors.
var (
	ErrInvalidStatus         = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidCost           = fmt.Errorf("%w: cost must not be negative", ErrValidation)
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrInvalidLineItem       = fmt.Errorf("%w: line item requires description, positive quantity and non-negative unit price", ErrValidation)
	ErrInvalidPaymentMethod  = fmt.Errorf("%w: unknown payment method", ErrValidation)
	ErrTransactionIDRequired = fmt.Errorf("%w: transaction id is required for mobile money and gateway payments", ErrValidation)
	ErrPaymentOrderMismatch  = fmt.Errorf("%w: invoice belongs to a different order", ErrValidation)
)

// Not found errors.
var (
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrInvoiceNotFound    = fmt.Errorf("invoice %w", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("payment %w", ErrNotFound)
	ErrCollectionNotFound = fmt.Errorf("collection %w", ErrNotFound)
)

// Conflict errors.
var (
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrOrderHasPayments  = fmt.Errorf("%w: order has recorded payments, cancel it instead", ErrConflict)
	ErrInvoiceNotDraft   = fmt.Errorf("%w: only draft invoices can be deleted", ErrConflict)
	ErrInvoiceLocked     = fmt.Errorf("%w: items of a paid or cancelled invoice cannot change", ErrConflict)
	ErrInvoiceCancelled  = fmt.Errorf("%w: invoice is cancelled", ErrConflict)
	ErrPaymentFinalized  = fmt.Errorf("%w: payment is already finalized", ErrConflict)
)

// Validationf builds a validation error with a caller supplied reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Transition describes a rejected status change.
func Transition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
