package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money was received.
type PaymentMethod string

const (
	PaymentMethodCash            PaymentMethod = "CASH"
	PaymentMethodMTNMoMo         PaymentMethod = "MTN_MOMO"
	PaymentMethodVodafoneCash    PaymentMethod = "VODAFONE_CASH"
	PaymentMethodAirtelTigoMoney PaymentMethod = "AIRTELTIGO_MONEY"
	PaymentMethodBankTransfer    PaymentMethod = "BANK_TRANSFER"
	PaymentMethodGateway         PaymentMethod = "GATEWAY"
)

// ParsePaymentMethod validates a raw method value.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	method := PaymentMethod(raw)
	switch method {
	case PaymentMethodCash, PaymentMethodMTNMoMo, PaymentMethodVodafoneCash,
		PaymentMethodAirtelTigoMoney, PaymentMethodBankTransfer, PaymentMethodGateway:
		return method, true
	}
	return "", false
}

// IsMobileMoney reports whether the method is a mobile money wallet.
func (m PaymentMethod) IsMobileMoney() bool {
	switch m {
	case PaymentMethodMTNMoMo, PaymentMethodVodafoneCash, PaymentMethodAirtelTigoMoney:
		return true
	}
	return false
}

// RequiresTransactionID reports whether a provider reference is needed to reconcile the payment.
func (m PaymentMethod) RequiresTransactionID() bool {
	return m.IsMobileMoney() || m == PaymentMethodGateway
}

// PaymentStatus tracks whether money was actually received.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// ParsePaymentStatus validates a raw status value.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	status := PaymentStatus(raw)
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return status, true
	}
	return "", false
}

// Payment is an immutable record of money received.
type Payment struct {
	ID            int64
	AccountID     int64
	ClientID      int64
	OrderID       *int64
	InvoiceID     *int64
	Number        string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID *string
	Notes         string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Counts reports whether the payment contributes to paid balances.
func (p Payment) Counts() bool {
	return p.Status == PaymentStatusCompleted
}

// SumCompleted totals the completed payments. It is the reference computation
// for paid amounts and ignores pending and failed records.
func SumCompleted(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Counts() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Reconciliation reports the outcome of recomputing an order's or invoice's paid amount
// from its payments. Exactly one of OrderID and InvoiceID is set.
type Reconciliation struct {
	OrderID    int64
	InvoiceID  int64
	AccountID  int64
	Previous   decimal.Decimal
	Recomputed decimal.Decimal
	Drift      decimal.Decimal
	Repaired   bool
	Overpaid   bool
}
