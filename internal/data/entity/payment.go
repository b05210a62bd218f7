package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPSE        PaymentMethod = "pse"
	PaymentMethodOther      PaymentMethod = "other"
)

type Payment struct {
	Base
	BookingID     uuid.UUID     `db:"booking_id"`
	UserID        uuid.UUID     `db:"user_id"`
	Amount        float64       `db:"amount"`
	Status        PaymentStatus `db:"status"`
	Method        PaymentMethod `db:"method"`
	TransactionID *string       `db:"transaction_id"`
}
