package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is created together with its booking, in the same transaction.
// AmountCents is frozen from the booking's computed total cost at creation
// time. TxRef is the emulated gateway reference, set on completion.
type Payment struct {
	ID          int64
	BookingID   int64
	AmountCents int64
	Status      PaymentStatus
	TxRef       string
	CreatedAt   time.Time
}
