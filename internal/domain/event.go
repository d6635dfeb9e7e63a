package domain

import "time"

type EventType string

const (
	EventUnitCreated      EventType = "UNIT_CREATED"
	EventBookingCreated   EventType = "BOOKING_CREATED"
	EventBookingConfirmed EventType = "BOOKING_CONFIRMED"
	EventBookingCancelled EventType = "BOOKING_CANCELLED"
	EventBookingExpired   EventType = "BOOKING_EXPIRED"
	EventPaymentCompleted EventType = "PAYMENT_COMPLETED"
	EventPaymentFailed    EventType = "PAYMENT_FAILED"
)

type EntityType string

const (
	EntityUnit    EntityType = "UNIT"
	EntityBooking EntityType = "BOOKING"
	EntityPayment EntityType = "PAYMENT"
)

// EntityTypeFor maps an event type to the kind of entity it refers to.
func EntityTypeFor(t EventType) EntityType {
	switch t {
	case EventUnitCreated:
		return EntityUnit
	case EventPaymentCompleted, EventPaymentFailed:
		return EntityPayment
	default:
		return EntityBooking
	}
}

// Event is an append-only audit record. It is never consulted by business
// logic.
type Event struct {
	ID         int64
	EventType  EventType
	EntityType EntityType
	EntityID   int64
	Data       string
	CreatedAt  time.Time
}
