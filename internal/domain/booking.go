package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Blocks reports whether a booking in this status counts against the
// unit's availability. CANCELLED never blocks.
func (s BookingStatus) Blocks() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking reserves a unit for a user over [StartDate, EndDate], both ends
// inclusive. ExpiresAt is set while the booking is PENDING and cleared on
// every transition out of PENDING.
type Booking struct {
	ID        int64
	UnitID    int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	Status    BookingStatus
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Cancel transitions the booking to CANCELLED and returns the previous
// status. CANCELLED is terminal, so cancelling twice fails. Both PENDING
// and CONFIRMED bookings can be cancelled; refunds for CONFIRMED ones are
// not implemented, callers flag that case from the returned status.
func (b *Booking) Cancel() (BookingStatus, error) {
	if b.Status == BookingStatusCancelled {
		return b.Status, fmt.Errorf("%w: booking %d is already cancelled", ErrInvalidState, b.ID)
	}
	prev := b.Status
	b.Status = BookingStatusCancelled
	b.ExpiresAt = nil
	return prev, nil
}

// Confirm transitions PENDING to CONFIRMED and clears the expiry.
func (b *Booking) Confirm() error {
	if b.Status != BookingStatusPending {
		return fmt.Errorf("%w: only pending bookings can be confirmed, booking %d is %s", ErrInvalidState, b.ID, b.Status)
	}
	b.Status = BookingStatusConfirmed
	b.ExpiresAt = nil
	return nil
}

// Overlaps reports whether the date ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. Both ends are inclusive: a booking ending on
// day X and another starting on day X overlap, there is no same-day
// turnover. The set-based availability queries apply the same condition.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
