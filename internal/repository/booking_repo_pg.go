package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybooking/internal/domain"
)

// UserBooking is a booking joined with the unit's base cost, so list
// responses can derive the user-facing total without a query per row.
type UserBooking struct {
	domain.Booking
	UnitBaseCostCents int64
}

type BookingRepository interface {
	// CreatePendingWithPayment inserts a PENDING booking and its PENDING
	// payment in one transaction, holding an exclusive lock on the unit
	// row while availability is evaluated. Two concurrent creates for the
	// same unit serialize on that lock; the loser sees the winner's
	// committed booking and fails with ErrConflict.
	CreatePendingWithPayment(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]UserBooking, error)
	// Cancel moves a booking to CANCELLED and reports the status the
	// booking held at that moment. The status condition is part of the
	// update, so a booking already cancelled concurrently is not matched
	// and ErrInvalidState is returned.
	Cancel(ctx context.Context, id int64) (*domain.Booking, domain.BookingStatus, error)
	// ConfirmWithPayment completes the payment and confirms the booking in
	// one transaction, holding an exclusive lock on the booking row so the
	// confirm cannot race the expiration sweep.
	ConfirmWithPayment(ctx context.Context, bookingID int64, txRef string) (*domain.Booking, *domain.Payment, error)
	// BulkCancelExpired cancels every PENDING booking whose expiry is at or
	// before now, in a single conditional update, and returns the affected
	// bookings. Rows concurrently moved out of PENDING are not matched.
	BulkCancelExpired(ctx context.Context, now time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, unit_id, user_id, start_date, end_date, status, expires_at, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UnitID, &b.UserID, &b.StartDate, &b.EndDate, &b.Status, &b.ExpiresAt, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CreatePendingWithPayment(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Exclusive guard on the unit. Availability below is only trustworthy
	// while this lock is held.
	var unitID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM units WHERE id=$1 FOR UPDATE`, booking.UnitID).Scan(&unitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: unit %d", domain.ErrNotFound, booking.UnitID)
		}
		return err
	}

	rows, err := tx.Query(ctx, `SELECT start_date, end_date FROM bookings WHERE unit_id=$1 AND status IN ('PENDING', 'CONFIRMED')`, booking.UnitID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			rows.Close()
			return err
		}
		if domain.Overlaps(booking.StartDate, booking.EndDate, start, end) {
			rows.Close()
			return fmt.Errorf("%w: unit %d is not available for the selected dates", domain.ErrConflict, booking.UnitID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (unit_id, user_id, start_date, end_date, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		booking.UnitID, booking.UserID, booking.StartDate, booking.EndDate, booking.Status, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return err
	}

	payment.BookingID = booking.ID
	payment.Status = domain.PaymentStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, amount_cents, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		payment.BookingID, payment.AmountCents, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]UserBooking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT b.id, b.unit_id, b.user_id, b.start_date, b.end_date, b.status, b.expires_at, b.created_at, u.base_cost_cents
		FROM bookings b
		JOIN units u ON u.id = b.unit_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]UserBooking, 0)
	for rows.Next() {
		var b UserBooking
		if err := rows.Scan(&b.ID, &b.UnitID, &b.UserID, &b.StartDate, &b.EndDate, &b.Status, &b.ExpiresAt, &b.CreatedAt, &b.UnitBaseCostCents); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// The locking subquery pins the pre-update status, so the caller's
// refund decision cannot go stale against a concurrent confirm.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, domain.BookingStatus, error) {
	var b domain.Booking
	var prev domain.BookingStatus
	err := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, expires_at=NULL
		FROM (SELECT id, status AS prev_status FROM bookings WHERE id=$2 FOR UPDATE) old
		WHERE bookings.id = old.id AND bookings.status <> $1
		RETURNING bookings.id, bookings.unit_id, bookings.user_id, bookings.start_date, bookings.end_date, bookings.status, bookings.expires_at, bookings.created_at, old.prev_status`,
		domain.BookingStatusCancelled, id).
		Scan(&b.ID, &b.UnitID, &b.UserID, &b.StartDate, &b.EndDate, &b.Status, &b.ExpiresAt, &b.CreatedAt, &prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: booking %d is already cancelled", domain.ErrInvalidState, id)
		}
		return nil, "", err
	}
	return &b, prev, nil
}

func (r *PGBookingRepository) ConfirmWithPayment(ctx context.Context, bookingID int64, txRef string) (*domain.Booking, *domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// Exclusive guard on the booking: the status check and the transition
	// must be atomic with respect to a concurrent expiration sweep.
	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, bookingID)
		}
		return nil, nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, nil, fmt.Errorf("%w: payment window closed, booking %d is %s", domain.ErrInvalidState, bookingID, booking.Status)
	}

	var payment domain.Payment
	err = tx.QueryRow(ctx, `SELECT id, booking_id, amount_cents, status, COALESCE(tx_ref, ''), created_at FROM payments WHERE booking_id=$1`, bookingID).
		Scan(&payment.ID, &payment.BookingID, &payment.AmountCents, &payment.Status, &payment.TxRef, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: payment for booking %d", domain.ErrNotFound, bookingID)
		}
		return nil, nil, err
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, nil, fmt.Errorf("%w: payment %d is %s", domain.ErrInvalidState, payment.ID, payment.Status)
	}

	if _, err := tx.Exec(ctx, `UPDATE payments SET status=$1, tx_ref=$2 WHERE id=$3`,
		domain.PaymentStatusCompleted, txRef, payment.ID); err != nil {
		return nil, nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, expires_at=NULL WHERE id=$2`,
		domain.BookingStatusConfirmed, bookingID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	payment.Status = domain.PaymentStatusCompleted
	payment.TxRef = txRef
	booking.Status = domain.BookingStatusConfirmed
	booking.ExpiresAt = nil
	return booking, &payment, nil
}

func (r *PGBookingRepository) BulkCancelExpired(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, expires_at=NULL
		WHERE status=$2 AND expires_at <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, domain.BookingStatusPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expired := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
