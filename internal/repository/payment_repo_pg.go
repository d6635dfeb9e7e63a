package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybooking/internal/domain"
)

// PaymentRepository is read-only: payments are written inside the booking
// transactions (see BookingRepository).
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, amount_cents, status, COALESCE(tx_ref, ''), created_at FROM payments WHERE booking_id=$1`, bookingID)
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &p.TxRef, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for booking %d", domain.ErrNotFound, bookingID)
		}
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
