package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/kafka"
	"github.com/zvrva/staybooking/internal/pricing"
	"github.com/zvrva/staybooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, *domain.Payment, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error)
	ListUserBookings(ctx context.Context, userID int64, limit, offset int) ([]BookingSummary, error)
	CancelBooking(ctx context.Context, bookingID, userID int64) error
	ExpirePendingBookings(ctx context.Context) (int, error)
}

// Cache is the slice of the availability cache this service needs: every
// state-changing operation invalidates the derived count.
type Cache interface {
	InvalidateAvailableUnits(ctx context.Context)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	UnitID    int64     `json:"unit_id"`
	UserID    int64     `json:"user_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// BookingSummary is a booking with its user-facing total cost, derived
// from the unit's base cost the same way it was at creation time.
type BookingSummary struct {
	Booking        domain.Booking
	TotalCostCents int64
}

type BookingService struct {
	bookings         repository.BookingRepository
	units            repository.UnitRepository
	users            repository.UserRepository
	payments         repository.PaymentRepository
	events           repository.EventRepository
	cache            Cache
	producer         Producer
	eventsTopic      string
	expirationWindow time.Duration
	now              func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithClock overrides the service clock, used by tests to pin expiries.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	units repository.UnitRepository,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	events repository.EventRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	expirationWindow time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:         bookings,
		units:            units,
		users:            users,
		payments:         payments,
		events:           events,
		cache:            cache,
		producer:         producer,
		eventsTopic:      eventsTopic,
		expirationWindow: expirationWindow,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, *domain.Payment, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, nil, fmt.Errorf("%w: start date and end date are required", domain.ErrInvalidArgument)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, nil, fmt.Errorf("%w: end date must be on or after start date", domain.ErrInvalidArgument)
	}

	// Pre-checks outside the lock; unit existence is re-verified under the
	// exclusive guard inside the repository transaction.
	unit, err := s.units.GetByID(ctx, input.UnitID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, nil, err
	}

	expiresAt := s.now().Add(s.expirationWindow)
	booking := &domain.Booking{
		UnitID:    input.UnitID,
		UserID:    input.UserID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    domain.BookingStatusPending,
		ExpiresAt: &expiresAt,
	}
	payment := &domain.Payment{
		AmountCents: pricing.TotalCostCents(unit.BaseCostCents, input.StartDate, input.EndDate),
		Status:      domain.PaymentStatusPending,
	}

	if err := s.bookings.CreatePendingWithPayment(ctx, booking, payment); err != nil {
		return nil, nil, err
	}

	s.recordEvent(ctx, domain.EventBookingCreated, booking.ID, "")
	s.cache.InvalidateAvailableUnits(ctx)
	s.publish(ctx, "booking_created", booking)

	return booking, payment, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	payment, err := s.payments.GetByBookingID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return booking, payment, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64, limit, offset int) ([]BookingSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.bookings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]BookingSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, BookingSummary{
			Booking:        row.Booking,
			TotalCostCents: pricing.TotalCostCents(row.UnitBaseCostCents, row.StartDate, row.EndDate),
		})
	}
	return summaries, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		return fmt.Errorf("%w: you can only cancel your own bookings", domain.ErrForbidden)
	}

	if _, err := current.Cancel(); err != nil {
		return err
	}

	// The status read above is unlocked; a payment may confirm the booking
	// before the update lands. The refund decision uses the status the
	// update itself observed.
	updated, prev, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return err
	}

	eventData := ""
	if prev == domain.BookingStatusConfirmed {
		// Refunds for completed payments are not implemented; leave a
		// trace instead of silently treating this like a pending cancel.
		log.Printf("cancelling confirmed booking %d: refund logic not implemented, payment stays COMPLETED", bookingID)
		eventData = "refund_pending: booking was CONFIRMED at cancellation, refund flow not implemented"
	}

	s.recordEvent(ctx, domain.EventBookingCancelled, bookingID, eventData)
	s.cache.InvalidateAvailableUnits(ctx)
	s.publish(ctx, "booking_cancelled", updated)

	return nil
}

// ExpirePendingBookings cancels every pending booking whose payment
// window has elapsed. One bulk update, one batched audit write, one cache
// invalidation per sweep. Post-commit effect failures are logged, never
// returned: the next scheduled sweep retries naturally.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) (int, error) {
	expired, err := s.bookings.BulkCancelExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(expired))
	for _, b := range expired {
		ids = append(ids, b.ID)
	}
	if err := s.events.CreateBatch(ctx, domain.EventBookingExpired, ids); err != nil {
		log.Printf("record expired booking events: %v", err)
	}

	s.cache.InvalidateAvailableUnits(ctx)

	for i := range expired {
		s.publish(ctx, "booking_expired", &expired[i])
	}

	return len(expired), nil
}

func (s *BookingService) recordEvent(ctx context.Context, eventType domain.EventType, entityID int64, data string) {
	if err := s.events.Create(ctx, eventType, entityID, data); err != nil {
		log.Printf("record event %s for %d: %v", eventType, entityID, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking)
	if err := s.producer.Publish(ctx, s.eventsTopic, fmt.Sprintf("%d", booking.ID), event); err != nil {
		log.Printf("publish %s for booking %d: %v", eventType, booking.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
