package payments

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/kafka"
	"github.com/zvrva/staybooking/internal/repository"
)

type PaymentUseCase interface {
	// ProcessPayment emulates a successful gateway charge: the payment
	// completes and the booking confirms, atomically.
	ProcessPayment(ctx context.Context, bookingID int64) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

type Cache interface {
	InvalidateAvailableUnits(ctx context.Context)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentService struct {
	bookings    repository.BookingRepository
	payments    repository.PaymentRepository
	events      repository.EventRepository
	cache       Cache
	producer    Producer
	eventsTopic string
}

func NewPaymentService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	events repository.EventRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
) *PaymentService {
	return &PaymentService{
		bookings:    bookings,
		payments:    payments,
		events:      events,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
}

func (s *PaymentService) ProcessPayment(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	txRef := uuid.NewString()

	// The repository holds the exclusive guard on the booking row, so the
	// status check cannot race the expiration sweep.
	booking, payment, err := s.bookings.ConfirmWithPayment(ctx, bookingID, txRef)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.EventPaymentCompleted, payment.ID)
	s.recordEvent(ctx, domain.EventBookingConfirmed, booking.ID)
	s.cache.InvalidateAvailableUnits(ctx)
	s.publish(ctx, "booking_confirmed", booking)

	return payment, nil
}

func (s *PaymentService) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return s.payments.GetByBookingID(ctx, bookingID)
}

func (s *PaymentService) recordEvent(ctx context.Context, eventType domain.EventType, entityID int64) {
	if err := s.events.Create(ctx, eventType, entityID, ""); err != nil {
		log.Printf("record event %s for %d: %v", eventType, entityID, err)
	}
}

func (s *PaymentService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking)
	if err := s.producer.Publish(ctx, s.eventsTopic, fmt.Sprintf("%d", booking.ID), event); err != nil {
		log.Printf("publish %s for booking %d: %v", eventType, booking.ID, err)
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
