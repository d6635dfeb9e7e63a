package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/zvrva/staybooking/internal/domain"
)

// BookingEvent is the notification payload published after a booking
// state change commits. Best-effort: publish failures are logged by the
// caller, never rolled into the business result.
type BookingEvent struct {
	Type      string     `json:"type"`
	BookingID int64      `json:"booking_id"`
	UnitID    int64      `json:"unit_id"`
	UserID    int64      `json:"user_id"`
	Status    string     `json:"status"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func NewBookingEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		Type:      eventType,
		BookingID: b.ID,
		UnitID:    b.UnitID,
		UserID:    b.UserID,
		Status:    string(b.Status),
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
		ExpiresAt: b.ExpiresAt,
	}
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
