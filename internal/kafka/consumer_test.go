package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/zvrva/staybooking/internal/domain"
)

type stubReader struct {
	messages []kafkaGo.Message
}

func (r *stubReader) ReadMessage(ctx context.Context) (kafkaGo.Message, error) {
	if len(r.messages) == 0 {
		return kafkaGo.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *stubReader) Close() error { return nil }

func TestConsumer_Consume_DecodesAndSkipsGarbage(t *testing.T) {
	event := NewBookingEvent("booking_created", &domain.Booking{
		ID:     5,
		UnitID: 7,
		UserID: 3,
		Status: domain.BookingStatusPending,
	})
	value, err := json.Marshal(event)
	assert.NoError(t, err)

	consumer := &Consumer{reader: &stubReader{messages: []kafkaGo.Message{
		{Value: []byte("not json")},
		{Value: value},
	}}}

	var received []BookingEvent
	err = consumer.Consume(context.Background(), func(ctx context.Context, e BookingEvent) error {
		received = append(received, e)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Len(t, received, 1)
	assert.Equal(t, int64(5), received[0].BookingID)
	assert.Equal(t, "booking_created", received[0].Type)
}

func TestConsumer_Consume_HandlerErrorStops(t *testing.T) {
	consumer := &Consumer{reader: &stubReader{messages: []kafkaGo.Message{
		{Value: []byte(`{"type":"booking_expired","booking_id":1}`)},
		{Value: []byte(`{"type":"booking_expired","booking_id":2}`)},
	}}}

	handlerErr := errors.New("notifier down")
	var seen int
	err := consumer.Consume(context.Background(), func(ctx context.Context, e BookingEvent) error {
		seen++
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, seen)
}
