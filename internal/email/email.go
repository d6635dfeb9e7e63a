package email

import (
	"context"
	"fmt"

	"github.com/zvrva/staybooking/internal/kafka"
)

// Sender is a stand-in notifier: it writes what a real mailer would send.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify user %d: booking %d for unit %d (%s - %s) is now %s (%s)\n",
		event.UserID, event.BookingID, event.UnitID, event.StartDate, event.EndDate, event.Status, event.Type)
	return nil
}
