package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybooking/config"
	"github.com/zvrva/staybooking/internal/cache"
	"github.com/zvrva/staybooking/internal/email"
	"github.com/zvrva/staybooking/internal/kafka"
	"github.com/zvrva/staybooking/internal/repository"
	"github.com/zvrva/staybooking/internal/service/booking"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		unitRepo,
		userRepo,
		paymentRepo,
		eventRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.ExpirationMinutes)*time.Minute,
	)

	consumer := kafka.NewConsumer(cfg.Kafka)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	// First sweep runs after a short delay so the service comes up before
	// touching the bookings table.
	initialDelay := time.NewTimer(time.Duration(cfg.Worker.InitialDelaySeconds) * time.Second)
	defer initialDelay.Stop()

	select {
	case <-initialDelay.C:
	case <-ctx.Done():
		log.Print("shutting down")
		return
	}

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepIntervalSeconds) * time.Second)
	defer sweepTicker.Stop()

	sweep(ctx, bookingService)
	for {
		select {
		case <-sweepTicker.C:
			sweep(ctx, bookingService)
		case <-ctx.Done():
			log.Print("shutting down")
			return
		}
	}
}

func sweep(ctx context.Context, svc booking.BookingUseCase) {
	expired, err := svc.ExpirePendingBookings(ctx)
	if err != nil {
		log.Printf("expire bookings error: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("expired %d bookings", expired)
	}
}
