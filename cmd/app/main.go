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
	"github.com/zvrva/staybooking/internal/bootstrap"
	"github.com/zvrva/staybooking/internal/cache"
	"github.com/zvrva/staybooking/internal/kafka"
	"github.com/zvrva/staybooking/internal/repository"
	"github.com/zvrva/staybooking/internal/seed"
	"github.com/zvrva/staybooking/internal/service/booking"
	"github.com/zvrva/staybooking/internal/service/payments"
	"github.com/zvrva/staybooking/internal/service/stats"
	"github.com/zvrva/staybooking/internal/service/units"
	"github.com/zvrva/staybooking/internal/service/users"
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

	svc := bootstrap.Services{
		Users: users.NewUserService(userRepo),
		Units: units.NewUnitService(unitRepo, userRepo, eventRepo, redisCache),
		Bookings: booking.NewBookingService(
			bookingRepo,
			unitRepo,
			userRepo,
			paymentRepo,
			eventRepo,
			redisCache,
			producer,
			cfg.Kafka.BookingEventsTopic,
			time.Duration(cfg.Booking.ExpirationMinutes)*time.Minute,
		),
		Payments: payments.NewPaymentService(
			bookingRepo,
			paymentRepo,
			eventRepo,
			redisCache,
			producer,
			cfg.Kafka.BookingEventsTopic,
		),
		Stats: stats.NewStatsService(unitRepo, redisCache),
	}

	if cfg.Seed.TargetUnits > 0 {
		if _, err := seed.New(unitRepo, svc.Users, svc.Units).Run(ctx, cfg.Seed.TargetUnits); err != nil {
			log.Fatalf("seed units: %v", err)
		}
	}

	// Prime the availability counter so the first stats request is a hit.
	if _, err := svc.Stats.RefreshAvailableUnits(ctx); err != nil {
		log.Printf("warm availability cache: %v", err)
	}

	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
