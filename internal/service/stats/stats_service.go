package stats

import (
	"context"
	"time"

	"github.com/zvrva/staybooking/internal/repository"
)

type StatsUseCase interface {
	// AvailableUnits returns the count of units with no blocking booking
	// covering today or later, read through the cache.
	AvailableUnits(ctx context.Context) (int64, error)
	// RefreshAvailableUnits recomputes the count unconditionally and
	// overwrites the cache.
	RefreshAvailableUnits(ctx context.Context) (int64, error)
}

// Cache reads degrade to a miss and writes to a no-op when the backing
// store is unavailable, so this service never surfaces cache errors.
type Cache interface {
	GetAvailableUnits(ctx context.Context) (int64, bool)
	SetAvailableUnits(ctx context.Context, count int64)
	InvalidateAvailableUnits(ctx context.Context)
}

type StatsService struct {
	units repository.UnitRepository
	cache Cache
	now   func() time.Time
}

type StatsServiceOption func(*StatsService)

func WithClock(now func() time.Time) StatsServiceOption {
	return func(s *StatsService) {
		s.now = now
	}
}

func NewStatsService(units repository.UnitRepository, cache Cache, opts ...StatsServiceOption) *StatsService {
	service := &StatsService{units: units, cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *StatsService) AvailableUnits(ctx context.Context) (int64, error) {
	if count, ok := s.cache.GetAvailableUnits(ctx); ok {
		return count, nil
	}
	return s.RefreshAvailableUnits(ctx)
}

func (s *StatsService) RefreshAvailableUnits(ctx context.Context) (int64, error) {
	count, err := s.units.CountAvailable(ctx, s.today())
	if err != nil {
		return 0, err
	}
	s.cache.SetAvailableUnits(ctx, count)
	return count, nil
}

func (s *StatsService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

var _ StatsUseCase = (*StatsService)(nil)
