package units

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/pricing"
	"github.com/zvrva/staybooking/internal/repository"
)

type UnitUseCase interface {
	CreateUnit(ctx context.Context, input CreateUnitInput) (*domain.Unit, error)
	GetUnit(ctx context.Context, id int64) (*domain.Unit, error)
	SearchUnits(ctx context.Context, input SearchUnitsInput) ([]domain.Unit, error)
}

type Cache interface {
	InvalidateAvailableUnits(ctx context.Context)
}

type CreateUnitInput struct {
	NumberOfRooms     int
	AccommodationType domain.AccommodationType
	Floor             int
	BaseCostCents     int64
	Description       string
	OwnerID           int64
}

// SearchUnitsInput mirrors the search filters a client sees. Cost bounds
// are the user-facing price per night (markup included); they are
// converted to stored base-cost bounds before querying.
type SearchUnitsInput struct {
	NumberOfRooms     *int
	AccommodationType *domain.AccommodationType
	Floor             *int
	MinCostCents      *int64
	MaxCostCents      *int64
	StartDate         *time.Time
	EndDate           *time.Time
	Limit             int
	Offset            int
}

type UnitService struct {
	units  repository.UnitRepository
	users  repository.UserRepository
	events repository.EventRepository
	cache  Cache
}

func NewUnitService(units repository.UnitRepository, users repository.UserRepository, events repository.EventRepository, cache Cache) *UnitService {
	return &UnitService{units: units, users: users, events: events, cache: cache}
}

func (s *UnitService) CreateUnit(ctx context.Context, input CreateUnitInput) (*domain.Unit, error) {
	if input.NumberOfRooms < 1 {
		return nil, fmt.Errorf("%w: number of rooms must be at least 1", domain.ErrInvalidArgument)
	}
	if !input.AccommodationType.Valid() {
		return nil, fmt.Errorf("%w: unknown accommodation type %q", domain.ErrInvalidArgument, input.AccommodationType)
	}
	if input.BaseCostCents <= 0 {
		return nil, fmt.Errorf("%w: base cost must be positive", domain.ErrInvalidArgument)
	}

	if _, err := s.users.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	unit := &domain.Unit{
		NumberOfRooms:     input.NumberOfRooms,
		AccommodationType: input.AccommodationType,
		Floor:             input.Floor,
		BaseCostCents:     input.BaseCostCents,
		Description:       input.Description,
		OwnerID:           input.OwnerID,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, domain.EventUnitCreated, unit.ID, ""); err != nil {
		log.Printf("record event %s for %d: %v", domain.EventUnitCreated, unit.ID, err)
	}
	s.cache.InvalidateAvailableUnits(ctx)

	return unit, nil
}

func (s *UnitService) GetUnit(ctx context.Context, id int64) (*domain.Unit, error) {
	return s.units.GetByID(ctx, id)
}

func (s *UnitService) SearchUnits(ctx context.Context, input SearchUnitsInput) ([]domain.Unit, error) {
	if (input.StartDate == nil) != (input.EndDate == nil) {
		return nil, fmt.Errorf("%w: availability filter needs both start and end date", domain.ErrInvalidArgument)
	}
	if input.StartDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("%w: end date must be on or after start date", domain.ErrInvalidArgument)
	}

	filter := repository.UnitSearchFilter{
		NumberOfRooms:     input.NumberOfRooms,
		AccommodationType: input.AccommodationType,
		Floor:             input.Floor,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Limit:             input.Limit,
		Offset:            input.Offset,
	}
	// Users filter on displayed prices; the store keeps base costs.
	if input.MinCostCents != nil {
		min := pricing.BaseCostBoundCents(*input.MinCostCents)
		filter.MinBaseCostCents = &min
	}
	if input.MaxCostCents != nil {
		max := pricing.BaseCostBoundCents(*input.MaxCostCents)
		filter.MaxBaseCostCents = &max
	}

	return s.units.Search(ctx, filter)
}

var _ UnitUseCase = (*UnitService)(nil)
