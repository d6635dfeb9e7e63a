package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/repository"
	"github.com/zvrva/staybooking/internal/service/units"
	"github.com/zvrva/staybooking/internal/service/users"
)

var accommodationTypes = []domain.AccommodationType{
	domain.AccommodationHouse,
	domain.AccommodationFlat,
	domain.AccommodationApartments,
}

// Seeder tops the catalog up to a target number of randomized units at
// startup so a fresh install has something to search and book. Going
// through the units service keeps the audit event and cache invalidation
// per created unit.
type Seeder struct {
	unitsRepo repository.UnitRepository
	users     users.UserUseCase
	units     units.UnitUseCase
}

func New(unitsRepo repository.UnitRepository, usersSvc users.UserUseCase, unitsSvc units.UnitUseCase) *Seeder {
	return &Seeder{unitsRepo: unitsRepo, users: usersSvc, units: unitsSvc}
}

// Run creates units until the catalog holds targetUnits, returning how
// many were created. Idempotent: a catalog already at or above the
// target is left alone.
func (s *Seeder) Run(ctx context.Context, targetUnits int) (int, error) {
	existing, err := s.unitsRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	missing := targetUnits - int(existing)
	if missing <= 0 {
		return 0, nil
	}

	owner, err := s.owner(ctx)
	if err != nil {
		return 0, err
	}

	for i := 0; i < missing; i++ {
		if _, err := s.units.CreateUnit(ctx, units.CreateUnitInput{
			NumberOfRooms:     1 + rand.IntN(5),
			AccommodationType: accommodationTypes[rand.IntN(len(accommodationTypes))],
			Floor:             rand.IntN(25),
			BaseCostCents:     int64(5000 + rand.IntN(46)*1000),
			Description:       fmt.Sprintf("seeded unit %d of %d", int(existing)+i+1, targetUnits),
			OwnerID:           owner.ID,
		}); err != nil {
			return i, err
		}
	}

	log.Printf("seeded %d units, catalog now at %d", missing, targetUnits)
	return missing, nil
}

// owner reuses the first existing user or creates a host account for
// the seeded units to belong to.
func (s *Seeder) owner(ctx context.Context) (*domain.User, error) {
	all, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > 0 {
		return &all[0], nil
	}
	return s.users.CreateUser(ctx, users.CreateUserInput{
		Username: "host",
		Email:    "host@staybooking.local",
	})
}
