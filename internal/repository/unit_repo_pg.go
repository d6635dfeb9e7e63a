package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybooking/internal/domain"
)

// UnitSearchFilter carries optional unit search criteria. Cost bounds are
// base-cost cents, already converted from the user-facing price by the
// service layer.
type UnitSearchFilter struct {
	NumberOfRooms     *int
	AccommodationType *domain.AccommodationType
	Floor             *int
	MinBaseCostCents  *int64
	MaxBaseCostCents  *int64
	StartDate         *time.Time
	EndDate           *time.Time
	Limit             int
	Offset            int
}

type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) error
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
	Search(ctx context.Context, filter UnitSearchFilter) ([]domain.Unit, error)
	Count(ctx context.Context) (int64, error)
	// CountAvailable counts units with no blocking booking ending on or
	// after the given date.
	CountAvailable(ctx context.Context, onOrAfter time.Time) (int64, error)
}

type PGUnitRepository struct {
	db *pgxpool.Pool
}

func NewUnitRepository(db *pgxpool.Pool) UnitRepository {
	return &PGUnitRepository{db: db}
}

const unitColumns = `id, number_of_rooms, accommodation_type, floor, base_cost_cents, description, owner_id, created_at`

func scanUnit(row pgx.Row) (*domain.Unit, error) {
	var u domain.Unit
	if err := row.Scan(&u.ID, &u.NumberOfRooms, &u.AccommodationType, &u.Floor, &u.BaseCostCents, &u.Description, &u.OwnerID, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUnitRepository) Create(ctx context.Context, unit *domain.Unit) error {
	return r.db.QueryRow(ctx, `INSERT INTO units (number_of_rooms, accommodation_type, floor, base_cost_cents, description, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		unit.NumberOfRooms, unit.AccommodationType, unit.Floor, unit.BaseCostCents, unit.Description, unit.OwnerID).
		Scan(&unit.ID, &unit.CreatedAt)
}

func (r *PGUnitRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM units`).Scan(&count)
	return count, err
}

func (r *PGUnitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	u, err := scanUnit(r.db.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unit %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

func (r *PGUnitRepository) Search(ctx context.Context, filter UnitSearchFilter) ([]domain.Unit, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.NumberOfRooms != nil {
		where = append(where, "u.number_of_rooms = "+arg(*filter.NumberOfRooms))
	}
	if filter.AccommodationType != nil {
		where = append(where, "u.accommodation_type = "+arg(*filter.AccommodationType))
	}
	if filter.Floor != nil {
		where = append(where, "u.floor = "+arg(*filter.Floor))
	}
	if filter.MinBaseCostCents != nil {
		where = append(where, "u.base_cost_cents >= "+arg(*filter.MinBaseCostCents))
	}
	if filter.MaxBaseCostCents != nil {
		where = append(where, "u.base_cost_cents <= "+arg(*filter.MaxBaseCostCents))
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		// same inclusive overlap rule as domain.Overlaps
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.unit_id = u.id
			AND b.status IN ('PENDING', 'CONFIRMED')
			AND b.start_date <= `+arg(*filter.EndDate)+`
			AND b.end_date >= `+arg(*filter.StartDate)+`)`)
	}

	query := `SELECT ` + unitColumns + ` FROM units u`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.id"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]domain.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

func (r *PGUnitRepository) CountAvailable(ctx context.Context, onOrAfter time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM units u
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.unit_id = u.id
			AND b.status IN ('PENDING', 'CONFIRMED')
			AND b.end_date >= $1)`, onOrAfter).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ UnitRepository = (*PGUnitRepository)(nil)
