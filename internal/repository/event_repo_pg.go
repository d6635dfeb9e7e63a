package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybooking/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, eventType domain.EventType, entityID int64, data string) error
	// CreateBatch writes one audit row per entity id in a single statement.
	CreateBatch(ctx context.Context, eventType domain.EventType, entityIDs []int64) error
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

func (r *PGEventRepository) Create(ctx context.Context, eventType domain.EventType, entityID int64, data string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO events (event_type, entity_type, entity_id, event_data)
		VALUES ($1, $2, $3, NULLIF($4, ''))`,
		eventType, domain.EntityTypeFor(eventType), entityID, data)
	return err
}

func (r *PGEventRepository) CreateBatch(ctx context.Context, eventType domain.EventType, entityIDs []int64) error {
	if len(entityIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `INSERT INTO events (event_type, entity_type, entity_id)
		SELECT $1, $2, unnest($3::bigint[])`,
		eventType, domain.EntityTypeFor(eventType), entityIDs)
	return err
}

var _ EventRepository = (*PGEventRepository)(nil)
