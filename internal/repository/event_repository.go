package repository

import (
	"context"
	"errors"
	"time"

	"event-booking/internal/model"
	apperrors "event-booking/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location,
		date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	// Exists 供 pipeline 做預約的參照檢查
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type EventRepositoryImpl struct {
	db PoolProvider
}

func NewEventRepository(db PoolProvider) EventRepository {
	return &EventRepositoryImpl{
		db: db,
	}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Overview,
		&event.Image,
		&event.Venue,
		&event.Location,
		&event.Date,
		&event.Time,
		&event.Mode,
		&event.Audience,
		&event.Agenda,
		&event.Organizer,
		&event.Tags,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO events (
			id, title, slug, description, overview, image, venue, location,
			date, time, mode, audience, agenda, organizer, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + eventColumns

	created, err := scanEvent(pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Slug, event.Description, event.Overview,
		event.Image, event.Venue, event.Location, event.Date, event.Time,
		event.Mode, event.Audience, event.Agenda, event.Organizer, event.Tags,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.DuplicateSlug(event.Slug)
		}
		return nil, wrapStoreError("create event", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *model.Event) (*model.Event, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, overview = $4, image = $5,
		    venue = $6, location = $7, date = $8, time = $9, mode = $10,
		    audience = $11, agenda = $12, organizer = $13, tags = $14,
		    updated_at = $15
		WHERE id = $16
		RETURNING ` + eventColumns

	updated, err := scanEvent(pool.QueryRow(ctx, query,
		event.Title, event.Slug, event.Description, event.Overview, event.Image,
		event.Venue, event.Location, event.Date, event.Time, event.Mode,
		event.Audience, event.Agenda, event.Organizer, event.Tags,
		time.Now().UTC(), event.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		if isUniqueViolation(err) {
			return nil, apperrors.DuplicateSlug(event.Slug)
		}
		return nil, wrapStoreError("update event", err)
	}
	return updated, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return r.findOne(ctx, "find event", `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.findOne(ctx, "find event by slug", `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *EventRepositoryImpl) findOne(ctx context.Context, op string, query string, arg any) (*model.Event, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	event, err := scanEvent(pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, wrapStoreError(op, err)
	}
	return event, nil
}

func (r *EventRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, wrapStoreError("exists event", err)
	}
	return exists, nil
}
