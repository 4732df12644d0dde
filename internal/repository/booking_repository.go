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

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error)
}

type BookingRepositoryImpl struct {
	db PoolProvider
}

func NewBookingRepository(db PoolProvider) BookingRepository {
	return &BookingRepositoryImpl{
		db: db,
	}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO bookings (id, event_id, email)
		VALUES ($1, $2, $3)
		RETURNING id, event_id, email, created_at, updated_at
	`
	var created model.Booking
	err = pool.QueryRow(ctx, query, booking.ID, booking.EventID, booking.Email).Scan(
		&created.ID,
		&created.EventID,
		&created.Email,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrBookingExists
		}
		return nil, wrapStoreError("create booking", err)
	}
	return &created, nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE bookings
		SET event_id = $1, email = $2, updated_at = $3
		WHERE id = $4
		RETURNING id, event_id, email, created_at, updated_at
	`
	var updated model.Booking
	err = pool.QueryRow(ctx, query, booking.EventID, booking.Email, time.Now().UTC(), booking.ID).Scan(
		&updated.ID,
		&updated.EventID,
		&updated.Email,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, wrapStoreError("update booking", err)
	}
	return &updated, nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err = pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.EventID,
		&booking.Email,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, wrapStoreError("find booking", err)
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, wrapStoreError("list bookings", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.EventID,
			&booking.Email,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, wrapStoreError("scan booking", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError("list bookings", err)
	}
	return bookings, nil
}
