package repository

import (
	"context"
	"errors"

	apperrors "event-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolProvider hands out the shared store handle; *database.ConnectionCache satisfies it.
type PoolProvider interface {
	Acquire(ctx context.Context) (*pgxpool.Pool, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func wrapStoreError(op string, err error) error {
	return apperrors.Infrastructure(op, err)
}
