package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/fieldops/dispatchd/internal/domain"
)

const (
	pgCodeLockNotAvailable = "55P03" // FOR UPDATE NOWAIT lost the race
	pgCodeUniqueViolation  = "23505"
)

// mapConflict translates lock-acquisition failures and unique violations
// (the partial unique index on active assignments) into domain.ErrConflict,
// which callers may retry from fresh state. Other errors pass through.
func mapConflict(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgCodeLockNotAvailable || pgErr.Code == pgCodeUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrConflict, op)
		}
	}
	return err
}
