package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinels every backend returns; callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// pgCodes lists the SQLSTATEs with a storage-independent meaning. Unique
// violations are duplicates; the rest are rows that reference or contain
// something the schema forbids.
var pgCodes = map[string]error{
	pgerrcode.UniqueViolation:     ErrAlreadyExists,
	pgerrcode.ForeignKeyViolation: ErrConflict,
	pgerrcode.CheckViolation:      ErrConflict,
	pgerrcode.NotNullViolation:    ErrConflict,
}

// MapPgError turns driver errors into the sentinels above, keeping the
// constraint name in the message when Postgres reports one. pgx.ErrNoRows
// becomes ErrNotFound. Connection failures and cancellations are returned
// as is.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	sentinel, ok := pgCodes[pgErr.Code]
	if !ok {
		return err
	}
	if pgErr.ConstraintName != "" {
		return fmt.Errorf("%w: %s", sentinel, pgErr.ConstraintName)
	}
	return sentinel
}
