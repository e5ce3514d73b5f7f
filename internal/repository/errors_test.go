package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/coursehub-service/internal/repository"
)

func TestMapPgError(t *testing.T) {
	boom := errors.New("connection refused")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}, repository.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, repository.ErrConflict},
		{"not null", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, repository.ErrConflict},
		{"unmapped code", &pgconn.PgError{Code: pgerrcode.SyntaxError}, nil},
		{"plain error", boom, boom},
		{"canceled", context.Canceled, context.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			switch {
			case tc.in == nil:
				assert.NoError(t, got)
			case tc.want == nil:
				assert.Same(t, tc.in, got)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}

func TestMapPgError_KeepsConstraintName(t *testing.T) {
	err := repository.MapPgError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "courses_slug_key"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "courses_slug_key")
}
