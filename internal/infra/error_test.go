//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"voltspot/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		kinds      []infra.RepositoryErrorKind
		expectKind infra.RepositoryErrorKind
	}{
		{
			name:       "explicit kind wins over classification",
			err:        pgx.ErrNoRows,
			kinds:      []infra.RepositoryErrorKind{infra.KindDBFailure},
			expectKind: infra.KindDBFailure,
		},
		{
			name:       "no rows classified as not found",
			err:        pgx.ErrNoRows,
			expectKind: infra.KindNotFound,
		},
		{
			name:       "unique violation classified as duplicate key",
			err:        &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			expectKind: infra.KindDuplicateKey,
		},
		{
			name:       "exclusion violation classified as conflict",
			err:        &pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"},
			expectKind: infra.KindConflict,
		},
		{
			name:       "foreign key violation",
			err:        &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"},
			expectKind: infra.KindForeignKeyViolated,
		},
		{
			name:       "anything else is a db failure",
			err:        errors.New("connection refused"),
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := infra.WrapRepoErr("op failed", tc.err, tc.kinds...)
			assert.True(t, infra.IsKind(wrapped, tc.expectKind), "got %v", wrapped)
		})
	}
}

func TestIsKind(t *testing.T) {
	t.Run("non-repository error is never a kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("plain"), infra.KindNotFound))
	})

	t.Run("kind survives wrapping", func(t *testing.T) {
		inner := infra.WrapRepoErr("not found", pgx.ErrNoRows)
		outer := errors.Join(errors.New("outer"), inner)
		assert.True(t, infra.IsKind(outer, infra.KindNotFound))
	})
}
