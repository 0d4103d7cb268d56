package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("no rows maps to not found", func(t *testing.T) {
		de := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		de := ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "users_workspace_id_email_key"})
		assert.Equal(t, "CONFLICT", de.Code)
		assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	})

	t.Run("wrapped unique violation still maps", func(t *testing.T) {
		wrapped := errors.Join(errors.New("insert user"), &pgconn.PgError{Code: "23505"})
		assert.Equal(t, "CONFLICT", ToDomainError(wrapped).Code)
	})

	t.Run("unknown errors map to internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})
}
