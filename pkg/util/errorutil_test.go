package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := NewForbidden("administrator role required")
	converted := ToDomainError(original)
	require.Equal(t, "FORBIDDEN", converted.Code)
	require.Equal(t, http.StatusForbidden, converted.HTTPStatus)
}

func TestToDomainError_MapsNoRowsToNotFound(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, "NOT_FOUND", converted.Code)
	require.Equal(t, http.StatusNotFound, converted.HTTPStatus)

	wrapped := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.Equal(t, "NOT_FOUND", wrapped.Code)
}

func TestToDomainError_WrapsUnknownErrors(t *testing.T) {
	converted := ToDomainError(errors.New("boom"))
	require.Equal(t, "INTERNAL_ERROR", converted.Code)
	require.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	require.EqualError(t, converted.Err, "boom")
}

func TestIsCode(t *testing.T) {
	err := NewValidationError("bad input", map[string]any{"title": "required"})
	require.True(t, IsCode(err, "VALIDATION_FAILED"))
	require.False(t, IsCode(err, "NOT_FOUND"))
	require.False(t, IsCode(errors.New("plain"), "VALIDATION_FAILED"))
	require.False(t, IsCode(nil, "VALIDATION_FAILED"))
}
