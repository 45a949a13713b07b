package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactoryHTTPCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{ErrNotFound("market", "market not found"), http.StatusNotFound},
		{ErrForbidden("market", "not yours"), http.StatusForbidden},
		{ErrConflict("application", "duplicate"), http.StatusConflict},
		{ErrAlreadyExists(errors.New("unique constraint"), "application", "duplicate"), http.StatusConflict},
		{ErrInvalidStatus("application", "already accepted"), http.StatusBadRequest},
		{ErrInvalidOperation("application", "not accepted yet"), http.StatusBadRequest},
		{ErrBadRequest("market", "missing cost fields"), http.StatusBadRequest},
		{InternalError(errors.New("boom")), http.StatusInternalServerError},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.err.HTTPCode, tc.err.Message)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("primary key violation")
	wrapped := ErrAlreadyExists(cause, "application", "duplicate")

	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, CodeAlreadyExists, wrapped.Code)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_applications_market_business"`)))
	require.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: applications.market_id")))
	require.True(t, IsUniqueViolation(errors.New("ERROR: 23505")))
	require.False(t, IsUniqueViolation(errors.New("connection refused")))
	require.False(t, IsUniqueViolation(nil))
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	wrapped := InternalError(errors.New("password=hunter2 leaked in dsn"))
	data, err := wrapped.MarshalJSON()
	require.NoError(t, err)
	require.NotContains(t, string(data), "hunter2")
}
