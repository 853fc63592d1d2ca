package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldspin/goldspin/internal/repos/accounts"
	"github.com/goldspin/goldspin/internal/repos/bets"
	"github.com/goldspin/goldspin/internal/services/account"
	"github.com/goldspin/goldspin/internal/services/admin"
	"github.com/goldspin/goldspin/internal/services/pvp"
	"github.com/goldspin/goldspin/internal/services/roulette"
)

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AdminOnly("sekrit")(next)

	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{name: "valid", code: "sekrit", wantStatus: http.StatusNoContent},
		{name: "wrong", code: "nope", wantStatus: http.StatusForbidden},
		{name: "missing", code: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/admin/accounts", nil)
			if tt.code != "" {
				req.Header.Set("X-Admin-Code", tt.code)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWriteDomainError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
	}{
		{account.ErrInvalidCredentials, http.StatusUnauthorized},
		{pvp.ErrNotBetCreator, http.StatusForbidden},
		{accounts.ErrAccountNotFound, http.StatusNotFound},
		{bets.ErrBetNotFound, http.StatusNotFound},
		{accounts.ErrUsernameTaken, http.StatusConflict},
		{accounts.ErrInsufficientFunds, http.StatusConflict},
		{pvp.ErrSelfMatch, http.StatusConflict},
		{roulette.ErrNoPendingMystery, http.StatusConflict},
		{roulette.ErrInvalidStake, http.StatusBadRequest},
		{pvp.ErrInvalidStake, http.StatusBadRequest},
		{roulette.ErrInvalidDoor, http.StatusBadRequest},
		{admin.ErrMalformedCommand, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		// wrapped errors must map the same as bare sentinels
		writeDomainError(rec, errors.Join(errors.New("context"), tt.err))

		assert.Equal(t, tt.wantStatus, rec.Code, "error %v", tt.err)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(nil, nil, nil, nil, nil, 0), "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestParseAccountIDFromPath_Invalid(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(nil, nil, nil, nil, nil, 0), "sekrit")

	for _, path := range []string{"/user/abc/balance", "/user/0/balance", "/user/-3/balance"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}
