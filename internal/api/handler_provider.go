package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goldspin/goldspin/internal/repos/accounts"
	"github.com/goldspin/goldspin/internal/repos/bets"
	"github.com/goldspin/goldspin/internal/services/account"
	"github.com/goldspin/goldspin/internal/services/admin"
	"github.com/goldspin/goldspin/internal/services/ledger"
	"github.com/goldspin/goldspin/internal/services/pvp"
	"github.com/goldspin/goldspin/internal/services/roulette"
)

// HandlerProvider wraps the engine services and exposes HTTP handlers.
type HandlerProvider struct {
	accounts *account.Service
	ledger   *ledger.Service
	roulette *roulette.Service
	pvp      *pvp.Service
	admin    *admin.Service

	// revealDelay is a presentation hint returned with spin results;
	// outcomes are resolved before it, and no lock is held during it.
	revealDelay time.Duration
}

// NewHandler returns a new handler provider.
func NewHandler(acc *account.Service, led *ledger.Service, rl *roulette.Service, p *pvp.Service, adm *admin.Service, revealDelay time.Duration) *HandlerProvider {
	return &HandlerProvider{
		accounts:    acc,
		ledger:      led,
		roulette:    rl,
		pvp:         p,
		admin:       adm,
		revealDelay: revealDelay,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine sentinel errors onto HTTP statuses.
// Anything unmapped is a 500 and gets logged.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, pvp.ErrNotBetCreator):
		writeError(w, http.StatusForbidden, "not the bet creator")
	case errors.Is(err, accounts.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, bets.ErrBetNotFound):
		writeError(w, http.StatusNotFound, "bet not found")
	case errors.Is(err, accounts.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username taken")
	case errors.Is(err, accounts.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, pvp.ErrSelfMatch):
		writeError(w, http.StatusConflict, "cannot accept own bet")
	case errors.Is(err, roulette.ErrInvalidStake), errors.Is(err, pvp.ErrInvalidStake):
		writeError(w, http.StatusBadRequest, "stake below minimum")
	case errors.Is(err, roulette.ErrInvalidDoor):
		writeError(w, http.StatusBadRequest, "door must be between 1 and 3")
	case errors.Is(err, roulette.ErrNoPendingMystery):
		writeError(w, http.StatusConflict, "no pending mystery spin")
	case errors.Is(err, admin.ErrMalformedCommand):
		writeError(w, http.StatusBadRequest, "malformed command")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseAccountIDFromPath reads `{accountID}` from chi routes like:
//
//	GET  /user/{accountID}/balance
//	POST /user/{accountID}/spin
func parseAccountIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "accountID")
	if idStr == "" {
		return 0, fmt.Errorf("missing accountID")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid accountID")
	}

	return id, nil
}

// decodeBody decodes a size-capped JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return nil
}
