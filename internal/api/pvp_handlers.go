package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type createBetRequest struct {
	AccountID int64 `json:"accountId"`
	Stake     int64 `json:"stake"`
}

// CreateBetHandler handles POST /pvp/bets.
func (h *HandlerProvider) CreateBetHandler(w http.ResponseWriter, r *http.Request) {
	var req createBetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	bet, err := h.pvp.Create(r.Context(), req.AccountID, req.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"betId": bet.ID})
}

type openBetView struct {
	ID        string `json:"id"`
	CreatorID int64  `json:"creatorId"`
	Creator   string `json:"creator"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"createdAt"`
}

// ListBetsHandler handles GET /pvp/bets.
func (h *HandlerProvider) ListBetsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.pvp.ListOpen(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]openBetView, 0, len(list))
	for _, b := range list {
		out = append(out, openBetView{
			ID:        b.ID,
			CreatorID: b.CreatorID,
			Creator:   b.CreatorName,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"bets": out})
}

type acceptBetRequest struct {
	AccountID int64 `json:"accountId"`
	Stake     int64 `json:"stake"`
}

// AcceptBetHandler handles POST /pvp/bets/{betID}/accept.
func (h *HandlerProvider) AcceptBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betID")
	if betID == "" {
		writeError(w, http.StatusBadRequest, "missing betID in path")
		return
	}

	var req acceptBetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	st, err := h.pvp.Accept(r.Context(), betID, req.AccountID, req.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isWinner":        st.AcceptorWon,
		"winnerId":        st.WinnerID,
		"creatorUsername": st.CreatorName,
		"newBalance":      st.AcceptorBalance,
	})
}

// WithdrawBetHandler handles DELETE /pvp/bets/{betID}?accountId=N.
func (h *HandlerProvider) WithdrawBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betID")
	if betID == "" {
		writeError(w, http.StatusBadRequest, "missing betID in path")
		return
	}

	accountID, err := strconv.ParseInt(r.URL.Query().Get("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid accountId")
		return
	}

	err = h.pvp.Withdraw(r.Context(), betID, accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}
