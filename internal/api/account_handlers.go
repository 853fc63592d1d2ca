package api

import (
	"net/http"

	"github.com/goldspin/goldspin/internal/repos/transactions"
)

// historyLimit caps GET /user/{accountID}/transactions.
const historyLimit = 50

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Balance   int64  `json:"balance"`
}

// RegisterHandler handles POST /register.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	acc, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		AccountID: acc.ID,
		Username:  acc.Username,
		Balance:   acc.Balance,
	})
}

// LoginHandler handles POST /login.
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	acc, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		AccountID: acc.ID,
		Username:  acc.Username,
		Balance:   acc.Balance,
	})
}

// GetBalanceHandler handles GET /user/{accountID}/balance.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	balance, err := h.ledger.Balance(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": accountID,
		"balance":   balance,
	})
}

type transactionView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// ListTransactionsHandler handles GET /user/{accountID}/transactions.
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	list, err := h.ledger.History(r.Context(), accountID, historyLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]transactionView, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionView(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func toTransactionView(t transactions.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		Timestamp:   t.CreatedAt.UnixMilli(),
	}
}
