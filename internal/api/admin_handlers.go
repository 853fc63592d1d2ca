package api

import (
	"crypto/subtle"
	"net/http"
)

// AdminOnly gates the operator routes on the X-Admin-Code shared
// secret. The code is a static secret supplied out of band, not a
// session scheme.
func AdminOnly(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Code")
			if subtle.ConstantTimeCompare([]byte(got), []byte(code)) != 1 {
				writeError(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type adminAccountView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Secret    string `json:"secret"`
	Balance   int64  `json:"balance"`
	CreatedAt int64  `json:"createdAt"`
}

// ListAccountsHandler handles GET /admin/accounts?search=.
// Secrets are exposed here on purpose: the operator panel displays
// them, and the route sits behind the admin code.
func (h *HandlerProvider) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.ListAccounts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]adminAccountView, 0, len(list))
	for _, a := range list {
		out = append(out, adminAccountView{
			ID:        a.ID,
			Username:  a.Username,
			Secret:    a.Secret,
			Balance:   a.Balance,
			CreatedAt: a.CreatedAt.UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

type adminCommandRequest struct {
	Command string `json:"command"`
}

// AdminCommandHandler handles POST /admin/command.
func (h *HandlerProvider) AdminCommandHandler(w http.ResponseWriter, r *http.Request) {
	var req adminCommandRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.admin.ApplyCommand(r.Context(), req.Command)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":   res.Username,
		"kind":       string(res.Kind),
		"requested":  res.Requested,
		"applied":    res.Applied,
		"newBalance": res.NewBalance,
	})
}
