package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs the chi router with all API endpoints
// registered.
func NewRouter(h *HandlerProvider, adminCode string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/register", h.RegisterHandler)
	r.Post("/login", h.LoginHandler)

	r.Get("/user/{accountID}/balance", h.GetBalanceHandler)
	r.Get("/user/{accountID}/transactions", h.ListTransactionsHandler)
	r.Post("/user/{accountID}/spin", h.SpinHandler)
	r.Post("/user/{accountID}/mystery", h.PickDoorHandler)

	r.Post("/pvp/bets", h.CreateBetHandler)
	r.Get("/pvp/bets", h.ListBetsHandler)
	r.Post("/pvp/bets/{betID}/accept", h.AcceptBetHandler)
	r.Delete("/pvp/bets/{betID}", h.WithdrawBetHandler)

	r.Route("/admin", func(r chi.Router) {
		r.Use(AdminOnly(adminCode))
		r.Get("/accounts", h.ListAccountsHandler)
		r.Post("/command", h.AdminCommandHandler)
	})

	return r
}
