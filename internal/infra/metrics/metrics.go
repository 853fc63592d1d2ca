// Package metrics registers the engine's Prometheus collectors.
// The /metrics endpoint is served by the API router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SpinsTotal counts resolved roulette spins by outcome.
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldspin_roulette_spins_total",
		Help: "Resolved roulette spins by outcome.",
	}, []string{"outcome"})

	// GoldWageredTotal counts gold put at stake, by game.
	GoldWageredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldspin_gold_wagered_total",
		Help: "Gold wagered, by game.",
	}, []string{"game"})

	// PvPSettlementsTotal counts settled player-vs-player bets.
	PvPSettlementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldspin_pvp_settlements_total",
		Help: "Settled PvP bets.",
	})

	// AdminAdjustmentsTotal counts applied admin balance commands.
	AdminAdjustmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldspin_admin_adjustments_total",
		Help: "Applied admin balance adjustments.",
	})
)
