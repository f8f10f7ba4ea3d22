package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	teamsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kickabout_teams_generated_total",
		Help: "Team splits produced, by selection mode.",
	}, []string{"mode"})

	matchesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kickabout_matches_recorded_total",
		Help: "Match results recorded.",
	})

	balanceSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kickabout_balance_duration_seconds",
		Help:    "Duration of the exhaustive balance search.",
		Buckets: prometheus.DefBuckets,
	})
)
