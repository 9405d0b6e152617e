package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaguebase_membership_sync_runs_total",
			Help: "Total membership sync runs by outcome",
		},
		[]string{"outcome"},
	)
	syncMembershipsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leaguebase_membership_sync_updates_total",
			Help: "Total membership status transitions written by sync runs",
		},
	)
)
