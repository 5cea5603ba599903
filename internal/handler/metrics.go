package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	advancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scenario_advances_total",
		Help: "Total number of advance decisions, partitioned by resulting status.",
	}, []string{"status"})
	advanceFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenario_advance_failures_total",
		Help: "Total number of advance requests rejected with an error.",
	})
)
