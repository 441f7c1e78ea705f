package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "daily_diet_client",
		Name:      "requests_total",
		Help:      "SDK calls by operation and outcome (ok, api_error, transport_error).",
	},
	[]string{"op", "outcome"},
)
