package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authkey"

// Result label values
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

var (
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Verification keys submitted to the chain, by result.",
	}, []string{"result"})

	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Signature verifications, by outcome (authentic, forged, failed).",
	}, []string{"outcome"})

	GatewayRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Latency of requests to the ARK node.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	Rebroadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rebroadcasts_total",
		Help:      "Best effort rebroadcasts to peers, by result.",
	}, []string{"result"})
)
