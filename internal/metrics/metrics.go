package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	CasesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCasesOpened,
			Help: HelpTextCasesOpened,
		},
		[]string{LabelMode},
	)

	CardsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCardsDropped,
			Help: HelpTextCardsDropped,
		},
		[]string{LabelRarity},
	)

	OffersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOffersCreated,
			Help: HelpTextOffersCreated,
		},
	)

	OffersAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOffersAccepted,
			Help: HelpTextOffersAccepted,
		},
	)

	ClaimsRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsRelayed,
			Help: HelpTextClaimsRelayed,
		},
	)
)
