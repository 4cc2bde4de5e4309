package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameCasesOpened    = "cases_opened_total"
	MetricNameCardsDropped   = "cards_dropped_total"
	MetricNameOffersCreated  = "offers_created_total"
	MetricNameOffersAccepted = "offers_accepted_total"
	MetricNameClaimsRelayed  = "claims_relayed_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextCasesOpened    = "Total number of cases opened"
	HelpTextCardsDropped   = "Total number of cards dropped"
	HelpTextOffersCreated  = "Total number of transfer offers created"
	HelpTextOffersAccepted = "Total number of transfer offers accepted"
	HelpTextClaimsRelayed  = "Total number of claims delivered to the relay"
)

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelMode   = "mode"
	LabelRarity = "rarity"
)

// HTTPLatencyBuckets are the histogram buckets for request duration.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
