package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rusunawa_portal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rusunawa_portal",
			Name:      "backend_calls_total",
			Help:      "Calls to the rusunawa backend API by operation and result.",
		},
		[]string{"operation", "result"},
	)

	eligibilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rusunawa_portal",
			Name:      "eligibility_checks_total",
			Help:      "Booking eligibility checks by outcome.",
		},
		[]string{"outcome"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rusunawa_portal",
			Name:      "booking_submissions_total",
			Help:      "Booking submissions by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, backendCalls, eligibilityChecks, submissions)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBackend increments the backend-call counter. Result is "ok" or "error".
func IncBackend(operation, result string) {
	backendCalls.WithLabelValues(operation, result).Inc()
}

// IncEligibility increments the eligibility-check counter per outcome.
func IncEligibility(outcome string) {
	eligibilityChecks.WithLabelValues(outcome).Inc()
}

// IncSubmission increments the booking-submission counter per result.
func IncSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}
