package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetlease_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetlease_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	paymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetlease_payments_recorded_total",
		Help: "Count of payment operations by result",
	}, []string{"result"})

	contractsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetlease_contracts",
		Help: "Number of contracts by status (logical state)",
	}, []string{"status"})

	smsDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetlease_sms_deliveries_total",
		Help: "Count of SMS gateway calls by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObservePayment increments the payment counter for the given result.
func ObservePayment(result string) {
	paymentsRecorded.WithLabelValues(result).Inc()
}

// SetContracts sets the contract gauge for a status to a specific count.
func SetContracts(status string, count int) {
	if count < 0 {
		count = 0
	}
	contractsByStatus.WithLabelValues(status).Set(float64(count))
}

// ObserveSMS increments the SMS delivery counter for the given result.
func ObserveSMS(result string) {
	smsDeliveries.WithLabelValues(result).Inc()
}
