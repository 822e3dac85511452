package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samamatroh_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "samamatroh_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "samamatroh_topups_total",
			Help: "Total number of committed admin top-ups",
		},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samamatroh_transfers_total",
			Help: "Total number of transfer attempts by outcome",
		},
		[]string{"status"},
	)

	ReversalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samamatroh_reversals_total",
			Help: "Total number of transaction reversals by outcome",
		},
		[]string{"status"},
	)

	NegativeBalanceReversalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "samamatroh_negative_balance_reversals_total",
			Help: "Reversals that left the receiver with a negative balance",
		},
	)

	ReservationOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samamatroh_reservation_operations_total",
			Help: "Total number of reservation operations by kind and outcome",
		},
		[]string{"operation", "status"},
	)

	UnitConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "samamatroh_unit_conflicts_total",
			Help: "Atomic units aborted on serialization or lock conflicts",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samamatroh_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "samamatroh_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

// Outcome labels shared by the money operations.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusConflict = "conflict"
	StatusFailed   = "failed"
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTopUp() {
	TopUpsTotal.Inc()
}

func RecordTransfer(status string) {
	TransfersTotal.WithLabelValues(status).Inc()
}

func RecordReversal(status string) {
	ReversalsTotal.WithLabelValues(status).Inc()
}

func RecordNegativeBalanceReversal() {
	NegativeBalanceReversalsTotal.Inc()
}

func RecordReservationOp(operation, status string) {
	ReservationOpsTotal.WithLabelValues(operation, status).Inc()
}

func RecordUnitConflict() {
	UnitConflictsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}
