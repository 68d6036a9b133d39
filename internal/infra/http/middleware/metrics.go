package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_converted_total",
			Help: "Total number of leads converted into a contact and deal",
		},
	)

	dealStageMoves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_deal_stage_moves_total",
			Help: "Total number of deal stage transitions",
		},
	)

	workflowFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_workflow_failures_total",
			Help: "Total number of rolled back pipeline workflows",
		},
		[]string{"workflow"},
	)

	outboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_outbound_messages_total",
			Help: "Total number of outbound ticket messages by delivery result",
		},
		[]string{"channel", "status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics labels requests by route pattern, so /v1/leads/7 and /v1/leads/8
// share one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadConverted() {
	leadsConverted.Inc()
}

func RecordDealStageMove() {
	dealStageMoves.Inc()
}

func RecordWorkflowFailure(workflow string) {
	workflowFailures.WithLabelValues(workflow).Inc()
}

func RecordOutboundMessage(channel, status string) {
	outboundMessages.WithLabelValues(channel, status).Inc()
}
