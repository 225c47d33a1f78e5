package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	ordersConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_confirmed_total",
			Help: "Carts successfully confirmed into orders.",
		},
	)

	stockRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_stock_rejections_total",
			Help: "Requests refused because a line asked for more than the stock.",
		},
		[]string{"stage"},
	)

	cartItemsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_cart_items_added_total",
			Help: "Cart lines created or increased.",
		},
	)

	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"result"},
	)
)

// Stages reported by StockRejected.
const (
	StageCart  = "cart"
	StageOrder = "order"
)

func OrderConfirmed() {
	ordersConfirmedTotal.Inc()
}

func StockRejected(stage string) {
	stockRejectionsTotal.WithLabelValues(stage).Inc()
}

func CartItemAdded() {
	cartItemsAddedTotal.Inc()
}

// LoginAttempt records "success", "invalid" or "throttled".
func LoginAttempt(result string) {
	loginAttemptsTotal.WithLabelValues(result).Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		// the mux sets r.Pattern once routing is done; fall back to the raw path
		pathPattern := r.URL.Path

		defer func() {

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)
			if r.Pattern != "" {
				pathPattern = r.Pattern
			}

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
