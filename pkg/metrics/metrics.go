package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service metrics on a private prometheus registry.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg       *prometheus.Registry
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	OrdersCreated   prometheus.Counter
	StatusChanges   *prometheus.CounterVec
	TotalMismatches prometheus.Counter

	OutboxParked    prometheus.Counter
	OutboxDelivered prometheus.Counter
	OutboxFailed    prometheus.Counter
}

func NewRegistry(namespace string) *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders persisted.",
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Status transitions by target status.",
	}, []string{"status"})
	totalMismatches := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_total_mismatches_total",
		Help:      "Orders whose submitted total differs from the item prices.",
	})
	outboxParked := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_parked_total",
		Help:      "Events parked in the outbox after a failed send.",
	})
	outboxDelivered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_delivered_total",
		Help:      "Outbox events delivered on retry.",
	})
	outboxFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_retry_failures_total",
		Help:      "Failed outbox retries.",
	})

	r.MustRegister(requests, latency, ordersCreated, statusChanges, totalMismatches,
		outboxParked, outboxDelivered, outboxFailed)

	return &Registry{
		reg:             r,
		Requests:        requests,
		LatencyMS:       latency,
		OrdersCreated:   ordersCreated,
		StatusChanges:   statusChanges,
		TotalMismatches: totalMismatches,
		OutboxParked:    outboxParked,
		OutboxDelivered: outboxDelivered,
		OutboxFailed:    outboxFailed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

func (r *Registry) IncOrdersCreated() {
	if r == nil {
		return
	}
	r.OrdersCreated.Inc()
}

func (r *Registry) IncStatusChange(status string) {
	if r == nil {
		return
	}
	r.StatusChanges.WithLabelValues(status).Inc()
}

func (r *Registry) IncTotalMismatch() {
	if r == nil {
		return
	}
	r.TotalMismatches.Inc()
}

func (r *Registry) IncOutboxParked() {
	if r == nil {
		return
	}
	r.OutboxParked.Inc()
}

func (r *Registry) IncOutboxDelivered() {
	if r == nil {
		return
	}
	r.OutboxDelivered.Inc()
}

func (r *Registry) IncOutboxFailed() {
	if r == nil {
		return
	}
	r.OutboxFailed.Inc()
}

// Middleware records request count and latency by chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.Requests.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
		r.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}
