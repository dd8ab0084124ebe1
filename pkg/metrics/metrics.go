package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hotel_booking"

// Metrics owns its registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpLatency         *prometheus.HistogramVec
	bookingsCreated     prometheus.Counter
	cascadeDeletions    prometheus.Counter
	cascadeBookings     prometheus.Counter
	notificationsFailed *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		bookingsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "bookings_created_total", Help: "Bookings persisted."},
		),
		cascadeDeletions: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "hotel_cascade_deletions_total", Help: "Hotels deleted with their bookings."},
		),
		cascadeBookings: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "hotel_cascade_bookings_deleted_total", Help: "Bookings removed by hotel deletion."},
		),
		notificationsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "notifications_failed_total", Help: "Notification tasks that failed or were dropped."},
			[]string{"reason"}, // reason: error|dropped
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.bookingsCreated,
		m.cascadeDeletions,
		m.cascadeBookings,
		m.notificationsFailed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) HotelCascadeDeleted(bookings int64) {
	if m == nil {
		return
	}
	m.cascadeDeletions.Inc()
	m.cascadeBookings.Add(float64(bookings))
}

func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.notificationsFailed.WithLabelValues("error").Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.notificationsFailed.WithLabelValues("dropped").Inc()
}

// Instrument records count and latency for a route pattern. Using the pattern
// rather than the raw path keeps label cardinality bounded.
func (m *Metrics) Instrument(route string, next httprouter.Handle) httprouter.Handle {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r, ps)
		m.ObserveHTTP(route, r.Method, sw.status, time.Since(start))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
