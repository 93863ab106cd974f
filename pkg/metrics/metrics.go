package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal    *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingAttempts  *prometheus.CounterVec
	BookingLockWait  *prometheus.HistogramVec
	ScheduleCacheOps *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "path"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{"database"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{"database"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{"database"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{"database"}),

		BookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_attempts_total",
			Help:        "Booking attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		BookingLockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "booking_lock_wait_seconds",
			Help:        "Time spent waiting for the professional/date booking lock",
			Buckets:     []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
			ConstLabels: labels,
		}, []string{"acquired"}),
		ScheduleCacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "schedule_cache_operations_total",
			Help:        "Schedule template cache lookups",
			ConstLabels: labels,
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_transitions_total",
			Help:        "Appointment status transitions",
			ConstLabels: labels,
		}, []string{"to"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingAttempts,
		m.BookingLockWait,
		m.ScheduleCacheOps,
		m.Transitions,
	)

	return m
}

// ObserveBooking учитывает исход бронирования. Безопасен для nil
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingAttempts.WithLabelValues(outcome).Inc()
}

// ObserveLockWait учитывает время ожидания блокировки. Безопасен для nil
func (m *Metrics) ObserveLockWait(d time.Duration, acquired bool) {
	if m == nil {
		return
	}
	label := "true"
	if !acquired {
		label = "false"
	}
	m.BookingLockWait.WithLabelValues(label).Observe(d.Seconds())
}

// ObserveCache учитывает попадание или промах кэша расписаний. Безопасен для nil
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ScheduleCacheOps.WithLabelValues("hit").Inc()
		return
	}
	m.ScheduleCacheOps.WithLabelValues("miss").Inc()
}

// ObserveTransition учитывает смену статуса приема. Безопасен для nil
func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}
