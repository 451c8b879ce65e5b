package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge

	LedgerOperationsTotal      *prometheus.CounterVec
	LedgerConflictRetriesTotal *prometheus.CounterVec
	LedgerInvariantViolations  *prometheus.CounterVec
	PaymentsTotal              *prometheus.CounterVec
}

// New создает и регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),

		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),

		DBIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),

		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),

		LedgerOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_operations_total",
			Help:        "Booking ledger operations by action and result",
			ConstLabels: constLabels,
		}, []string{"action", "result"}),

		LedgerConflictRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_conflict_retries_total",
			Help:        "Ledger edits re-run after a concurrent modification of the same booking",
			ConstLabels: constLabels,
		}, []string{"action"}),

		LedgerInvariantViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_invariant_violations_total",
			Help:        "Booking totals that would have become negative",
			ConstLabels: constLabels,
		}, []string{"action"}),

		PaymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_total",
			Help:        "Payment status transitions by provider",
			ConstLabels: constLabels,
		}, []string{"provider", "status"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.LedgerOperationsTotal,
		m.LedgerConflictRetriesTotal,
		m.LedgerInvariantViolations,
		m.PaymentsTotal,
	)

	return m
}

// LedgerOperation учитывает завершённую операцию над позициями бронирования
func (m *Metrics) LedgerOperation(action, result string) {
	if m == nil {
		return
	}
	m.LedgerOperationsTotal.WithLabelValues(action, result).Inc()
}

// LedgerConflictRetry учитывает повтор операции после конфликта версий
func (m *Metrics) LedgerConflictRetry(action string) {
	if m == nil {
		return
	}
	m.LedgerConflictRetriesTotal.WithLabelValues(action).Inc()
}

// LedgerInvariantViolation учитывает сумму бронирования, обнулённую из отрицательной
func (m *Metrics) LedgerInvariantViolation(action string) {
	if m == nil {
		return
	}
	m.LedgerInvariantViolations.WithLabelValues(action).Inc()
}

// PaymentTransition учитывает смену статуса платежа
func (m *Metrics) PaymentTransition(provider, status string) {
	if m == nil {
		return
	}
	m.PaymentsTotal.WithLabelValues(provider, status).Inc()
}
