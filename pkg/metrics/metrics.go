package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      prometheus.Gauge
	dbPoolInUse     prometheus.Gauge
	dbPoolIdle      prometheus.Gauge

	bookingsCreatedTotal prometheus.Counter
	slotConflictsTotal   prometheus.Counter
	lockTimeoutsTotal    prometheus.Counter
	expiredBookingsTotal prometheus.Counter
	completedSweepTotal  prometheus.Counter
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "result"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_open_connections", Help: "Open connections in the pool", ConstLabels: labels,
		}),
		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections", Help: "Connections currently in use", ConstLabels: labels,
		}),
		dbPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections", Help: "Idle connections in the pool", ConstLabels: labels,
		}),

		bookingsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total", Help: "Successfully created bookings", ConstLabels: labels,
		}),
		slotConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total", Help: "Reservation attempts rejected due to an occupied slot", ConstLabels: labels,
		}),
		lockTimeoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "booking_lock_timeouts_total", Help: "Reservation attempts that timed out waiting for the court lock", ConstLabels: labels,
		}),
		expiredBookingsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_expired_total", Help: "Pending bookings cancelled by the expiry sweep", ConstLabels: labels,
		}),
		completedSweepTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_completed_total", Help: "Confirmed bookings marked completed by the sweep", ConstLabels: labels,
		}),
	}
}

// ObserveHTTPRequest учитывает HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, result).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauges connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbPoolOpen.Set(float64(stats.OpenConnections))
	m.dbPoolInUse.Set(float64(stats.InUse))
	m.dbPoolIdle.Set(float64(stats.Idle))
}

// IncBookingCreated учитывает успешное создание бронирования
func (m *Metrics) IncBookingCreated() { m.bookingsCreatedTotal.Inc() }

// IncSlotConflict учитывает отказ из-за занятого слота
func (m *Metrics) IncSlotConflict() { m.slotConflictsTotal.Inc() }

// IncLockTimeout учитывает таймаут ожидания блокировки корта
func (m *Metrics) IncLockTimeout() { m.lockTimeoutsTotal.Inc() }

// AddExpiredBookings учитывает результат sweep'а протухших pending бронирований
func (m *Metrics) AddExpiredBookings(n int) { m.expiredBookingsTotal.Add(float64(n)) }

// AddCompletedBookings учитывает результат sweep'а завершенных бронирований
func (m *Metrics) AddCompletedBookings(n int) { m.completedSweepTotal.Add(float64(n)) }
