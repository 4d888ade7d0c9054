package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	AvailabilityRequestsTotal *prometheus.CounterVec
	AvailableSlotsReturned    prometheus.Histogram
	PlacementOverflowsTotal   prometheus.Counter

	BookingWritesTotal *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики
// В production передается prometheus.DefaultRegisterer, в тестах - prometheus.NewRegistry()
func New(serviceName string, registerer prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"state"}),

		AvailabilityRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_requests_total",
			Help:        "Total number of availability computations by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		// Без label точки: число точек не ограничено, разбивка по точкам есть в логах
		AvailableSlotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "availability_slots_returned",
			Help:        "Number of bookable slots returned per computation",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 24, 32, 48},
		}),

		PlacementOverflowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "placement_overflows_total",
			Help:        "Existing bookings that could not be placed into any bay during replay",
			ConstLabels: constLabels,
		}),

		BookingWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_writes_total",
			Help:        "Booking write operations by kind and outcome",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notifications sent by channel and outcome",
			ConstLabels: constLabels,
		}, []string{"channel", "outcome"}),
	}

	registerer.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.AvailabilityRequestsTotal,
		m.AvailableSlotsReturned,
		m.PlacementOverflowsTotal,
		m.BookingWritesTotal,
		m.NotificationsTotal,
	)

	return m
}

// ObserveAvailability фиксирует результат вычисления доступных слотов
// Безопасно вызывать на nil *Metrics (метрики выключены)
func (m *Metrics) ObserveAvailability(outcome string, slots, overflows int) {
	if m == nil {
		return
	}
	m.AvailabilityRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.AvailableSlotsReturned.Observe(float64(slots))
	if overflows > 0 {
		m.PlacementOverflowsTotal.Add(float64(overflows))
	}
}

// ObserveBookingWrite фиксирует операцию записи бронирования
func (m *Metrics) ObserveBookingWrite(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingWritesTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveNotification фиксирует отправку уведомления
func (m *Metrics) ObserveNotification(channel string, ok bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.NotificationsTotal.WithLabelValues(channel, outcome).Inc()
}
