package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the bot.
// A nil receiver is a no-op so callers never branch on whether metrics are
// wired.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	updatesTotal           *prometheus.CounterVec
	callbackDuplicates     prometheus.Counter
	registrationsCompleted prometheus.Counter
	registrationsExpired   prometheus.Counter
	sendRetries            prometheus.Counter
	sheetReadDuration      prometheus.Histogram
}

// NewMetricsService registers the bot's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	updatesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Total inbound commands and callbacks handled, by kind",
	}, []string{"kind"})

	callbackDuplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_callback_duplicates_total",
		Help: "Callback events short-circuited as already processed",
	})

	registrationsCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_registrations_completed_total",
		Help: "Registrations promoted into an enrollment and pin record",
	})

	registrationsExpired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_registrations_expired_total",
		Help: "Pending registrations discarded by timeout",
	})

	sendRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_retries_total",
		Help: "Outbound deliveries that needed a retry",
	})

	sheetReadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_sheet_read_seconds",
		Help:    "Duration of workbook reads in seconds",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(updatesTotal, callbackDuplicates, registrationsCompleted,
		registrationsExpired, sendRetries, sheetReadDuration)

	return &MetricsService{
		registry:               registry,
		handler:                promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		updatesTotal:           updatesTotal,
		callbackDuplicates:     callbackDuplicates,
		registrationsCompleted: registrationsCompleted,
		registrationsExpired:   registrationsExpired,
		sendRetries:            sendRetries,
		sheetReadDuration:      sheetReadDuration,
	}
}

// Handler exposes the registry for the ops server's /metrics route.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return m.handler
}

// UpdateHandled counts one inbound command or callback.
func (m *MetricsService) UpdateHandled(kind string) {
	if m == nil {
		return
	}
	m.updatesTotal.WithLabelValues(kind).Inc()
}

// CallbackDuplicate counts one deduplicated callback delivery.
func (m *MetricsService) CallbackDuplicate() {
	if m == nil {
		return
	}
	m.callbackDuplicates.Inc()
}

// RegistrationCompleted counts one completed registration.
func (m *MetricsService) RegistrationCompleted() {
	if m == nil {
		return
	}
	m.registrationsCompleted.Inc()
}

// RegistrationExpired counts one timed-out registration.
func (m *MetricsService) RegistrationExpired() {
	if m == nil {
		return
	}
	m.registrationsExpired.Inc()
}

// SendRetry counts one outbound delivery retry.
func (m *MetricsService) SendRetry() {
	if m == nil {
		return
	}
	m.sendRetries.Inc()
}

// ObserveSheetRead records the duration of one workbook read.
func (m *MetricsService) ObserveSheetRead(d time.Duration) {
	if m == nil {
		return
	}
	m.sheetReadDuration.Observe(d.Seconds())
}
