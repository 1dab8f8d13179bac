package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Registration workflow metrics
	PatientsRegistered   prometheus.Counter
	PatientWriteFallback prometheus.Counter
	VisitAttachFailures  *prometheus.CounterVec

	// Event and auth metrics
	EventsPublished *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
}

// New creates all application metrics and registers them on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "status"}),

		PatientsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "registered_total",
			Help:      "Total number of patients registered",
		}),
		PatientWriteFallback: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "write_fallbacks_total",
			Help:      "Patient writes that needed the second write strategy",
		}),
		VisitAttachFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "visit_attach_failures_total",
			Help:      "Visits that could not be attached during registration",
		}, []string{"reason"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the broker",
		}, []string{"type", "status"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) PatientRegistered() {
	if m == nil {
		return
	}
	m.PatientsRegistered.Inc()
}

func (m *Metrics) WriteFallback() {
	if m == nil {
		return
	}
	m.PatientWriteFallback.Inc()
}

func (m *Metrics) VisitAttachFailed(reason string) {
	if m == nil {
		return
	}
	m.VisitAttachFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) EventPublished(eventType, status string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}
