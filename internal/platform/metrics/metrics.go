package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FormsSubmitted      prometheus.Counter
	FormsMatched        *prometheus.CounterVec
	FormsUnmatched      prometheus.Counter
	FieldsClassified    *prometheus.CounterVec
	TemplatesRegistered prometheus.Counter
	EndpointLatency     *prometheus.HistogramVec
}

// New creates all metrics and registers them on reg.
// Pass prometheus.DefaultRegisterer in main; tests use prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FormsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "formdetect_forms_submitted_total",
			Help: "Total number of form submissions received",
		}),
		FormsMatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formdetect_forms_matched_total",
			Help: "Form submissions matched to a registered template",
		}, []string{"template"}),
		FormsUnmatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "formdetect_forms_unmatched_total",
			Help: "Form submissions that matched no registered template",
		}),
		FieldsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formdetect_fields_classified_total",
			Help: "Classified form fields by inferred type",
		}, []string{"type"}),
		TemplatesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "formdetect_templates_registered_total",
			Help: "Templates added to the catalog",
		}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formdetect_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records one request duration for an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// MarkSubmission counts one received form submission.
func (m *Metrics) MarkSubmission() {
	if m == nil {
		return
	}
	m.FormsSubmitted.Inc()
}

// MarkMatch counts a submission matched to template.
func (m *Metrics) MarkMatch(template string) {
	if m == nil {
		return
	}
	m.FormsMatched.WithLabelValues(template).Inc()
}

// MarkMiss counts a submission that matched no template.
func (m *Metrics) MarkMiss() {
	if m == nil {
		return
	}
	m.FormsUnmatched.Inc()
}

// MarkField counts one classified field by its inferred type.
func (m *Metrics) MarkField(fieldType string) {
	if m == nil {
		return
	}
	m.FieldsClassified.WithLabelValues(fieldType).Inc()
}

// MarkRegistration counts one template registration.
func (m *Metrics) MarkRegistration() {
	if m == nil {
		return
	}
	m.TemplatesRegistered.Inc()
}
