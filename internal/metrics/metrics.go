package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors the API process exposes.
// Construct once in main and inject; never register globals from packages.
type Metrics struct {
	Qualifications *prometheus.CounterVec
	LLMRequests    *prometheus.CounterVec
	LLMLatency     prometheus.Histogram
	LeadsCreated   prometheus.Counter
	CallsPlaced    *prometheus.CounterVec
	WebhooksSeen   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Qualifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_qualifications_total",
			Help: "Qualifications produced, labeled by the tier that produced the result.",
		}, []string{"tier"}),
		LLMRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_llm_requests_total",
			Help: "Language-model completion attempts by outcome.",
		}, []string{"status"}),
		LLMLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadpulse_llm_request_seconds",
			Help:    "Latency of language-model completion attempts.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
		LeadsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadpulse_leads_created_total",
			Help: "Leads created from form submissions.",
		}),
		CallsPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_calls_placed_total",
			Help: "Outbound call placement attempts by outcome.",
		}, []string{"status"}),
		WebhooksSeen: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_webhooks_total",
			Help: "Voice-provider webhook deliveries by disposition.",
		}, []string{"disposition"}),
	}
}

// QualificationDone records which tier produced a qualification result.
func (m *Metrics) QualificationDone(tier string) {
	m.Qualifications.WithLabelValues(tier).Inc()
}

// ObserveLLMRequest records one completion attempt.
func (m *Metrics) ObserveLLMRequest(d time.Duration, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	m.LLMRequests.WithLabelValues(status).Inc()
	m.LLMLatency.Observe(d.Seconds())
}
