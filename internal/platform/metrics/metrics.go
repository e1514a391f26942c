package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubmissionsCreated    prometheus.Counter
	SubmissionsCompleted  prometheus.Counter
	VerificationsSent     prometheus.Counter
	VerificationsVerified prometheus.Counter
	PipelineFailures      *prometheus.CounterVec
	PipelineDuration      prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "applyform_submissions_created_total",
			Help: "Total number of submission sessions created",
		}),
		SubmissionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "applyform_submissions_completed_total",
			Help: "Total number of submissions that reached Completed",
		}),
		VerificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "applyform_verifications_sent_total",
			Help: "Total number of verification tokens issued and sent",
		}),
		VerificationsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "applyform_verifications_verified_total",
			Help: "Total number of successful email verifications",
		}),
		PipelineFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "applyform_pipeline_failures_total",
			Help: "Pipeline step failures by step (render, upload, notify)",
		}, []string{"step"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "applyform_pipeline_duration_seconds",
			Help:    "Wall time of the render-upload-notify pipeline",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncSubmissionsCreated()   { m.SubmissionsCreated.Inc() }
func (m *Metrics) IncSubmissionsCompleted() { m.SubmissionsCompleted.Inc() }
func (m *Metrics) IncVerificationsSent()    { m.VerificationsSent.Inc() }
func (m *Metrics) IncVerificationsOK()      { m.VerificationsVerified.Inc() }

func (m *Metrics) IncPipelineFailure(step string) {
	m.PipelineFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) ObservePipelineDuration(seconds float64) {
	m.PipelineDuration.Observe(seconds)
}
