package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the engagement pipeline.
type PipelineMetrics struct {
	inboundTotal     *prometheus.CounterVec
	detectionsTotal  *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	callbacksTotal   *prometheus.CounterVec
	pipelineLatency  prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engagement",
			Name:      "inbound_messages_total",
			Help:      "Total inbound messages processed",
		}, []string{"outcome"}),
		detectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engagement",
			Name:      "detections_total",
			Help:      "Scam detection verdicts by method",
		}, []string{"method", "verdict"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engagement",
			Name:      "provider_failures_total",
			Help:      "Text-generation provider failures by pipeline stage",
		}, []string{"stage"}),
		callbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "report",
			Name:      "callbacks_total",
			Help:      "Intelligence callback deliveries by status",
		}, []string{"status"}),
		pipelineLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scambait",
			Subsystem: "engagement",
			Name:      "pipeline_latency_seconds",
			Help:      "Latency of the detect/extract/respond pipeline",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.detectionsTotal, m.providerFailures, m.callbacksTotal, m.pipelineLatency)
	return m
}

func (m *PipelineMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveDetection(method string, verdict bool) {
	if m == nil {
		return
	}
	label := "clean"
	if verdict {
		label = "scam"
	}
	m.detectionsTotal.WithLabelValues(method, label).Inc()
}

func (m *PipelineMetrics) ObserveProviderFailure(stage string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(stage).Inc()
}

func (m *PipelineMetrics) ObserveCallback(status string) {
	if m == nil {
		return
	}
	m.callbacksTotal.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) ObservePipelineLatency(seconds float64) {
	if m == nil {
		return
	}
	m.pipelineLatency.Observe(seconds)
}
