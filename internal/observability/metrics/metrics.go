package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the conversation pipeline.
type ChatMetrics struct {
	outcomesTotal     *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	webhookTotal      *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jaredgpt",
			Subsystem: "chat",
			Name:      "outcomes_total",
			Help:      "Terminal outcomes of handled messages",
		}, []string{"command", "outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jaredgpt",
			Subsystem: "chat",
			Name:      "completion_latency_seconds",
			Help:      "Latency of completion service calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 90},
		}, []string{"kind"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jaredgpt",
			Subsystem: "telegram",
			Name:      "webhook_total",
			Help:      "Inbound Telegram webhook updates",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomesTotal, m.completionLatency, m.webhookTotal)
	return m
}

func (m *ChatMetrics) ObserveOutcome(command, outcome string) {
	if m == nil {
		return
	}
	m.outcomesTotal.WithLabelValues(command, outcome).Inc()
}

func (m *ChatMetrics) ObserveCompletion(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(kind).Observe(seconds)
}

func (m *ChatMetrics) ObserveWebhook(status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(status).Inc()
}
