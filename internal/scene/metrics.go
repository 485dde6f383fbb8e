package scene

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
)

const (
	outcomeModel    = "model"
	outcomeFallback = "fallback"
)

// Metrics records scene request outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

// NewMetrics registers the scene collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venueops",
			Subsystem: "scene",
			Name:      "requests_total",
			Help:      "Scene requests by outcome and failure category.",
		}, []string{"outcome", "category"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "venueops",
			Subsystem: "scene",
			Name:      "request_duration_seconds",
			Help:      "Wall time of scene requests including fallback synthesis.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"outcome"}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venueops",
			Subsystem: "scene",
			Name:      "tokens_total",
			Help:      "Tokens reported by the text model.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(out Output, elapsed time.Duration, usage *openai.Usage) {
	if m == nil {
		return
	}
	outcome := outcomeModel
	if out.Fallback() {
		outcome = outcomeFallback
	}
	m.requests.WithLabelValues(outcome, string(out.Failure)).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if usage != nil {
		m.tokens.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
		m.tokens.WithLabelValues("completion").Add(float64(usage.CompletionTokens))
	}
}
