package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"atelier/internal/llm"
	"atelier/internal/usage"
)

var (
	generationsDesc = prometheus.NewDesc(
		"atelier_generations_total",
		"Total accepted generations by language and activity",
		[]string{"language", "activity"},
		nil,
	)

	llmRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_llm_requests_total",
		Help: "LLM provider calls by model and outcome",
	}, []string{"model", "outcome"})

	llmDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atelier_llm_request_duration_seconds",
		Help:    "LLM provider call latency",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"model"})

	llmTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_llm_tokens_total",
		Help: "Tokens consumed by direction",
	}, []string{"model", "direction"})

	quotaRefusals = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atelier_quota_refusals_total",
		Help: "Generations refused because the user reached the attempt limit",
	})
)

// scrapeTimeout bounds how long a scrape may spend reading the ledger.
const scrapeTimeout = 5 * time.Second

// GenerationCollector is a custom Prometheus collector that reads the usage
// ledger on each scrape.
type GenerationCollector struct {
	ledger usage.Ledger
}

// NewGenerationCollector returns a collector over ledger.
func NewGenerationCollector(ledger usage.Ledger) *GenerationCollector {
	return &GenerationCollector{ledger: ledger}
}

// Describe sends the metric descriptor to the channel.
func (c *GenerationCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- generationsDesc
}

// Collect reads every ledger record and emits the counts per language and activity.
func (c *GenerationCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	records, err := c.ledger.All(ctx)
	if err != nil {
		slog.Error("failed to collect generation metrics", "error", err)
		return
	}

	type key struct{ language, activity string }
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{string(r.Language), string(r.Activity)}]++
	}
	for k, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			generationsDesc,
			prometheus.CounterValue,
			float64(n),
			k.language,
			k.activity,
		)
	}
}

// Recorder implements llm.Observer on the package counters.
type Recorder struct{}

var _ llm.Observer = Recorder{}

// ObserveLLMRequest records one provider call.
func (Recorder) ObserveLLMRequest(ev llm.RequestEvent) {
	outcome := "success"
	switch {
	case ev.RateLimited:
		outcome = "rate_limited"
	case !ev.Success:
		outcome = "error"
	}
	llmRequests.WithLabelValues(ev.Model, outcome).Inc()
	llmDuration.WithLabelValues(ev.Model).Observe(ev.Duration.Seconds())
	if ev.InputTokens > 0 {
		llmTokens.WithLabelValues(ev.Model, "input").Add(float64(ev.InputTokens))
	}
	if ev.OutputTokens > 0 {
		llmTokens.WithLabelValues(ev.Model, "output").Add(float64(ev.OutputTokens))
	}
}

var initOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init(ledger usage.Ledger) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			NewGenerationCollector(ledger),
			llmRequests,
			llmDuration,
			llmTokens,
			quotaRefusals,
		)
	})
}

// RecordQuotaRefusal counts a generation refused by the attempt limit.
func RecordQuotaRefusal() {
	quotaRefusals.Inc()
}
