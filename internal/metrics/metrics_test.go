package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"atelier/internal/llm"
	"atelier/internal/models"
	"atelier/internal/usage"
)

func TestGenerationCollector(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	ledger := usage.NewMemoryLedger(
		models.UsageRecord{Timestamp: ts, User: "a", Language: models.LangFR, Activity: models.ActivityStory, Attempts: 1},
		models.UsageRecord{Timestamp: ts, User: "a", Language: models.LangFR, Activity: models.ActivityStory, Attempts: 2},
		models.UsageRecord{Timestamp: ts, User: "b", Language: models.LangEN, Activity: models.ActivityPoem, Attempts: 1},
	)

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(NewGenerationCollector(ledger))

	expected := `
# HELP atelier_generations_total Total accepted generations by language and activity
# TYPE atelier_generations_total counter
atelier_generations_total{activity="poem",language="EN"} 1
atelier_generations_total{activity="story",language="FR"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "atelier_generations_total"); err != nil {
		t.Error(err)
	}

	ledger.Append(context.Background(), models.UsageRecord{Timestamp: ts, User: "c", Language: models.LangFR, Activity: models.ActivityStory, Attempts: 1})
	if n := testutil.CollectAndCount(NewGenerationCollector(ledger)); n != 2 {
		t.Errorf("CollectAndCount() = %d, want 2 series", n)
	}
}

func TestRecorder(t *testing.T) {
	r := Recorder{}
	before := testutil.ToFloat64(llmRequests.WithLabelValues("test-model", "rate_limited"))

	r.ObserveLLMRequest(llm.RequestEvent{Model: "test-model", Duration: time.Second, RateLimited: true})
	r.ObserveLLMRequest(llm.RequestEvent{Model: "test-model", Duration: time.Second, Success: true, InputTokens: 10, OutputTokens: 20})

	if got := testutil.ToFloat64(llmRequests.WithLabelValues("test-model", "rate_limited")); got != before+1 {
		t.Errorf("rate_limited = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(llmTokens.WithLabelValues("test-model", "output")); got < 20 {
		t.Errorf("output tokens = %v, want >= 20", got)
	}
}

func TestRecordQuotaRefusal(t *testing.T) {
	before := testutil.ToFloat64(quotaRefusals)
	RecordQuotaRefusal()
	if got := testutil.ToFloat64(quotaRefusals); got != before+1 {
		t.Errorf("quota refusals = %v, want %v", got, before+1)
	}
}
