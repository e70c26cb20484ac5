package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RequestEvent describes one completed call to a provider.
type RequestEvent struct {
	Model        string
	Duration     time.Duration
	Success      bool
	RateLimited  bool
	InputTokens  int
	OutputTokens int
}

// Observer receives an event for every provider call.
type Observer interface {
	ObserveLLMRequest(RequestEvent)
}

// InstrumentedProvider logs every call and reports it to an Observer.
type InstrumentedProvider struct {
	inner    Provider
	observer Observer
	logger   *slog.Logger
}

// WithInstrumentation wraps a Provider with logging and metrics. observer may be nil.
func WithInstrumentation(p Provider, observer Observer, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedProvider{inner: p, observer: observer, logger: logger}
}

func (i *InstrumentedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := i.inner.Generate(ctx, req)

	ev := RequestEvent{
		Model:    i.inner.ModelID(),
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}

	if err != nil {
		var rl *ErrRateLimit
		ev.RateLimited = errors.As(err, &rl)
		i.logger.Error("llm request failed",
			"model", ev.Model,
			"duration_ms", ev.Duration.Milliseconds(),
			"error", err,
		)
	} else {
		i.logger.Info("llm request",
			"model", ev.Model,
			"duration_ms", ev.Duration.Milliseconds(),
			"input_tokens", ev.InputTokens,
			"output_tokens", ev.OutputTokens,
			"stop_reason", resp.StopReason,
		)
	}

	if i.observer != nil {
		i.observer.ObserveLLMRequest(ev)
	}
	return resp, err
}

func (i *InstrumentedProvider) ModelID() string {
	return i.inner.ModelID()
}
