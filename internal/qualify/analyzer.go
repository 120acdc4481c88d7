package qualify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"leadpulse/internal/llm"
	"leadpulse/internal/metrics"
)

// ProviderSource yields a configured language-model client, or reports that
// none is available. The credential is runtime-settable (admin endpoint), so
// the analyzer asks on every request instead of holding a client.
type ProviderSource interface {
	Provider(ctx context.Context) (llm.Provider, bool)
}

// Tier labels recorded per qualification for observability.
const (
	TierColdSignal   = "cold_signal"
	TierNoTranscript = "no_transcript"
	TierLLM          = "llm"
	TierFallback     = "fallback"
)

// Analyzer sequences the qualification tiers: cold-signal check, LLM
// extraction, sanitization, heuristic fallback.
//
// Qualify never returns an error. Qualification is best-effort enrichment
// and must not block the lead-tracking flow; every failure mode degrades to
// a lower tier and still yields a complete Result.
type Analyzer struct {
	providers ProviderSource
	log       *slog.Logger
	metrics   *metrics.Metrics
}

func NewAnalyzer(providers ProviderSource, log *slog.Logger, m *metrics.Metrics) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{providers: providers, log: log.With("component", "qualify"), metrics: m}
}

// Qualify converts one call outcome into a qualification record.
// Safe for concurrent use; each invocation is independent.
func (a *Analyzer) Qualify(ctx context.Context, call CallContext) Result {
	if res, ok := DetectColdSignal(call); ok {
		a.observe(TierColdSignal)
		a.log.Debug("cold signal short-circuit", "score", res.Score, "ended_reason", call.EndedReason)
		return res
	}

	provider, configured := a.providerFor(ctx)
	if !configured {
		a.observe(TierFallback)
		a.log.Debug("llm provider not configured, using heuristic fallback")
		return HeuristicFallback(call)
	}

	if strings.TrimSpace(call.Transcript) == "" {
		a.observe(TierNoTranscript)
		return shortCircuitResult("No conversation recorded", 10)
	}

	raw, err := a.extract(ctx, provider, call)
	if err != nil {
		a.observe(TierFallback)
		a.log.Warn("llm extraction failed, using heuristic fallback", "err", err)
		return HeuristicFallback(call)
	}

	res, ok := ParseResponse(raw)
	if !ok {
		a.observe(TierFallback)
		a.log.Warn("llm output unparseable, using heuristic fallback", "output_len", len(raw))
		return HeuristicFallback(call)
	}

	a.observe(TierLLM)
	return res
}

func (a *Analyzer) providerFor(ctx context.Context) (llm.Provider, bool) {
	if a.providers == nil {
		return nil, false
	}
	return a.providers.Provider(ctx)
}

// extract performs the single model attempt. No retries here: a failed
// attempt routes to the fallback tier, and any retry happens at a much
// higher level (a manual requalify).
func (a *Analyzer) extract(ctx context.Context, provider llm.Provider, call CallContext) (string, error) {
	start := time.Now()
	resp, err := provider.Complete(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   BuildPrompt(call),
	})
	if a.metrics != nil {
		a.metrics.ObserveLLMRequest(time.Since(start), err == nil)
	}
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (a *Analyzer) observe(tier string) {
	if a.metrics != nil {
		a.metrics.QualificationDone(tier)
	}
}
