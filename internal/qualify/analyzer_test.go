package qualify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"leadpulse/internal/llm"
)

type stubProvider struct {
	content string
	err     error
	calls   int

	lastRequest *llm.Request
}

func (p *stubProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	p.calls++
	p.lastRequest = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content, Model: "stub"}, nil
}

type stubSource struct {
	provider llm.Provider
}

func (s stubSource) Provider(ctx context.Context) (llm.Provider, bool) {
	if s.provider == nil {
		return nil, false
	}
	return s.provider, true
}

func newTestAnalyzer(provider llm.Provider) *Analyzer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalyzer(stubSource{provider: provider}, log, nil)
}

func TestQualifyColdSignalWinsOverProvider(t *testing.T) {
	provider := &stubProvider{content: `{"intent":"hot","qualificationScore":95}`}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(8),
		EndedReason:     EndedReasonCustomerEnded,
		Transcript:      "AI: Hello\nUser: bye",
	})

	if res.Intent != IntentCold || res.Score != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Motivation != "Call ended immediately - no engagement." {
		t.Fatalf("wrong rule fired: %q", res.Motivation)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called on a cold signal")
	}
}

func TestQualifyVoicemailWithNothingElse(t *testing.T) {
	a := newTestAnalyzer(nil)

	res := a.Qualify(context.Background(), CallContext{EndedReason: EndedReasonVoicemail})
	if res.Intent != IntentCold || res.Score != 15 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Motivation != "Could not reach - went to voicemail." {
		t.Fatalf("unexpected motivation: %q", res.Motivation)
	}
}

func TestQualifyEmptyTranscriptWithProvider(t *testing.T) {
	provider := &stubProvider{content: `{"intent":"hot","qualificationScore":95}`}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(240),
		EndedReason:     EndedReasonAssistantEnded,
		Transcript:      "",
	})

	if res.Intent != IntentCold || res.Score != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Motivation != "No conversation recorded" {
		t.Fatalf("unexpected motivation: %q", res.Motivation)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called without a transcript")
	}
}

func TestQualifyWellFormedModelOutputPassesThrough(t *testing.T) {
	provider := &stubProvider{content: `{
		"motivation": "Relocating, must sell fast",
		"timeline": "This quarter",
		"budget": "Standard commission is fine",
		"authority": "Sole decision maker",
		"pastExperience": "First time selling",
		"intent": "hot",
		"qualificationScore": 92
	}`}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(200),
		EndedReason:     EndedReasonCustomerEnded,
		Transcript:      "AI: Hello\nUser: I need to sell my house this quarter...",
	})

	if res.Intent != IntentHot || res.Score != 92 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Motivation != "Relocating, must sell fast" {
		t.Fatalf("unexpected motivation: %q", res.Motivation)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want exactly 1", provider.calls)
	}
	if provider.lastRequest == nil || !strings.Contains(provider.lastRequest.UserPrompt, "I need to sell my house") {
		t.Fatalf("prompt did not include the transcript")
	}
}

func TestQualifyProviderErrorFallsBack(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection reset")}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(200),
		Transcript:      "AI: Hello\nUser: I'm interested, tell me more",
	})

	// Heuristic: base 30, +15 long call, +5 interested, +5 tell me more.
	if res.Score != 55 || res.Intent != IntentWarm {
		t.Fatalf("unexpected fallback result: %+v", res)
	}
	if res.Motivation != "Analysis performed without AI - limited data available" {
		t.Fatalf("unexpected motivation: %q", res.Motivation)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want exactly 1 (no retries)", provider.calls)
	}
}

func TestQualifyFencedOutputClamped(t *testing.T) {
	provider := &stubProvider{content: "Sure! Here's the analysis: ```json\n{\"intent\":\"warm\",\"qualificationScore\":150}\n```"}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(120),
		Transcript:      "AI: Hello\nUser: Hi there",
	})

	if res.Intent != IntentWarm || res.Score != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQualifyUnparseableOutputFallsBack(t *testing.T) {
	provider := &stubProvider{content: "The lead seemed warm to me."}
	a := newTestAnalyzer(provider)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(90),
		Transcript:      "AI: Hello\nUser: Hi",
	})

	if res.Motivation != "Analysis performed without AI - limited data available" {
		t.Fatalf("expected heuristic fallback, got %+v", res)
	}
}

func TestQualifyUnconfiguredProviderFallsBack(t *testing.T) {
	a := newTestAnalyzer(nil)

	res := a.Qualify(context.Background(), CallContext{
		DurationSeconds: intPtr(200),
		Transcript:      "AI: Hello\nUser: I'm interested",
	})

	if res.Motivation != "Analysis performed without AI - limited data available" {
		t.Fatalf("expected heuristic fallback, got %+v", res)
	}
}

func TestQualifyNeverReturnsInvalidResult(t *testing.T) {
	providers := []llm.Provider{
		nil,
		&stubProvider{err: errors.New("boom")},
		&stubProvider{content: "garbage"},
		&stubProvider{content: `{"intent":"sizzling","qualificationScore":"NaN"}`},
		&stubProvider{content: `{"intent":"hot","qualificationScore":92}`},
	}
	calls := []CallContext{
		{},
		{DurationSeconds: intPtr(5)},
		{EndedReason: EndedReasonSilenceTimeout},
		{DurationSeconds: intPtr(300), Transcript: "AI: Hello\nUser: Hi"},
		{DurationSeconds: intPtr(45), EndedReason: "some-new-reason", Transcript: "short"},
	}

	for _, p := range providers {
		a := newTestAnalyzer(p)
		for _, call := range calls {
			res := a.Qualify(context.Background(), call)
			if !res.Intent.Valid() {
				t.Fatalf("invalid intent %q for %+v", res.Intent, call)
			}
			if res.Score < 0 || res.Score > 100 {
				t.Fatalf("score %d out of range for %+v", res.Score, call)
			}
			if res.Motivation == "" || res.Timeline == "" || res.Budget == "" ||
				res.Authority == "" || res.PastExperience == "" {
				t.Fatalf("empty field for %+v: %+v", call, res)
			}
		}
	}
}
