package qualify

// CallContext carries everything known about a finished outbound call.
//
// All fields are optional from the caller's point of view: the webhook
// handler fills in whatever the voice provider reported. DurationSeconds is
// a pointer because absent and zero mean different things to the cold-signal
// rules. An empty transcript and a missing transcript behave identically
// everywhere, so a plain string is enough.
type CallContext struct {
	Transcript      string `json:"transcript,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	EndedReason     string `json:"ended_reason,omitempty"`
}

// HasDuration reports whether the provider told us how long the call lasted.
func (c CallContext) HasDuration() bool { return c.DurationSeconds != nil }

// Duration returns the call duration in seconds, or 0 when unknown.
// Callers must check HasDuration first when zero is meaningful.
func (c CallContext) Duration() int {
	if c.DurationSeconds == nil {
		return 0
	}
	return *c.DurationSeconds
}

// Ended reasons as reported by the voice provider.
// Anything outside this list is treated as "other" and never short-circuits.
const (
	EndedReasonCustomerEnded  = "customer-ended-call"
	EndedReasonAssistantEnded = "assistant-ended-call"
	EndedReasonSilenceTimeout = "silence-timed-out"
	EndedReasonVoicemail      = "voicemail-reached"
	EndedReasonPipelineError  = "pipeline-error-exceeded-max-retries"
	EndedReasonProviderClosed = "phone-call-provider-closed-websocket"
)

// Intent is the tiered buying-readiness classification of a lead.
type Intent string

const (
	IntentHot  Intent = "hot"
	IntentWarm Intent = "warm"
	IntentCold Intent = "cold"
)

// Valid reports whether i is one of the three allowed labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentHot, IntentWarm, IntentCold:
		return true
	}
	return false
}

// Result is a fully populated BANT qualification record.
//
// Invariants (enforced by every producer in this package):
// - Score is an integer in [0,100].
// - Intent is always hot, warm or cold.
// - Every text field is non-empty.
//
// Result is a value, not an entity: it carries no identifiers and binding it
// to a lead row is the caller's job.
type Result struct {
	Motivation     string `json:"motivation"`
	Timeline       string `json:"timeline"`
	Budget         string `json:"budget"`
	Authority      string `json:"authority"`
	PastExperience string `json:"pastExperience"`
	Intent         Intent `json:"intent"`
	Score          int    `json:"qualificationScore"`
}

// Defaults used whenever a field could not be determined.
const (
	defaultMotivation     = "Not identified during call"
	defaultTimeline       = "Not discussed"
	defaultBudget         = "Not discussed"
	defaultAuthority      = "Not discussed"
	defaultPastExperience = "Unknown"

	// shortCircuitFieldDefault fills the non-motivation fields of a
	// cold-signal result, where content was never analyzed at all.
	shortCircuitFieldDefault = "Unknown"
)

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// shortCircuitResult builds the uniform shape every deterministic cold
// outcome shares: only motivation and score vary between rules.
func shortCircuitResult(motivation string, score int) Result {
	return Result{
		Motivation:     motivation,
		Timeline:       shortCircuitFieldDefault,
		Budget:         shortCircuitFieldDefault,
		Authority:      shortCircuitFieldDefault,
		PastExperience: shortCircuitFieldDefault,
		Intent:         IntentCold,
		Score:          clampScore(score),
	}
}
