package qualify

// Cold-signal detection inspects call metadata only. It exists to keep the
// common failure paths (hang-ups, voicemail, dead air, provider faults)
// deterministic and free of model cost.
//
// Rules are an ordered list; the first match wins. Keep them as data so the
// evaluation order is testable independently of any conditional nesting.

type coldRule struct {
	name       string
	match      func(CallContext) bool
	motivation string
	score      int
}

var coldRules = []coldRule{
	{
		name:       "immediate_hangup",
		match:      func(c CallContext) bool { return c.HasDuration() && c.Duration() < 15 },
		motivation: "Call ended immediately - no engagement.",
		score:      10,
	},
	{
		name: "customer_hung_up_early",
		match: func(c CallContext) bool {
			return c.EndedReason == EndedReasonCustomerEnded && c.HasDuration() && c.Duration() < 30
		},
		motivation: "Customer hung up early - not interested.",
		score:      10,
	},
	{
		name:       "silence_timeout",
		match:      func(c CallContext) bool { return c.EndedReason == EndedReasonSilenceTimeout },
		motivation: "No engagement - call timed out due to silence.",
		score:      5,
	},
	{
		name:       "voicemail",
		match:      func(c CallContext) bool { return c.EndedReason == EndedReasonVoicemail },
		motivation: "Could not reach - went to voicemail.",
		score:      15,
	},
	{
		name: "technical_failure",
		match: func(c CallContext) bool {
			return c.EndedReason == EndedReasonPipelineError || c.EndedReason == EndedReasonProviderClosed
		},
		motivation: "Call failed due to technical issues.",
		score:      10,
	},
}

// DetectColdSignal returns a complete Result when call metadata alone proves
// the lead is cold or unreachable. ok is false when no rule matched and
// content analysis should proceed.
//
// Pure function of its input. Missing duration or ended reason just means
// fewer rules are eligible; it is never an error.
func DetectColdSignal(call CallContext) (Result, bool) {
	for _, r := range coldRules {
		if r.match(call) {
			return shortCircuitResult(r.motivation, r.score), true
		}
	}
	return Result{}, false
}
