package qualify

import "testing"

func intPtr(n int) *int { return &n }

func TestDetectColdSignal(t *testing.T) {
	tests := []struct {
		name string
		call CallContext

		wantMatch      bool
		wantScore      int
		wantMotivation string
	}{
		{
			name:           "immediate hangup",
			call:           CallContext{DurationSeconds: intPtr(8)},
			wantMatch:      true,
			wantScore:      10,
			wantMotivation: "Call ended immediately - no engagement.",
		},
		{
			name: "duration rule fires before ended reason rule",
			call: CallContext{DurationSeconds: intPtr(8), EndedReason: EndedReasonCustomerEnded, Transcript: "Hello there"},

			wantMatch:      true,
			wantScore:      10,
			wantMotivation: "Call ended immediately - no engagement.",
		},
		{
			name:           "customer hung up early",
			call:           CallContext{DurationSeconds: intPtr(20), EndedReason: EndedReasonCustomerEnded},
			wantMatch:      true,
			wantScore:      10,
			wantMotivation: "Customer hung up early - not interested.",
		},
		{
			name:           "silence timeout needs no duration",
			call:           CallContext{EndedReason: EndedReasonSilenceTimeout},
			wantMatch:      true,
			wantScore:      5,
			wantMotivation: "No engagement - call timed out due to silence.",
		},
		{
			name:           "voicemail",
			call:           CallContext{EndedReason: EndedReasonVoicemail},
			wantMatch:      true,
			wantScore:      15,
			wantMotivation: "Could not reach - went to voicemail.",
		},
		{
			name:           "pipeline error",
			call:           CallContext{EndedReason: EndedReasonPipelineError},
			wantMatch:      true,
			wantScore:      10,
			wantMotivation: "Call failed due to technical issues.",
		},
		{
			name:           "provider closed websocket",
			call:           CallContext{EndedReason: EndedReasonProviderClosed},
			wantMatch:      true,
			wantScore:      10,
			wantMotivation: "Call failed due to technical issues.",
		},
		{
			name:      "duration 15 is outside the immediate hangup rule",
			call:      CallContext{DurationSeconds: intPtr(15)},
			wantMatch: false,
		},
		{
			name:      "duration 30 is outside the early hangup rule",
			call:      CallContext{DurationSeconds: intPtr(30), EndedReason: EndedReasonCustomerEnded},
			wantMatch: false,
		},
		{
			name:      "missing duration disables duration rules",
			call:      CallContext{EndedReason: EndedReasonCustomerEnded},
			wantMatch: false,
		},
		{
			name:      "normal completed call",
			call:      CallContext{DurationSeconds: intPtr(240), EndedReason: EndedReasonAssistantEnded, Transcript: "long chat"},
			wantMatch: false,
		},
		{
			name:      "unknown ended reason never short-circuits",
			call:      CallContext{DurationSeconds: intPtr(40), EndedReason: "unknown-reason"},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := DetectColdSignal(tt.call)
			if ok != tt.wantMatch {
				t.Fatalf("match = %v, want %v", ok, tt.wantMatch)
			}
			if !tt.wantMatch {
				return
			}
			if res.Score != tt.wantScore {
				t.Fatalf("score = %d, want %d", res.Score, tt.wantScore)
			}
			if res.Motivation != tt.wantMotivation {
				t.Fatalf("motivation = %q, want %q", res.Motivation, tt.wantMotivation)
			}
			if res.Intent != IntentCold {
				t.Fatalf("intent = %q, want cold", res.Intent)
			}
			if res.Timeline != "Unknown" || res.Budget != "Unknown" || res.Authority != "Unknown" || res.PastExperience != "Unknown" {
				t.Fatalf("short-circuit fields not defaulted: %+v", res)
			}
		})
	}
}

func TestDetectColdSignalIsDeterministic(t *testing.T) {
	call := CallContext{DurationSeconds: intPtr(8), EndedReason: EndedReasonCustomerEnded}
	first, ok1 := DetectColdSignal(call)
	second, ok2 := DetectColdSignal(call)
	if !ok1 || !ok2 || first != second {
		t.Fatalf("expected identical results, got %+v / %+v", first, second)
	}
}
