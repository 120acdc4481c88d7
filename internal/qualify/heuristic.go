package qualify

import "strings"

// Heuristic fallback scoring. Used when the LLM path is unconfigured,
// unreachable, or returned output no tier of the parser could recover.
// Deterministic, no external calls, never fails.

const fallbackBaseScore = 30

// Keyword hits are presence-weighted: each keyword contributes at most once
// no matter how many times it appears. Matching is case-insensitive
// substring containment, so "not interested" also hits "interested" and the
// two contributions offset; that mirrors how the phrase reads.
var positiveKeywords = []string{
	"interested", "need", "want", "looking for", "excited",
	"great", "perfect", "yes", "tell me more",
}

var negativeKeywords = []string{
	"not interested", "maybe later", "not sure", "too expensive",
	"busy", "no thanks", "goodbye", "not right now",
}

const (
	positiveKeywordPoints = 5
	negativeKeywordPoints = 10
)

// Intent thresholds applied to the final clamped score.
const (
	hotThreshold  = 60
	warmThreshold = 35
)

// HeuristicFallback produces a usable qualification from call metadata and
// keyword presence alone.
func HeuristicFallback(call CallContext) Result {
	score := fallbackBaseScore

	if call.HasDuration() {
		switch d := call.Duration(); {
		case d < 30:
			score -= 20
		case d < 60:
			score -= 10
		case d > 180:
			score += 15
		case d > 120:
			score += 10
		}
	}

	if call.EndedReason == EndedReasonCustomerEnded {
		score -= 15
	}

	transcript := strings.ToLower(call.Transcript)
	if strings.TrimSpace(transcript) != "" {
		for _, kw := range positiveKeywords {
			if strings.Contains(transcript, kw) {
				score += positiveKeywordPoints
			}
		}
		for _, kw := range negativeKeywords {
			if strings.Contains(transcript, kw) {
				score -= negativeKeywordPoints
			}
		}
	} else {
		score -= 20
	}

	score = clampScore(score)

	return Result{
		Motivation:     "Analysis performed without AI - limited data available",
		Timeline:       "Unknown - AI analysis unavailable",
		Budget:         "Unknown - AI analysis unavailable",
		Authority:      "Unknown - AI analysis unavailable",
		PastExperience: "Unknown - AI analysis unavailable",
		Intent:         intentFromScore(score),
		Score:          score,
	}
}

func intentFromScore(score int) Intent {
	switch {
	case score >= hotThreshold:
		return IntentHot
	case score >= warmThreshold:
		return IntentWarm
	default:
		return IntentCold
	}
}
