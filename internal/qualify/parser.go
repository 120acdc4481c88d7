package qualify

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The parser turns free-text model output into a valid Result. Models wrap
// JSON in explanations, code fences or nothing at all, so recovery is tiered:
//
//  1. parse the whole text as JSON
//  2. parse the inside of a ```-fenced block
//  3. parse the first-{ .. last-} substring
//
// The first tier that yields a JSON object wins. If none do, ok is false and
// the caller falls back to heuristics. Out-of-domain values inside a parsed
// object are never an error; they are sanitized to safe defaults.

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseResponse extracts and sanitizes a qualification from raw model output.
// Pure function; never panics on malformed input.
func ParseResponse(raw string) (Result, bool) {
	fields, ok := recoverObject(raw)
	if !ok {
		return Result{}, false
	}
	return sanitize(fields), true
}

func recoverObject(raw string) (map[string]any, bool) {
	if fields, ok := parseObject(raw); ok {
		return fields, true
	}
	if m := fencedBlockRE.FindStringSubmatch(raw); m != nil {
		if fields, ok := parseObject(m[1]); ok {
			return fields, true
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if fields, ok := parseObject(raw[start : end+1]); ok {
			return fields, true
		}
	}
	return nil, false
}

func parseObject(s string) (map[string]any, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// sanitize clamps every field of a decoded object into the allowed domain.
// Absent or invalid values become field-specific defaults rather than
// propagating raw.
func sanitize(fields map[string]any) Result {
	return Result{
		Motivation:     textField(fields, "motivation", defaultMotivation),
		Timeline:       textField(fields, "timeline", defaultTimeline),
		Budget:         textField(fields, "budget", defaultBudget),
		Authority:      textField(fields, "authority", defaultAuthority),
		PastExperience: textField(fields, "pastExperience", defaultPastExperience),
		Intent:         intentField(fields, "intent"),
		Score:          scoreField(fields, "qualificationScore"),
	}
}

func textField(fields map[string]any, key, fallback string) string {
	if v, ok := fields[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return fallback
}

// intentField coerces anything outside {hot, warm, cold} to cold.
// Labels are trimmed and lower-cased first so "Hot" still counts.
func intentField(fields map[string]any, key string) Intent {
	if v, ok := fields[key].(string); ok {
		intent := Intent(strings.ToLower(strings.TrimSpace(v)))
		if intent.Valid() {
			return intent
		}
	}
	return IntentCold
}

// scoreField accepts JSON numbers and numeric strings; anything else is 0.
// The value is rounded to the nearest integer and clamped into [0,100].
func scoreField(fields map[string]any, key string) int {
	var score float64
	switch v := fields[key].(type) {
	case float64:
		score = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		score = parsed
	default:
		return 0
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return clampScore(int(math.Round(score)))
}
