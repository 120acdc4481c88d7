package voice

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"leadpulse/internal/qualify"
)

// Vapi wraps every webhook delivery in a "message" envelope; the type field
// distinguishes end-of-call reports from status pings and transcript chunks.
// Only end-of-call reports drive qualification.
const MessageTypeEndOfCallReport = "end-of-call-report"

// EndOfCallReport is the parsed, provider-shaped end-of-call payload.
type EndOfCallReport struct {
	ProviderCallID  string
	EndedReason     string
	DurationSeconds *int
	Transcript      string
}

type webhookEnvelope struct {
	Message webhookMessage `json:"message"`
}

type webhookMessage struct {
	Type            string   `json:"type"`
	EndedReason     string   `json:"endedReason"`
	DurationSeconds *float64 `json:"durationSeconds"`
	Transcript      string   `json:"transcript"`
	Call            struct {
		ID string `json:"id"`
	} `json:"call"`
	Artifact struct {
		Transcript string `json:"transcript"`
	} `json:"artifact"`
}

// ParseWebhook reads and decodes a webhook delivery. The returned message
// type tells the caller whether a report is present; non-report messages
// yield (type, nil, nil).
func ParseWebhook(r *http.Request) (string, *EndOfCallReport, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8*1024*1024))
	if err != nil {
		return "", nil, fmt.Errorf("voice: read webhook body: %w", err)
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, fmt.Errorf("voice: decode webhook: %w", err)
	}
	if env.Message.Type != MessageTypeEndOfCallReport {
		return env.Message.Type, nil, nil
	}

	report := &EndOfCallReport{
		ProviderCallID: env.Message.Call.ID,
		EndedReason:    env.Message.EndedReason,
		Transcript:     env.Message.Transcript,
	}
	if report.Transcript == "" {
		report.Transcript = env.Message.Artifact.Transcript
	}
	if env.Message.DurationSeconds != nil {
		secs := int(math.Round(*env.Message.DurationSeconds))
		report.DurationSeconds = &secs
	}
	return env.Message.Type, report, nil
}

// CallContext converts the report into the qualification core's input.
func (r EndOfCallReport) CallContext() qualify.CallContext {
	return qualify.CallContext{
		Transcript:      r.Transcript,
		DurationSeconds: r.DurationSeconds,
		EndedReason:     r.EndedReason,
	}
}

// CallContextFromSnapshot maps a fetched call snapshot to the qualification
// input. Used by the manual requalify flow.
func CallContextFromSnapshot(snap CallSnapshot) qualify.CallContext {
	return qualify.CallContext{
		Transcript:      snap.Transcript,
		DurationSeconds: snap.DurationSeconds,
		EndedReason:     snap.EndedReason,
	}
}
