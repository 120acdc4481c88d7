package voice

import (
	"context"
	"time"
)

// CallProvider is the provider-agnostic boundary to the outbound voice-call
// platform.
//
// Rules:
// - No provider SDK or HTTP calls outside this package's adapters.
// - Request/response types stay provider-agnostic; raw payloads go into
//   Raw fields when debugging needs them.
type CallProvider interface {
	Name() string

	// PlaceCall starts an outbound AI call to a lead.
	PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error)

	// FetchCall retrieves the current state of a previously placed call.
	// Used by the manual requalify flow to re-assemble the transcript.
	FetchCall(ctx context.Context, providerCallID string) (CallSnapshot, error)
}

// PlaceCallRequest describes the lead to dial.
type PlaceCallRequest struct {
	LeadID string `json:"lead_id"`

	// Number is E.164 where possible.
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

type PlaceCallResult struct {
	// ProviderCallID is the provider's identifier for the placed call.
	ProviderCallID string `json:"provider_call_id"`

	Status string `json:"status,omitempty"`
}

// CallSnapshot is the provider-agnostic view of a call's outcome.
type CallSnapshot struct {
	ProviderCallID string `json:"provider_call_id"`
	Status         string `json:"status"`

	EndedReason     string `json:"ended_reason,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	Transcript      string `json:"transcript,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// Raw is the provider payload as JSON, kept for debugging.
	Raw string `json:"raw,omitempty"`
}
