package leads

import (
	"time"

	"leadpulse/internal/qualify"
)

// Lead is a form submission being worked by the outbound calling pipeline.
//
// The qualification columns are nullable in storage: a nil Qualification
// means "not yet analyzed", a state the qualification core itself never
// produces (its results are always complete).
type Lead struct {
	ID     string `json:"lead_id" db:"lead_id"`
	Name   string `json:"name" db:"name"`
	Phone  string `json:"phone" db:"phone"`
	Email  string `json:"email,omitempty" db:"email"`
	Source string `json:"source,omitempty" db:"source"`

	Status Status `json:"status" db:"status"`

	// ProviderCallID ties the lead to the outbound call at the voice
	// provider. Empty until a call has been placed.
	ProviderCallID string `json:"provider_call_id,omitempty" db:"provider_call_id"`

	// Call outcome as last reported by the provider.
	CallEndedReason     string `json:"call_ended_reason,omitempty" db:"call_ended_reason"`
	CallDurationSeconds *int   `json:"call_duration_seconds,omitempty" db:"call_duration_seconds"`

	Qualification *Qualification `json:"qualification,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Qualification is the persisted form of a qualify.Result plus bookkeeping.
type Qualification struct {
	Motivation     string         `json:"motivation" db:"motivation"`
	Timeline       string         `json:"timeline" db:"timeline"`
	Budget         string         `json:"budget" db:"budget"`
	Authority      string         `json:"authority" db:"authority"`
	PastExperience string         `json:"past_experience" db:"past_experience"`
	Intent         qualify.Intent `json:"intent" db:"intent"`
	Score          int            `json:"qualification_score" db:"qualification_score"`
	QualifiedAt    time.Time      `json:"qualified_at" db:"qualified_at"`
}

func qualificationFrom(res qualify.Result, at time.Time) Qualification {
	return Qualification{
		Motivation:     res.Motivation,
		Timeline:       res.Timeline,
		Budget:         res.Budget,
		Authority:      res.Authority,
		PastExperience: res.PastExperience,
		Intent:         res.Intent,
		Score:          res.Score,
		QualifiedAt:    at,
	}
}

type Status string

const (
	StatusNew        Status = "new"
	StatusCalling    Status = "calling"
	StatusCallFailed Status = "call_failed"
	StatusQualified  Status = "qualified"
)

// ListFilter narrows dashboard queries.
type ListFilter struct {
	Status Status         `json:"status,omitempty" form:"status"`
	Intent qualify.Intent `json:"intent,omitempty" form:"intent"`
	Limit  int            `json:"limit,omitempty" form:"limit"`
}
