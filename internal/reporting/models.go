package reporting

import "time"

// Summary aggregates the lead pipeline for the dashboard.
type Summary struct {
	TotalLeads     int `json:"total_leads"`
	QualifiedLeads int `json:"qualified_leads"`
	CallingLeads   int `json:"calling_leads"`
	FailedCalls    int `json:"failed_calls"`

	HotLeads  int `json:"hot_leads"`
	WarmLeads int `json:"warm_leads"`
	ColdLeads int `json:"cold_leads"`

	AverageScore float64 `json:"average_score"`

	TotalCallSeconds   int `json:"total_call_seconds"`
	AverageCallSeconds int `json:"average_call_seconds"`

	GeneratedAt time.Time `json:"generated_at"`
}
