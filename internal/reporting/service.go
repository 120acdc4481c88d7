package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"leadpulse/internal/leads"
	"leadpulse/internal/qualify"
)

// Service computes pipeline aggregates and spreadsheet exports over the
// leads store.
type Service struct {
	repo  leads.Repository
	clock func() time.Time
}

func NewService(repo leads.Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if s.repo == nil {
		return Summary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.List(ctx, leads.ListFilter{})
	if err != nil {
		return Summary{}, err
	}

	out := Summary{GeneratedAt: s.clock().UTC()}
	scoreSum := 0
	durationRows := 0
	for _, lead := range rows {
		out.TotalLeads++
		switch lead.Status {
		case leads.StatusQualified:
			out.QualifiedLeads++
		case leads.StatusCalling:
			out.CallingLeads++
		case leads.StatusCallFailed:
			out.FailedCalls++
		case leads.StatusNew:
			// awaiting a call, not counted separately
		}

		if lead.CallDurationSeconds != nil {
			out.TotalCallSeconds += *lead.CallDurationSeconds
			durationRows++
		}

		if lead.Qualification == nil {
			continue
		}
		scoreSum += lead.Qualification.Score
		switch lead.Qualification.Intent {
		case qualify.IntentHot:
			out.HotLeads++
		case qualify.IntentWarm:
			out.WarmLeads++
		case qualify.IntentCold:
			out.ColdLeads++
		}
	}

	if out.QualifiedLeads > 0 {
		out.AverageScore = math.Round(float64(scoreSum)/float64(out.QualifiedLeads)*10) / 10
	}
	if durationRows > 0 {
		out.AverageCallSeconds = out.TotalCallSeconds / durationRows
	}
	return out, nil
}

var exportHeader = []string{
	"Lead ID", "Name", "Phone", "Email", "Source", "Status",
	"Intent", "Score", "Motivation", "Timeline", "Budget", "Authority",
	"Past Experience", "Call Duration (s)", "Call Ended Reason", "Created At",
}

// Export renders the lead pipeline as an xlsx workbook for handoff to sales
// teams that live in spreadsheets.
func (s *Service) Export(ctx context.Context, filter leads.ListFilter) (*excelize.File, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Leads"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("reporting: create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("reporting: drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("reporting: write header: %w", err)
	}

	for i, lead := range rows {
		record := []any{
			lead.ID, lead.Name, lead.Phone, lead.Email, lead.Source, string(lead.Status),
		}
		if q := lead.Qualification; q != nil {
			record = append(record, string(q.Intent), q.Score,
				q.Motivation, q.Timeline, q.Budget, q.Authority, q.PastExperience)
		} else {
			record = append(record, "", "", "", "", "", "", "")
		}
		if lead.CallDurationSeconds != nil {
			record = append(record, *lead.CallDurationSeconds)
		} else {
			record = append(record, "")
		}
		record = append(record, lead.CallEndedReason, lead.CreatedAt.Format(time.RFC3339))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("reporting: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, fmt.Errorf("reporting: write row: %w", err)
		}
	}
	return f, nil
}
