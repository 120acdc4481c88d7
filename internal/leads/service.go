package leads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadpulse/internal/metrics"
	"leadpulse/internal/qualify"
	"leadpulse/internal/voice"
)

// Qualifier scores a finished call. Satisfied by *qualify.Analyzer.
type Qualifier interface {
	Qualify(ctx context.Context, call qualify.CallContext) qualify.Result
}

// Service owns the lead lifecycle: intake, outbound call placement, and
// qualification on call completion.
type Service struct {
	repo      Repository
	provider  voice.CallProvider
	qualifier Qualifier
	metrics   *metrics.Metrics
	log       *slog.Logger
	clock     func() time.Time
	newID     func() string
}

func NewService(repo Repository, provider voice.CallProvider, qualifier Qualifier, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		qualifier: qualifier,
		metrics:   m,
		log:       log,
		clock:     time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// SubmitInput is a lead form submission.
type SubmitInput struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Email  string `json:"email"`
	Source string `json:"source"`
}

// Submit records a new lead and immediately places the outbound AI call.
//
// Call placement failure is not a submission failure: the lead is kept with
// status call_failed so the dashboard can surface it for retry.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Lead, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return Lead{}, fmt.Errorf("%w: name and phone are required", ErrInvalidArgument)
	}

	now := s.clock().UTC()
	lead := Lead{
		ID:        s.newID(),
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(in.Email),
		Source:    strings.TrimSpace(in.Source),
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}
	s.metrics.LeadsCreated.Inc()

	placed, err := s.provider.PlaceCall(ctx, voice.PlaceCallRequest{
		LeadID: lead.ID,
		Number: lead.Phone,
		Name:   lead.Name,
	})
	if err != nil {
		s.log.Error("outbound call placement failed",
			"lead_id", lead.ID, "provider", s.provider.Name(), "error", err)
		s.metrics.CallsPlaced.WithLabelValues("failed").Inc()
		if uerr := s.repo.SetCallPlaced(ctx, lead.ID, "", StatusCallFailed); uerr != nil {
			s.log.Error("failed to mark lead call_failed", "lead_id", lead.ID, "error", uerr)
		}
		lead.Status = StatusCallFailed
		return lead, nil
	}

	s.metrics.CallsPlaced.WithLabelValues("placed").Inc()
	if err := s.repo.SetCallPlaced(ctx, lead.ID, placed.ProviderCallID, StatusCalling); err != nil {
		return Lead{}, err
	}
	lead.ProviderCallID = placed.ProviderCallID
	lead.Status = StatusCalling

	s.log.Info("outbound call placed",
		"lead_id", lead.ID, "provider_call_id", placed.ProviderCallID)
	return lead, nil
}

func (s *Service) Get(ctx context.Context, leadID string) (Lead, error) {
	return s.repo.Get(ctx, leadID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	return s.repo.List(ctx, filter)
}

// HandleCallReport implements voice.ReportSink. It runs qualification on the
// finished call and persists the result against the matching lead.
func (s *Service) HandleCallReport(ctx context.Context, report voice.EndOfCallReport) error {
	lead, err := s.repo.GetByProviderCallID(ctx, report.ProviderCallID)
	if err != nil {
		return fmt.Errorf("lookup lead for call %s: %w", report.ProviderCallID, err)
	}

	res := s.qualifier.Qualify(ctx, report.CallContext())
	q := qualificationFrom(res, s.clock().UTC())
	if err := s.repo.SetQualification(ctx, lead.ID, report.EndedReason, report.DurationSeconds, q); err != nil {
		return err
	}

	s.log.Info("lead qualified",
		"lead_id", lead.ID,
		"intent", res.Intent,
		"score", res.Score)
	return nil
}

// Requalify re-fetches the call from the provider and re-runs qualification.
// Used when a webhook was missed or the operator changed the LLM key.
func (s *Service) Requalify(ctx context.Context, leadID string) (Lead, error) {
	lead, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return Lead{}, err
	}
	if lead.ProviderCallID == "" {
		return Lead{}, fmt.Errorf("%w: lead has no call to requalify", ErrInvalidArgument)
	}

	snap, err := s.provider.FetchCall(ctx, lead.ProviderCallID)
	if err != nil {
		return Lead{}, fmt.Errorf("fetch call %s: %w", lead.ProviderCallID, err)
	}

	res := s.qualifier.Qualify(ctx, voice.CallContextFromSnapshot(snap))
	q := qualificationFrom(res, s.clock().UTC())
	if err := s.repo.SetQualification(ctx, lead.ID, snap.EndedReason, snap.DurationSeconds, q); err != nil {
		return Lead{}, err
	}
	return s.repo.Get(ctx, leadID)
}
