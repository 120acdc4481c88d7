package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu    sync.Mutex
	rows  map[string]Lead
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[string]Lead{}, clock: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, lead Lead) error {
	if lead.ID == "" {
		return ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[lead.ID] = lead
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, leadID string) (Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.rows[leadID]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return lead, nil
}

func (r *MemoryRepo) GetByProviderCallID(ctx context.Context, providerCallID string) (Lead, error) {
	if providerCallID == "" {
		return Lead{}, ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.rows {
		if lead.ProviderCallID == providerCallID {
			return lead, nil
		}
	}
	return Lead{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Lead, 0, len(r.rows))
	for _, lead := range r.rows {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.Intent != "" {
			if lead.Qualification == nil || lead.Qualification.Intent != filter.Intent {
				continue
			}
		}
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) SetCallPlaced(ctx context.Context, leadID, providerCallID string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.rows[leadID]
	if !ok {
		return ErrNotFound
	}
	lead.ProviderCallID = providerCallID
	lead.Status = status
	lead.UpdatedAt = r.clock().UTC()
	r.rows[leadID] = lead
	return nil
}

func (r *MemoryRepo) SetQualification(ctx context.Context, leadID string, endedReason string, durationSeconds *int, q Qualification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.rows[leadID]
	if !ok {
		return ErrNotFound
	}
	lead.CallEndedReason = endedReason
	lead.CallDurationSeconds = durationSeconds
	lead.Qualification = &q
	lead.Status = StatusQualified
	lead.UpdatedAt = r.clock().UTC()
	r.rows[leadID] = lead
	return nil
}
