package leads

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("leads: not found")
	ErrInvalidArgument = errors.New("leads: invalid argument")
)

// Repository is the persistence contract for leads.
//
// Qualification writes replace the whole qualification block atomically;
// a lead is never left with half a BANT record.
type Repository interface {
	Create(ctx context.Context, lead Lead) error
	Get(ctx context.Context, leadID string) (Lead, error)
	GetByProviderCallID(ctx context.Context, providerCallID string) (Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)

	// SetCallPlaced records the outbound call id and moves the lead's status.
	SetCallPlaced(ctx context.Context, leadID, providerCallID string, status Status) error

	// SetQualification stores a complete qualification plus the call
	// outcome that produced it, and marks the lead qualified.
	SetQualification(ctx context.Context, leadID string, endedReason string, durationSeconds *int, q Qualification) error
}
