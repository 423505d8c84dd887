package financial

import (
	"context"

	"github.com/google/uuid"
)

// BillingRepository owns the canonical billings; the per-patient view is a
// secondary index in creation order.
type BillingRepository interface {
	Create(ctx context.Context, b *Billing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Billing, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Billing, error)
	All(ctx context.Context) ([]*Billing, error)
}

// PatientDirectory resolves ids to patient accounts. Implemented by the
// identity service.
type PatientDirectory interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
}
