package financial

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// BillingRepoMem is the process-lifetime billing store.
type BillingRepoMem struct {
	byID      map[uuid.UUID]*Billing
	byPatient map[uuid.UUID][]*Billing
	order     []uuid.UUID
}

func NewBillingRepoMem() *BillingRepoMem {
	return &BillingRepoMem{
		byID:      make(map[uuid.UUID]*Billing),
		byPatient: make(map[uuid.UUID][]*Billing),
	}
}

func (r *BillingRepoMem) Create(_ context.Context, b *Billing) error {
	r.byID[b.ID] = b
	r.byPatient[b.PatientID] = append(r.byPatient[b.PatientID], b)
	r.order = append(r.order, b.ID)
	return nil
}

func (r *BillingRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Billing, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("billing %s: %w", id, errs.ErrNotFound)
	}
	return b, nil
}

func (r *BillingRepoMem) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Billing, error) {
	return r.byPatient[patientID], nil
}

func (r *BillingRepoMem) All(_ context.Context) ([]*Billing, error) {
	out := make([]*Billing, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}
