package clinical

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository owns the canonical medical records; the per-patient
// history is a secondary index in append order.
type RecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error)
}

// PrescriptionRepository owns the canonical prescriptions.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
}

// PatientDirectory resolves ids to patient accounts. Implemented by the
// identity service.
type PatientDirectory interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
}
