package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// RecordRepoMem is the process-lifetime medical record store.
type RecordRepoMem struct {
	byID      map[uuid.UUID]*MedicalRecord
	byPatient map[uuid.UUID][]*MedicalRecord
}

func NewRecordRepoMem() *RecordRepoMem {
	return &RecordRepoMem{
		byID:      make(map[uuid.UUID]*MedicalRecord),
		byPatient: make(map[uuid.UUID][]*MedicalRecord),
	}
}

func (r *RecordRepoMem) Create(_ context.Context, rec *MedicalRecord) error {
	r.byID[rec.ID] = rec
	r.byPatient[rec.PatientID] = append(r.byPatient[rec.PatientID], rec)
	return nil
}

func (r *RecordRepoMem) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("medical record %s: %w", id, errs.ErrNotFound)
	}
	return rec, nil
}

func (r *RecordRepoMem) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	return r.byPatient[patientID], nil
}

// PrescriptionRepoMem is the process-lifetime prescription store.
type PrescriptionRepoMem struct {
	byID map[uuid.UUID]*Prescription
}

func NewPrescriptionRepoMem() *PrescriptionRepoMem {
	return &PrescriptionRepoMem{byID: make(map[uuid.UUID]*Prescription)}
}

func (r *PrescriptionRepoMem) Create(_ context.Context, p *Prescription) error {
	r.byID[p.ID] = p
	return nil
}

func (r *PrescriptionRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("prescription %s: %w", id, errs.ErrNotFound)
	}
	return p, nil
}
