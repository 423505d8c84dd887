package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/platform/errs"
)

// Service manages medical records and prescriptions.
type Service struct {
	records       RecordRepository
	prescriptions PrescriptionRepository
	patients      PatientDirectory
	log           zerolog.Logger
	now           func() time.Time
}

func NewService(records RecordRepository, prescriptions PrescriptionRepository, patients PatientDirectory, log zerolog.Logger) *Service {
	return &Service{
		records:       records,
		prescriptions: prescriptions,
		patients:      patients,
		log:           log,
		now:           time.Now,
	}
}

func (s *Service) requirePatient(ctx context.Context, patientID uuid.UUID) error {
	ok, err := s.patients.PatientExists(ctx, patientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("patient %s: %w", patientID, errs.ErrNotFound)
	}
	return nil
}

// AddRecord indexes the record and appends it to the patient's history.
func (s *Service) AddRecord(ctx context.Context, patientID uuid.UUID, rec *MedicalRecord) error {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return err
	}
	rec.PatientID = patientID
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = s.now()
	if err := s.records.Create(ctx, rec); err != nil {
		return err
	}
	s.log.Info().
		Str("record_id", rec.ID.String()).
		Str("patient_id", patientID.String()).
		Msg("medical record added")
	return nil
}

// Records returns the patient's full history in append order.
func (s *Service) Records(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.records.ListByPatient(ctx, patientID)
}

// AddPrescription indexes the prescription and attaches it to the most
// recently added record. It is not matched to any particular visit; a
// patient with no records keeps the prescription unattached.
func (s *Service) AddPrescription(ctx context.Context, patientID uuid.UUID, p *Prescription) error {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return err
	}
	p.PatientID = patientID
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.IssuedAt = s.now()
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return err
	}

	history, err := s.records.ListByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		latest := history[len(history)-1]
		latest.PrescriptionIDs = append(latest.PrescriptionIDs, p.ID)
	}
	s.log.Info().
		Str("prescription_id", p.ID.String()).
		Str("patient_id", patientID.String()).
		Bool("attached", len(history) > 0).
		Msg("prescription added")
	return nil
}

// Prescriptions gathers prescriptions by walking the record history, the
// same traversal the patient view uses. Unattached prescriptions are not
// reachable this way.
func (s *Service) Prescriptions(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	history, err := s.Records(ctx, patientID)
	if err != nil {
		return nil, err
	}
	var out []*Prescription
	for _, rec := range history {
		for _, id := range rec.PrescriptionIDs {
			p, err := s.prescriptions.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateRecord amends a record's diagnosis, treatment or notes. Only the
// authoring doctor may amend it.
func (s *Service) UpdateRecord(ctx context.Context, recordID, doctorID uuid.UUID, upd RecordUpdate) error {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.DoctorID != doctorID {
		return fmt.Errorf("record %s was not authored by doctor %s: %w", recordID, doctorID, errs.ErrUnauthorized)
	}
	if upd.Diagnosis != nil {
		rec.Diagnosis = *upd.Diagnosis
	}
	if upd.Treatment != nil {
		rec.Treatment = *upd.Treatment
	}
	if upd.Notes != nil {
		rec.Notes = *upd.Notes
	}
	s.log.Info().Str("record_id", recordID.String()).Msg("medical record updated")
	return nil
}
