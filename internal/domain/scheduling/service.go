package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/platform/errs"
)

// Service implements the appointment state machine and the double-booking
// conflict rule.
type Service struct {
	appts       AppointmentRepository
	assignments AssignmentRepository
	actors      ActorDirectory
	log         zerolog.Logger
	now         func() time.Time
}

func NewService(appts AppointmentRepository, assignments AssignmentRepository, actors ActorDirectory, log zerolog.Logger) *Service {
	return &Service{
		appts:       appts,
		assignments: assignments,
		actors:      actors,
		log:         log,
		now:         time.Now,
	}
}

// hasConflict scans the doctor's appointments for one at the same timestamp
// in status Scheduled. Confirmed appointments at the same instant do not
// block; the scan mirrors the long-standing behavior callers rely on.
// exclude skips the appointment being moved so a reschedule cannot conflict
// with itself.
func (s *Service) hasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error) {
	existing, err := s.appts.ListByDoctor(ctx, doctorID)
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		if a.ID == exclude {
			continue
		}
		if a.Time.Equal(at) && a.Status == StatusScheduled {
			return true, nil
		}
	}
	return false, nil
}

// Schedule creates an appointment in state Scheduled. Both ids must resolve
// to the right role variant, and the conflict check plus insert run as one
// step under the registry's lock. On success the patient is recorded in the
// doctor's treated set.
func (s *Service) Schedule(ctx context.Context, patientID, doctorID uuid.UUID, at time.Time) (*Appointment, error) {
	if ok, err := s.actors.PatientExists(ctx, patientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("patient %s: %w", patientID, errs.ErrNotFound)
	}
	if ok, err := s.actors.DoctorExists(ctx, doctorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("doctor %s: %w", doctorID, errs.ErrNotFound)
	}

	conflict, err := s.hasConflict(ctx, doctorID, at, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("doctor %s at %s: %w", doctorID, at.Format(time.RFC3339), errs.ErrSchedulingConflict)
	}

	appt := &Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Time:      at,
		Status:    StatusScheduled,
		CreatedAt: s.now(),
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		return nil, err
	}
	if err := s.assignments.Assign(ctx, doctorID, patientID); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", doctorID.String()).
		Time("at", at).
		Msg("appointment scheduled")
	return appt, nil
}

// Confirm moves a Scheduled appointment to Confirmed. Missing or
// wrong-state appointments yield a reported outcome, not an error.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (ConfirmOutcome, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return ConfirmOutcome{Reason: fmt.Sprintf("appointment %q not found", id)}, nil
	}
	if appt.Status != StatusScheduled {
		return ConfirmOutcome{
			Reason: fmt.Sprintf("appointment %q cannot be confirmed as it is %s", id, appt.Status),
		}, nil
	}
	appt.Status = StatusConfirmed
	s.log.Info().Str("appointment_id", id.String()).Msg("appointment confirmed")
	return ConfirmOutcome{Applied: true}, nil
}

// Cancel transitions to Cancelled regardless of the current state. The
// transition is idempotent: cancelling a Cancelled or Completed appointment
// leaves it Cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	appt.Status = StatusCancelled
	s.log.Info().Str("appointment_id", id.String()).Msg("appointment cancelled")
	return nil
}

// Complete moves a Confirmed appointment to Completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.Status != StatusConfirmed {
		return fmt.Errorf("appointment %s is %s; only Confirmed appointments can be completed", id, appt.Status)
	}
	appt.Status = StatusCompleted
	s.log.Info().Str("appointment_id", id.String()).Msg("appointment completed")
	return nil
}

// Reschedule mutates the timestamp in place after re-running the conflict
// check at the new time. The appointment being moved is excluded from the
// scan so it cannot conflict with its own slot. Status is unchanged.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ok, err := s.actors.DoctorExists(ctx, appt.DoctorID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("doctor %s: %w", appt.DoctorID, errs.ErrNotFound)
	}

	conflict, err := s.hasConflict(ctx, appt.DoctorID, newTime, id)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("doctor %s at %s: %w", appt.DoctorID, newTime.Format(time.RFC3339), errs.ErrSchedulingConflict)
	}
	appt.Time = newTime
	s.log.Info().
		Str("appointment_id", id.String()).
		Time("at", newTime).
		Msg("appointment rescheduled")
	return nil
}

// ByDoctor returns the doctor's appointments in creation order.
func (s *Service) ByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	return s.appts.ListByDoctor(ctx, doctorID)
}

// ByPatient returns the patient's appointments in creation order.
func (s *Service) ByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appts.ListByPatient(ctx, patientID)
}

// Requests returns the doctor's appointments still awaiting confirmation.
func (s *Service) Requests(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	all, err := s.appts.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	var out []*Appointment
	for _, a := range all {
		if a.Status == StatusScheduled {
			out = append(out, a)
		}
	}
	return out, nil
}

// All returns every appointment, for reporting.
func (s *Service) All(ctx context.Context) ([]*Appointment, error) {
	return s.appts.All(ctx)
}

// Treats reports whether the doctor has been assigned to the patient.
func (s *Service) Treats(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	return s.assignments.Treats(ctx, doctorID, patientID)
}
