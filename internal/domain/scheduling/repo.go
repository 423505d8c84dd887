package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// AppointmentRepository owns the canonical appointments. The by-doctor and
// by-patient views are secondary indexes updated in the same logical step
// as the primary insert.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	All(ctx context.Context) ([]*Appointment, error)
}

// AssignmentRepository records which patients a doctor treats. An assignment
// is made once, on the first successful scheduling, and never withdrawn.
type AssignmentRepository interface {
	Assign(ctx context.Context, doctorID, patientID uuid.UUID) error
	Treats(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
}

// ActorDirectory resolves ids to role variants. Implemented by the identity
// service; declared here so scheduling stays decoupled from it.
type ActorDirectory interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}
