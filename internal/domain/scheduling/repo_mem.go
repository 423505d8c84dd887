package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// AppointmentRepoMem is the process-lifetime appointment store with
// secondary by-doctor and by-patient indexes.
type AppointmentRepoMem struct {
	byID      map[uuid.UUID]*Appointment
	byDoctor  map[uuid.UUID][]*Appointment
	byPatient map[uuid.UUID][]*Appointment
	order     []uuid.UUID
}

func NewAppointmentRepoMem() *AppointmentRepoMem {
	return &AppointmentRepoMem{
		byID:      make(map[uuid.UUID]*Appointment),
		byDoctor:  make(map[uuid.UUID][]*Appointment),
		byPatient: make(map[uuid.UUID][]*Appointment),
	}
}

func (r *AppointmentRepoMem) Create(_ context.Context, a *Appointment) error {
	r.byID[a.ID] = a
	r.byDoctor[a.DoctorID] = append(r.byDoctor[a.DoctorID], a)
	r.byPatient[a.PatientID] = append(r.byPatient[a.PatientID], a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *AppointmentRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, errs.ErrNotFound)
	}
	return a, nil
}

func (r *AppointmentRepoMem) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	return r.byDoctor[doctorID], nil
}

func (r *AppointmentRepoMem) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return r.byPatient[patientID], nil
}

func (r *AppointmentRepoMem) All(_ context.Context) ([]*Appointment, error) {
	out := make([]*Appointment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// AssignmentRepoMem is the doctor-to-treated-patient index.
type AssignmentRepoMem struct {
	treated map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewAssignmentRepoMem() *AssignmentRepoMem {
	return &AssignmentRepoMem{treated: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

func (r *AssignmentRepoMem) Assign(_ context.Context, doctorID, patientID uuid.UUID) error {
	set, ok := r.treated[doctorID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		r.treated[doctorID] = set
	}
	set[patientID] = struct{}{}
	return nil
}

func (r *AssignmentRepoMem) Treats(_ context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	_, ok := r.treated[doctorID][patientID]
	return ok, nil
}
