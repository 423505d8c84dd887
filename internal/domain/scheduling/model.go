package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. Scheduled and Confirmed are the
// active states; Cancelled and Completed are terminal.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// Appointment links a patient and a doctor at a timestamp. Instances are
// owned by the repository; per-doctor and per-patient views are secondary
// indexes maintained there.
type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Time      time.Time
	Status    Status
	Notes     string
	CreatedAt time.Time
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// Terminal reports whether no further transition is defined.
func (a *Appointment) Terminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// AddNotes appends free-text notes, one line per call.
func (a *Appointment) AddNotes(notes string) {
	a.Notes += notes + "\n"
}

// ConfirmOutcome is the soft result of a confirmation attempt. Missing or
// wrong-state appointments report a reason instead of raising an error; the
// rest of the operation surface hard-fails. The asymmetry is deliberate and
// matches what callers render.
type ConfirmOutcome struct {
	Applied bool
	Reason  string
}
