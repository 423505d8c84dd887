package scheduling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/platform/errs"
)

type mockActorDirectory struct {
	patients map[uuid.UUID]bool
	doctors  map[uuid.UUID]bool
}

func (m *mockActorDirectory) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.patients[id], nil
}

func (m *mockActorDirectory) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.doctors[id], nil
}

type fixture struct {
	svc     *Service
	patient uuid.UUID
	doctor  uuid.UUID
}

func newFixture() *fixture {
	patient := uuid.New()
	doctor := uuid.New()
	dir := &mockActorDirectory{
		patients: map[uuid.UUID]bool{patient: true},
		doctors:  map[uuid.UUID]bool{doctor: true},
	}
	svc := NewService(NewAppointmentRepoMem(), NewAssignmentRepoMem(), dir, zerolog.Nop())
	return &fixture{svc: svc, patient: patient, doctor: doctor}
}

var slot = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestSchedule(t *testing.T) {
	f := newFixture()
	appt, err := f.svc.Schedule(context.Background(), f.patient, f.doctor, slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("expected status %s, got %s", StatusScheduled, appt.Status)
	}
	if !appt.Time.Equal(slot) {
		t.Errorf("expected time %v, got %v", slot, appt.Time)
	}
}

func TestSchedule_UnknownPatient(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Schedule(context.Background(), uuid.New(), f.doctor, slot)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedule_UnknownDoctor(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Schedule(context.Background(), f.patient, uuid.New(), slot)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedule_DoubleBookingRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if !errors.Is(err, errs.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	if first.Status != StatusScheduled {
		t.Errorf("first appointment must be untouched, got %s", first.Status)
	}
	all, _ := f.svc.All(ctx)
	if len(all) != 1 {
		t.Errorf("expected exactly one appointment, got %d", len(all))
	}
}

func TestSchedule_AfterCancellationSucceeds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if err := f.svc.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Schedule(ctx, f.patient, f.doctor, slot); err != nil {
		t.Fatalf("expected slot to be free after cancellation, got %v", err)
	}
}

// A Confirmed appointment does not hold its slot against new bookings;
// only Scheduled ones do.
func TestSchedule_ConfirmedDoesNotBlockSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if outcome, _ := f.svc.Confirm(ctx, first.ID); !outcome.Applied {
		t.Fatalf("expected confirmation to apply: %s", outcome.Reason)
	}
	if _, err := f.svc.Schedule(ctx, f.patient, f.doctor, slot); err != nil {
		t.Fatalf("confirmed appointment must not block the slot, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	outcome, err := f.svc.Confirm(ctx, appt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Applied {
		t.Fatalf("expected confirmation to apply: %s", outcome.Reason)
	}
	if appt.Status != StatusConfirmed {
		t.Errorf("expected status %s, got %s", StatusConfirmed, appt.Status)
	}
}

func TestConfirm_MissingReportsOutcome(t *testing.T) {
	f := newFixture()
	outcome, err := f.svc.Confirm(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Applied {
		t.Fatal("expected confirmation not to apply")
	}
	if !strings.Contains(outcome.Reason, "not found") {
		t.Errorf("expected a not-found reason, got %q", outcome.Reason)
	}
}

func TestConfirm_WrongStateReportsOutcome(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	f.svc.Cancel(ctx, appt.ID)

	outcome, err := f.svc.Confirm(ctx, appt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Applied {
		t.Fatal("expected confirmation not to apply to a cancelled appointment")
	}
	if appt.Status != StatusCancelled {
		t.Errorf("appointment must stay cancelled, got %s", appt.Status)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if err := f.svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("repeat cancel must succeed, got %v", err)
	}
	if appt.Status != StatusCancelled {
		t.Errorf("expected status %s, got %s", StatusCancelled, appt.Status)
	}
}

func TestCancel_Unknown(t *testing.T) {
	f := newFixture()
	if err := f.svc.Cancel(context.Background(), uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	f.svc.Confirm(ctx, appt.ID)
	if err := f.svc.Complete(ctx, appt.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusCompleted {
		t.Errorf("expected status %s, got %s", StatusCompleted, appt.Status)
	}
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if err := f.svc.Complete(ctx, appt.ID); err == nil {
		t.Fatal("expected error completing a Scheduled appointment")
	}
	if appt.Status != StatusScheduled {
		t.Errorf("appointment must be untouched, got %s", appt.Status)
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	newTime := slot.Add(2 * time.Hour)
	if err := f.svc.Reschedule(ctx, appt.ID, newTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !appt.Time.Equal(newTime) {
		t.Errorf("expected time %v, got %v", newTime, appt.Time)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("status must be unchanged, got %s", appt.Status)
	}
}

// Moving an appointment to its own current slot must not conflict with
// itself.
func TestReschedule_SameSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if err := f.svc.Reschedule(ctx, appt.ID, slot); err != nil {
		t.Fatalf("rescheduling onto the same slot must succeed, got %v", err)
	}
}

func TestReschedule_ConflictWithOther(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	other, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot.Add(time.Hour))

	err := f.svc.Reschedule(ctx, other.ID, slot)
	if !errors.Is(err, errs.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	if !other.Time.Equal(slot.Add(time.Hour)) {
		t.Errorf("appointment must keep its old time, got %v", other.Time)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("blocking appointment must be untouched, got %s", appt.Status)
	}
}

func TestRequests_OnlyScheduled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a1, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	a2, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot.Add(time.Hour))
	a3, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot.Add(2*time.Hour))
	f.svc.Confirm(ctx, a1.ID)
	f.svc.Cancel(ctx, a2.ID)

	requests, err := f.svc.Requests(ctx, f.doctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != a3.ID {
		t.Errorf("expected only the still-Scheduled appointment, got %v", requests)
	}
}

func TestTreats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if ok, _ := f.svc.Treats(ctx, f.doctor, f.patient); ok {
		t.Fatal("expected no assignment before any appointment")
	}
	f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	if ok, _ := f.svc.Treats(ctx, f.doctor, f.patient); !ok {
		t.Fatal("expected assignment after a scheduled appointment")
	}
}

func TestByDoctorAndByPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a1, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot)
	a2, _ := f.svc.Schedule(ctx, f.patient, f.doctor, slot.Add(time.Hour))

	byDoctor, _ := f.svc.ByDoctor(ctx, f.doctor)
	if len(byDoctor) != 2 || byDoctor[0].ID != a1.ID || byDoctor[1].ID != a2.ID {
		t.Errorf("expected both appointments in creation order, got %v", byDoctor)
	}
	byPatient, _ := f.svc.ByPatient(ctx, f.patient)
	if len(byPatient) != 2 {
		t.Errorf("expected both appointments for the patient, got %d", len(byPatient))
	}
}
