package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinops/registry/internal/platform/errs"
)

func newTestService() *Service {
	return NewService(NewAccountRepoMem(), nil, bcrypt.MinCost, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{Provider: "Acme", PolicyNumber: "P-1"})
	if err := svc.Register(ctx, p, "password1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	actor, _, err := svc.Authenticate(ctx, "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.Base().ID != p.ID {
		t.Error("authenticated actor does not match registered account")
	}
	if actor.Role() != RolePatient {
		t.Errorf("expected role %s, got %s", RolePatient, actor.Role())
	}
	if actor.Base().PasswordDigest == "password1" {
		t.Error("password must be stored as a digest")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first := NewPatient("Alice", "alice@example.com", Insurance{})
	if err := svc.Register(ctx, first, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := NewDoctor("Also Alice", "alice@example.com", "Cardiology")
	err := svc.Register(ctx, second, "pw")
	if !errors.Is(err, errs.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{})
	svc.Register(ctx, p, "password1")

	_, _, err := svc.Authenticate(ctx, "alice@example.com", "nope")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.Authenticate(context.Background(), "ghost@example.com", "pw")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d := NewDoctor("Bob", "bob@example.com", "Surgery")
	svc.Register(ctx, d, "pw")

	if err := svc.Remove(ctx, d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, d.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
	// Removing the account frees the email for re-registration.
	if err := svc.Register(ctx, NewDoctor("Bob II", "bob@example.com", "Surgery"), "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemove_Unknown(t *testing.T) {
	svc := newTestService()
	d := NewDoctor("Bob", "bob@example.com", "Surgery")
	if err := svc.Remove(context.Background(), d.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoctorsAndPatients_RegistrationOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d1 := NewDoctor("First", "d1@example.com", "A")
	d2 := NewDoctor("Second", "d2@example.com", "B")
	p1 := NewPatient("Third", "p1@example.com", Insurance{})
	for _, a := range []Actor{d1, d2, p1} {
		if err := svc.Register(ctx, a, "pw"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	doctors, err := svc.Doctors(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctors) != 2 || doctors[0].ID != d1.ID || doctors[1].ID != d2.ID {
		t.Errorf("expected doctors in registration order, got %v", doctors)
	}

	patients, err := svc.Patients(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 1 || patients[0].ID != p1.ID {
		t.Errorf("expected the single registered patient, got %v", patients)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{Provider: "Acme"})
	svc.Register(ctx, p, "pw")

	err := svc.UpdateProfile(ctx, p.ID, ProfileUpdate{
		Name:              strPtr("Alice Cooper"),
		InsuranceProvider: strPtr("Globex"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Alice Cooper" {
		t.Errorf("expected name updated, got %q", p.Name)
	}
	if p.Insurance.Provider != "Globex" {
		t.Errorf("expected insurance provider updated, got %q", p.Insurance.Provider)
	}
}

func TestUpdateProfile_EmailChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{})
	other := NewPatient("Eve", "eve@example.com", Insurance{})
	svc.Register(ctx, p, "pw")
	svc.Register(ctx, other, "pw")

	// Taken email is rejected and the account keeps its old address.
	err := svc.UpdateProfile(ctx, p.ID, ProfileUpdate{Email: strPtr("eve@example.com")})
	if !errors.Is(err, errs.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
	if p.Email != "alice@example.com" {
		t.Errorf("email must be unchanged after rejected update, got %q", p.Email)
	}

	if err := svc.UpdateProfile(ctx, p.ID, ProfileUpdate{Email: strPtr("alice2@example.com")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice2@example.com", "pw"); err != nil {
		t.Fatalf("expected login under new email, got %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "pw"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("expected old email to stop resolving, got %v", err)
	}
}

func TestUpdateProfile_RoleFieldMismatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{})
	d := NewDoctor("Bob", "bob@example.com", "Surgery")
	svc.Register(ctx, p, "pw")
	svc.Register(ctx, d, "pw")

	err := svc.UpdateProfile(ctx, p.ID, ProfileUpdate{Specialization: strPtr("Cardiology")})
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for specialization on a patient, got %v", err)
	}
	err = svc.UpdateProfile(ctx, d.ID, ProfileUpdate{InsuranceProvider: strPtr("Acme")})
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for insurance on a doctor, got %v", err)
	}
}

func TestUpdateProfile_PasswordChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{})
	svc.Register(ctx, p, "old-pw")

	if err := svc.UpdateProfile(ctx, p.ID, ProfileUpdate{Password: strPtr("new-pw")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "new-pw"); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "old-pw"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
}

func TestPatientAndDoctorExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := NewPatient("Alice", "alice@example.com", Insurance{})
	d := NewDoctor("Bob", "bob@example.com", "Surgery")
	svc.Register(ctx, p, "pw")
	svc.Register(ctx, d, "pw")

	if ok, err := svc.PatientExists(ctx, p.ID); err != nil || !ok {
		t.Errorf("expected patient to exist, got ok=%v err=%v", ok, err)
	}
	if ok, err := svc.PatientExists(ctx, d.ID); err != nil || ok {
		t.Errorf("doctor id must not count as a patient, got ok=%v err=%v", ok, err)
	}
	if ok, err := svc.DoctorExists(ctx, d.ID); err != nil || !ok {
		t.Errorf("expected doctor to exist, got ok=%v err=%v", ok, err)
	}
	if ok, err := svc.DoctorExists(ctx, NewPatient("x", "x@example.com", Insurance{}).ID); err != nil || ok {
		t.Errorf("unknown id must report false without error, got ok=%v err=%v", ok, err)
	}
}
