package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinops/registry/internal/registry"
)

func newTestRegistry() *registry.Registry {
	return registry.New(registry.Options{
		BcryptCost:     bcrypt.MinCost,
		SessionTTL:     time.Hour,
		BillingDueDays: 30,
	}, zerolog.Nop())
}

func runScript(t *testing.T, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	c := New(newTestRegistry(), in, &out, zerolog.Nop())
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

func TestRun_BootstrapAndExit(t *testing.T) {
	out := runScript(t,
		"Ada", "ada@clinic.example", "pw", // initial administrator
		"4", // exit
	)
	if !strings.Contains(out, "Administrator registered.") {
		t.Errorf("expected bootstrap confirmation in:\n%s", out)
	}
	if !strings.Contains(out, "Exiting. Goodbye!") {
		t.Errorf("expected exit message in:\n%s", out)
	}
}

func TestRun_RegisterAndLoginPatient(t *testing.T) {
	out := runScript(t,
		"Ada", "ada@clinic.example", "pw",
		"2", // register as patient
		"Pat", "pat@clinic.example", "pw", "Acme", "P-1",
		"1", // login
		"pat@clinic.example", "pw",
		"6", // logout from the patient menu
		"4", // exit
	)
	if !strings.Contains(out, "Registration successful.") {
		t.Errorf("expected registration confirmation in:\n%s", out)
	}
	if !strings.Contains(out, "Logged in as Pat (Patient).") {
		t.Errorf("expected patient login in:\n%s", out)
	}
}

func TestRun_BadCredentialsReported(t *testing.T) {
	out := runScript(t,
		"Ada", "ada@clinic.example", "pw",
		"1", // login
		"ada@clinic.example", "wrong",
		"4", // exit
	)
	if !strings.Contains(out, "Error: invalid email or password") {
		t.Errorf("expected credential error in:\n%s", out)
	}
}

func TestRun_AdminMenuLists(t *testing.T) {
	out := runScript(t,
		"Ada", "ada@clinic.example", "pw",
		"3", // register as doctor
		"Dora", "dora@clinic.example", "pw", "Cardiology",
		"1", // login as admin
		"ada@clinic.example", "pw",
		"3",  // doctors list
		"10", // logout
		"4",  // exit
	)
	if !strings.Contains(out, "=== Doctors List ===") {
		t.Errorf("expected doctors list header in:\n%s", out)
	}
	if !strings.Contains(out, "Specialization: Cardiology") {
		t.Errorf("expected the registered doctor in:\n%s", out)
	}
}
