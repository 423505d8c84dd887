package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/platform/auth"
	"github.com/clinops/registry/internal/platform/errs"
)

// Service implements registration, authentication and account lifecycle.
type Service struct {
	accounts   AccountRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(accounts AccountRepository, tokens *auth.TokenIssuer, bcryptCost int, log zerolog.Logger) *Service {
	return &Service{
		accounts:   accounts,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// Register digests the password and inserts the actor into both lookup
// indexes. A reused email fails with ErrDuplicateIdentity before anything
// is written.
func (s *Service) Register(ctx context.Context, a Actor, password string) error {
	acct := a.Base()
	if acct.Email == "" {
		return fmt.Errorf("register: email is required")
	}
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	digest, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("digest password: %w", err)
	}
	acct.PasswordDigest = digest
	acct.CreatedAt = s.now()

	if err := s.accounts.Create(ctx, a); err != nil {
		return err
	}
	s.log.Info().
		Str("role", string(a.Role())).
		Str("user_id", acct.ID.String()).
		Msg("user registered")
	return nil
}

// Authenticate resolves the email and compares digests. Unknown email and
// wrong password are reported identically. On success it returns the actor
// and a signed session token for the presentation layer to hold.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Actor, string, error) {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, "", errs.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(a.Base().PasswordDigest, password) {
		return nil, "", errs.ErrInvalidCredentials
	}

	var token string
	if s.tokens != nil {
		token, err = s.tokens.Issue(a.Base().ID, string(a.Role()))
		if err != nil {
			return nil, "", err
		}
	}
	s.log.Info().
		Str("role", string(a.Role())).
		Str("user_id", a.Base().ID.String()).
		Msg("user authenticated")
	return a, token, nil
}

// Remove deletes the account from both indexes. Appointments, records and
// billings already issued against the id are left in place.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.String()).Msg("user removed")
	return nil
}

// Get returns the actor for an id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Actor, error) {
	return s.accounts.GetByID(ctx, id)
}

// Doctors lists registered doctors in registration order.
func (s *Service) Doctors(ctx context.Context) ([]*Doctor, error) {
	actors, err := s.accounts.ListByRole(ctx, RoleDoctor)
	if err != nil {
		return nil, err
	}
	out := make([]*Doctor, 0, len(actors))
	for _, a := range actors {
		out = append(out, a.(*Doctor))
	}
	return out, nil
}

// Patients lists registered patients in registration order.
func (s *Service) Patients(ctx context.Context) ([]*Patient, error) {
	actors, err := s.accounts.ListByRole(ctx, RolePatient)
	if err != nil {
		return nil, err
	}
	out := make([]*Patient, 0, len(actors))
	for _, a := range actors {
		out = append(out, a.(*Patient))
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of upd to the account. An email
// change re-checks uniqueness before the account is touched; role-specific
// fields must match the target's variant.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	acct := a.Base()

	if upd.Specialization != nil && a.Role() != RoleDoctor {
		return fmt.Errorf("specialization applies only to doctors: %w", errs.ErrUnauthorized)
	}
	if (upd.InsuranceProvider != nil || upd.InsurancePolicy != nil) && a.Role() != RolePatient {
		return fmt.Errorf("insurance details apply only to patients: %w", errs.ErrUnauthorized)
	}

	if upd.Email != nil && *upd.Email != acct.Email {
		if err := s.accounts.Reindex(ctx, id, *upd.Email); err != nil {
			return err
		}
		acct.Email = *upd.Email
	}
	if upd.Name != nil {
		acct.Name = *upd.Name
	}
	if upd.Password != nil {
		digest, err := auth.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("digest password: %w", err)
		}
		acct.PasswordDigest = digest
	}
	switch v := a.(type) {
	case *Patient:
		if upd.InsuranceProvider != nil {
			v.Insurance.Provider = *upd.InsuranceProvider
		}
		if upd.InsurancePolicy != nil {
			v.Insurance.PolicyNumber = *upd.InsurancePolicy
		}
	case *Doctor:
		if upd.Specialization != nil {
			v.Specialization = *upd.Specialization
		}
	}
	s.log.Info().Str("user_id", id.String()).Msg("profile updated")
	return nil
}

// PatientExists reports whether the id resolves to a patient account.
func (s *Service) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return a.Role() == RolePatient, nil
}

// DoctorExists reports whether the id resolves to a doctor account.
func (s *Service) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return a.Role() == RoleDoctor, nil
}
