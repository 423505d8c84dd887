package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// AccountRepoMem is the process-lifetime account store. It is not safe for
// concurrent use on its own; the registry aggregate serializes access.
type AccountRepoMem struct {
	byID    map[uuid.UUID]Actor
	byEmail map[string]Actor
	order   []uuid.UUID
}

func NewAccountRepoMem() *AccountRepoMem {
	return &AccountRepoMem{
		byID:    make(map[uuid.UUID]Actor),
		byEmail: make(map[string]Actor),
	}
}

func (r *AccountRepoMem) Create(_ context.Context, a Actor) error {
	acct := a.Base()
	if _, exists := r.byEmail[acct.Email]; exists {
		return fmt.Errorf("register %q: %w", acct.Email, errs.ErrDuplicateIdentity)
	}
	r.byID[acct.ID] = a
	r.byEmail[acct.Email] = a
	r.order = append(r.order, acct.ID)
	return nil
}

func (r *AccountRepoMem) GetByID(_ context.Context, id uuid.UUID) (Actor, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	return a, nil
}

func (r *AccountRepoMem) GetByEmail(_ context.Context, email string) (Actor, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", email, errs.ErrNotFound)
	}
	return a, nil
}

func (r *AccountRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	delete(r.byEmail, a.Base().Email)
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AccountRepoMem) ListByRole(_ context.Context, role Role) ([]Actor, error) {
	var out []Actor
	for _, id := range r.order {
		if a := r.byID[id]; a != nil && a.Role() == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AccountRepoMem) Reindex(_ context.Context, id uuid.UUID, newEmail string) error {
	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	if other, taken := r.byEmail[newEmail]; taken && other.Base().ID != id {
		return fmt.Errorf("change email to %q: %w", newEmail, errs.ErrDuplicateIdentity)
	}
	delete(r.byEmail, a.Base().Email)
	r.byEmail[newEmail] = a
	return nil
}
