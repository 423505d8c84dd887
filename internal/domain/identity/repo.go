package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository owns the canonical account instances, keyed by id and
// by email. Both index entries move together: an insert or delete is one
// logical step.
type AccountRepository interface {
	Create(ctx context.Context, a Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (Actor, error)
	GetByEmail(ctx context.Context, email string) (Actor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, role Role) ([]Actor, error)

	// Reindex moves an account to a new email key, failing if the new
	// email is already taken by a different account.
	Reindex(ctx context.Context, id uuid.UUID, newEmail string) error
}
