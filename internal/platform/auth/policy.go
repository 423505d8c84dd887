package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// Role names as carried by accounts. Kept as plain strings so this package
// stays independent of the identity model.
const (
	RolePatient       = "Patient"
	RoleDoctor        = "Doctor"
	RoleAdministrator = "Administrator"
)

// TreatmentDirectory answers whether a doctor has ever been assigned to a
// patient through a successful scheduling operation.
type TreatmentDirectory interface {
	Treats(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
}

// AuthorizeRecordAccess enforces the medical-record access policy:
// patients may read only their own history, doctors only that of patients
// they treat, administrators anything. Unknown roles are rejected outright.
func AuthorizeRecordAccess(ctx context.Context, dir TreatmentDirectory, requesterRole string, requesterID, patientID uuid.UUID) error {
	switch requesterRole {
	case RoleAdministrator:
		return nil
	case RolePatient:
		if requesterID != patientID {
			return fmt.Errorf("patients can only access their own medical records: %w", errs.ErrUnauthorized)
		}
		return nil
	case RoleDoctor:
		treats, err := dir.Treats(ctx, requesterID, patientID)
		if err != nil {
			return err
		}
		if !treats {
			return fmt.Errorf("doctor not assigned to this patient: %w", errs.ErrUnauthorized)
		}
		return nil
	default:
		return fmt.Errorf("role %q may not access medical records: %w", requesterRole, errs.ErrUnauthorized)
	}
}
