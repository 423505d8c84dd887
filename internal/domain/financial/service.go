package financial

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/platform/errs"
)

// Service creates billings and applies payments against them.
type Service struct {
	billings BillingRepository
	patients PatientDirectory
	dueDays  int
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(billings BillingRepository, patients PatientDirectory, dueDays int, log zerolog.Logger) *Service {
	return &Service{
		billings: billings,
		patients: patients,
		dueDays:  dueDays,
		log:      log,
		now:      time.Now,
	}
}

// Create opens an Unpaid billing due dueDays from now.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, amountDue float64, description string) (*Billing, error) {
	ok, err := s.patients.PatientExists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", patientID, errs.ErrNotFound)
	}

	now := s.now()
	b := &Billing{
		ID:          uuid.New(),
		PatientID:   patientID,
		AmountDue:   amountDue,
		DueDate:     now.AddDate(0, 0, s.dueDays),
		Status:      StatusUnpaid,
		Description: description,
		CreatedAt:   now,
	}
	if err := s.billings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("billing_id", b.ID.String()).
		Str("patient_id", patientID.String()).
		Float64("amount_due", amountDue).
		Msg("billing created")
	return b, nil
}

// Pay applies a payment and returns the updated billing.
func (s *Service) Pay(ctx context.Context, billingID uuid.UUID, amount float64) (*Billing, error) {
	b, err := s.billings.GetByID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if err := b.ApplyPayment(amount, s.now()); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("billing_id", billingID.String()).
		Float64("amount", amount).
		Str("status", string(b.Status)).
		Msg("payment applied")
	return b, nil
}

// ByPatient returns the patient's billings in creation order.
func (s *Service) ByPatient(ctx context.Context, patientID uuid.UUID) ([]*Billing, error) {
	ok, err := s.patients.PatientExists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", patientID, errs.ErrNotFound)
	}
	return s.billings.ListByPatient(ctx, patientID)
}

// All returns every billing, for administrative views and reporting.
func (s *Service) All(ctx context.Context) ([]*Billing, error) {
	return s.billings.All(ctx)
}

// Statuses returns the status of every billing keyed by id.
func (s *Service) Statuses(ctx context.Context) (map[uuid.UUID]Status, error) {
	all, err := s.billings.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]Status, len(all))
	for _, b := range all {
		out[b.ID] = b.Status
	}
	return out, nil
}
