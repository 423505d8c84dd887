package financial

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// Status is the billing lifecycle state. Paid is absorbing; Overdue is
// re-enterable while a balance remains.
type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
)

// Billing tracks an amount owed by a patient. The amount due only ever
// decreases after creation.
type Billing struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	AmountDue   float64
	AmountPaid  float64
	DueDate     time.Time
	Status      Status
	Description string
	CreatedAt   time.Time
}

// ApplyPayment reduces the balance. A payment covering the full balance
// settles the billing: status Paid, balance zero, any overpayment discarded.
// A partial payment decrements the balance and flips the status to Overdue
// when now is past the due date. Non-positive amounts are rejected and
// leave the billing untouched.
func (b *Billing) ApplyPayment(amount float64, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("amount %.2f: %w", amount, errs.ErrInvalidPayment)
	}
	if amount >= b.AmountDue {
		// Overpayment is discarded: only the outstanding balance is credited.
		b.AmountPaid += b.AmountDue
		b.Status = StatusPaid
		b.AmountDue = 0
		return nil
	}
	b.AmountPaid += amount
	b.AmountDue -= amount
	if now.After(b.DueDate) {
		b.Status = StatusOverdue
	}
	return nil
}
