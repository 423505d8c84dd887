package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/domain/financial"
	"github.com/clinops/registry/internal/domain/scheduling"
)

// AppointmentSource provides the appointments a report aggregates over.
type AppointmentSource interface {
	All(ctx context.Context) ([]*scheduling.Appointment, error)
}

// BillingSource provides the billings a report aggregates over.
type BillingSource interface {
	All(ctx context.Context) ([]*financial.Billing, error)
}

// Service renders text report snapshots over the current indexes. Report
// generation never raises on caller input: an unknown type produces a
// placeholder body.
type Service struct {
	appointments AppointmentSource
	billings     BillingSource
	reports      ReportRepository
	log          zerolog.Logger
	now          func() time.Time
}

func NewService(appointments AppointmentSource, billings BillingSource, reports ReportRepository, log zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		billings:     billings,
		reports:      reports,
		log:          log,
		now:          time.Now,
	}
}

// Generate builds, stores and returns a snapshot of the requested type.
// The only failure mode is a source error; bad types soft-fail into the
// report body.
func (s *Service) Generate(ctx context.Context, t Type) (*Report, error) {
	var content string
	var err error
	switch t {
	case TypeFinancialSummary:
		content, err = s.financialSummary(ctx)
	case TypeAppointmentStatistics:
		content, err = s.appointmentStatistics(ctx)
	case TypeAppointmentListing:
		content, err = s.appointmentListing(ctx)
	case TypeFinancialListing:
		content, err = s.financialListing(ctx)
	default:
		content = fmt.Sprintf("Invalid report type: %q.", t)
	}
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          uuid.New(),
		Type:        t,
		Content:     content,
		GeneratedAt: s.now(),
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("report_id", rep.ID.String()).
		Str("type", string(t)).
		Msg("report generated")
	return rep, nil
}

// Get returns a previously generated snapshot.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *Service) financialSummary(ctx context.Context) (string, error) {
	all, err := s.billings.All(ctx)
	if err != nil {
		return "", err
	}
	var totalDue, totalPaid float64
	for _, b := range all {
		if b.Status != financial.StatusPaid {
			totalDue += b.AmountDue
		}
		totalPaid += b.AmountPaid
	}
	return fmt.Sprintf("Total Amount Due: %.2f\nTotal Amount Paid: %.2f", totalDue, totalPaid), nil
}

func (s *Service) appointmentStatistics(ctx context.Context) (string, error) {
	all, err := s.appointments.All(ctx)
	if err != nil {
		return "", err
	}
	counts := map[scheduling.Status]int{}
	for _, a := range all {
		counts[a.Status]++
	}
	return fmt.Sprintf(
		"Total Appointments: %d\nScheduled: %d\nConfirmed: %d\nCompleted: %d\nCancelled: %d",
		len(all),
		counts[scheduling.StatusScheduled],
		counts[scheduling.StatusConfirmed],
		counts[scheduling.StatusCompleted],
		counts[scheduling.StatusCancelled],
	), nil
}

func (s *Service) appointmentListing(ctx context.Context) (string, error) {
	all, err := s.appointments.All(ctx)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("Appointment Report:\n")
	for _, a := range all {
		fmt.Fprintf(&sb, "ID: %s, Patient ID: %s, Doctor ID: %s, Time: %s, Status: %s\n",
			a.ID, a.PatientID, a.DoctorID, a.Time.Format(time.RFC3339), a.Status)
	}
	return sb.String(), nil
}

func (s *Service) financialListing(ctx context.Context) (string, error) {
	all, err := s.billings.All(ctx)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("Financial Report:\n")
	for _, b := range all {
		fmt.Fprintf(&sb, "Billing ID: %s, Patient ID: %s, Amount Due: %.2f, Status: %s\n",
			b.ID, b.PatientID, b.AmountDue, b.Status)
	}
	return sb.String(), nil
}
