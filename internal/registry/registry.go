// Package registry exposes the authoritative operation surface over the
// clinical entity stores. All state lives in process memory for the
// lifetime of the registry; nothing is persisted.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/domain/clinical"
	"github.com/clinops/registry/internal/domain/financial"
	"github.com/clinops/registry/internal/domain/identity"
	"github.com/clinops/registry/internal/domain/reporting"
	"github.com/clinops/registry/internal/domain/scheduling"
	"github.com/clinops/registry/internal/platform/auth"
)

// Options carries the tunables the registry needs from configuration.
type Options struct {
	BcryptCost     int
	SessionSecret  string
	SessionTTL     time.Duration
	BillingDueDays int
}

// Registry is the aggregate root owning every entity index. A single
// reader/writer lock serializes mutations so that each check-then-act
// sequence (the scheduling conflict check and its insert, the dual-index
// registration) executes atomically. Reads share the lock; no operation
// performs I/O, so none take timeouts.
type Registry struct {
	mu sync.RWMutex

	identity   *identity.Service
	scheduling *scheduling.Service
	clinical   *clinical.Service
	financial  *financial.Service
	reporting  *reporting.Service

	log zerolog.Logger
}

// New wires the in-memory stores and domain services into one aggregate.
func New(opts Options, log zerolog.Logger) *Registry {
	var tokens *auth.TokenIssuer
	if opts.SessionSecret != "" {
		tokens = auth.NewTokenIssuer(opts.SessionSecret, opts.SessionTTL)
	}

	identitySvc := identity.NewService(identity.NewAccountRepoMem(), tokens, opts.BcryptCost, log)
	schedulingSvc := scheduling.NewService(
		scheduling.NewAppointmentRepoMem(),
		scheduling.NewAssignmentRepoMem(),
		identitySvc,
		log,
	)
	clinicalSvc := clinical.NewService(
		clinical.NewRecordRepoMem(),
		clinical.NewPrescriptionRepoMem(),
		identitySvc,
		log,
	)
	financialSvc := financial.NewService(
		financial.NewBillingRepoMem(),
		identitySvc,
		opts.BillingDueDays,
		log,
	)
	reportingSvc := reporting.NewService(
		schedulingSvc,
		financialSvc,
		reporting.NewReportRepoMem(),
		log,
	)

	return &Registry{
		identity:   identitySvc,
		scheduling: schedulingSvc,
		clinical:   clinicalSvc,
		financial:  financialSvc,
		reporting:  reportingSvc,
		log:        log,
	}
}

// -- Identity --

// RegisterUser inserts the actor into the id and email indexes as one step.
func (r *Registry) RegisterUser(ctx context.Context, a identity.Actor, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identity.Register(ctx, a, password)
}

// Authenticate returns the actor and a session token on a digest match.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (identity.Actor, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identity.Authenticate(ctx, email, password)
}

// RemoveUser deletes the index entries. Appointments, records and billings
// already issued against the id stay in place.
func (r *Registry) RemoveUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identity.Remove(ctx, id)
}

// UpdateProfile applies an explicit field-by-field profile update.
func (r *Registry) UpdateProfile(ctx context.Context, id uuid.UUID, upd identity.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identity.UpdateProfile(ctx, id, upd)
}

// Doctors lists registered doctors.
func (r *Registry) Doctors(ctx context.Context) ([]*identity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identity.Doctors(ctx)
}

// Patients lists registered patients.
func (r *Registry) Patients(ctx context.Context) ([]*identity.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identity.Patients(ctx)
}

// -- Scheduling --

// ScheduleAppointment books a patient with a doctor; the conflict check and
// insert are one atomic unit under the registry lock.
func (r *Registry) ScheduleAppointment(ctx context.Context, patientID, doctorID uuid.UUID, at time.Time) (*scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduling.Schedule(ctx, patientID, doctorID, at)
}

// ConfirmAppointment reports a soft outcome rather than an error for
// missing or non-Scheduled appointments.
func (r *Registry) ConfirmAppointment(ctx context.Context, id uuid.UUID) (scheduling.ConfirmOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduling.Confirm(ctx, id)
}

// CancelAppointment unconditionally cancels.
func (r *Registry) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduling.Cancel(ctx, id)
}

// CompleteAppointment finishes a Confirmed appointment.
func (r *Registry) CompleteAppointment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduling.Complete(ctx, id)
}

// RescheduleAppointment moves the timestamp after re-checking conflicts.
func (r *Registry) RescheduleAppointment(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduling.Reschedule(ctx, id, newTime)
}

// AppointmentsByDoctor returns the doctor's appointment view.
func (r *Registry) AppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheduling.ByDoctor(ctx, doctorID)
}

// AppointmentsByPatient returns the patient's appointment view.
func (r *Registry) AppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheduling.ByPatient(ctx, patientID)
}

// AppointmentRequests returns the doctor's still-Scheduled appointments.
func (r *Registry) AppointmentRequests(ctx context.Context, doctorID uuid.UUID) ([]*scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheduling.Requests(ctx, doctorID)
}

// -- Clinical --

// AddMedicalRecord appends a record to the patient's history.
func (r *Registry) AddMedicalRecord(ctx context.Context, patientID uuid.UUID, rec *clinical.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clinical.AddRecord(ctx, patientID, rec)
}

// GetMedicalRecords returns the patient's full history without an
// authorization check; use AccessMedicalRecords for requester-gated access.
func (r *Registry) GetMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*clinical.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clinical.Records(ctx, patientID)
}

// UpdateMedicalRecord amends a record; only the authoring doctor may.
func (r *Registry) UpdateMedicalRecord(ctx context.Context, recordID, doctorID uuid.UUID, upd clinical.RecordUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clinical.UpdateRecord(ctx, recordID, doctorID, upd)
}

// AddPrescription stores a prescription and attaches it to the most recent
// record, if the patient has one.
func (r *Registry) AddPrescription(ctx context.Context, patientID uuid.UUID, p *clinical.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clinical.AddPrescription(ctx, patientID, p)
}

// GetPrescriptions gathers the prescriptions attached to the patient's
// record history.
func (r *Registry) GetPrescriptions(ctx context.Context, patientID uuid.UUID) ([]*clinical.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clinical.Prescriptions(ctx, patientID)
}

// AccessMedicalRecords enforces the record-access policy before returning
// the patient's history.
func (r *Registry) AccessMedicalRecords(ctx context.Context, requester identity.Actor, patientID uuid.UUID) ([]*clinical.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	err := auth.AuthorizeRecordAccess(ctx, r.scheduling, string(requester.Role()), requester.Base().ID, patientID)
	if err != nil {
		r.log.Warn().
			Str("requester_id", requester.Base().ID.String()).
			Str("patient_id", patientID.String()).
			Msg("medical record access denied")
		return nil, err
	}
	return r.clinical.Records(ctx, patientID)
}

// -- Financial --

// CreateBilling opens an Unpaid billing for the patient.
func (r *Registry) CreateBilling(ctx context.Context, patientID uuid.UUID, amountDue float64, description string) (*financial.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.financial.Create(ctx, patientID, amountDue, description)
}

// ApplyPayment applies a payment against a billing.
func (r *Registry) ApplyPayment(ctx context.Context, billingID uuid.UUID, amount float64) (*financial.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.financial.Pay(ctx, billingID, amount)
}

// GetBillingInfo returns the patient's billings.
func (r *Registry) GetBillingInfo(ctx context.Context, patientID uuid.UUID) ([]*financial.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.financial.ByPatient(ctx, patientID)
}

// AllBillings returns every billing, for administrative views.
func (r *Registry) AllBillings(ctx context.Context) ([]*financial.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.financial.All(ctx)
}

// BillingStatuses returns the status of every billing keyed by id.
func (r *Registry) BillingStatuses(ctx context.Context) (map[uuid.UUID]financial.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.financial.Statuses(ctx)
}

// -- Reporting --

// GenerateReport renders and stores a snapshot. The write lock is taken
// because the snapshot itself is indexed.
func (r *Registry) GenerateReport(ctx context.Context, t reporting.Type) (*reporting.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reporting.Generate(ctx, t)
}
