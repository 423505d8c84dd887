package clinical

import (
	"time"

	"github.com/google/uuid"
)

// Medication is immutable once created: dosage changes are expressed by
// issuing a new prescription, never by editing an existing entry.
type Medication struct {
	ID        uuid.UUID
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

func NewMedication(name, dosage, frequency, duration string) Medication {
	return Medication{
		ID:        uuid.New(),
		Name:      name,
		Dosage:    dosage,
		Frequency: frequency,
		Duration:  duration,
	}
}

// Prescription carries instructions and the medications issued under them.
// It attaches to the patient's most recent medical record at issuance time,
// or stays unattached when the patient has no records yet.
type Prescription struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	IssuedAt     time.Time
	Instructions string
	Medications  []Medication
}

func NewPrescription(patientID, doctorID uuid.UUID, instructions string) *Prescription {
	return &Prescription{
		ID:           uuid.New(),
		PatientID:    patientID,
		DoctorID:     doctorID,
		Instructions: instructions,
	}
}

func (p *Prescription) AddMedication(m Medication) {
	p.Medications = append(p.Medications, m)
}

// MedicalRecord is an entry in a patient's history. Records are appended
// only after creation and never deleted. Prescriptions are referenced by id;
// the canonical instances live in the prescription store.
type MedicalRecord struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	CreatedAt       time.Time
	Diagnosis       string
	Treatment       string
	Notes           string
	PrescriptionIDs []uuid.UUID
}

func NewMedicalRecord(patientID, doctorID uuid.UUID, diagnosis, treatment, notes string) *MedicalRecord {
	return &MedicalRecord{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Diagnosis: diagnosis,
		Treatment: treatment,
		Notes:     notes,
	}
}

// RecordUpdate enumerates the fields the authoring doctor may amend. Nil
// fields are left untouched.
type RecordUpdate struct {
	Diagnosis *string
	Treatment *string
	Notes     *string
}
