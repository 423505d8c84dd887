package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role tags the closed set of account variants.
type Role string

const (
	RolePatient       Role = "Patient"
	RoleDoctor        Role = "Doctor"
	RoleAdministrator Role = "Administrator"
)

// Account holds the credential fields shared by every role variant. The
// password is kept only as a one-way digest.
type Account struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordDigest string
	CreatedAt      time.Time
}

// Actor is the closed union over the three role variants. The unexported
// marker keeps the set closed: only Patient, Doctor and Administrator
// implement it.
type Actor interface {
	Role() Role
	Base() *Account
	isActor()
}

// Insurance is the coverage information carried on a patient account.
type Insurance struct {
	Provider     string
	PolicyNumber string
}

type Patient struct {
	Account
	Insurance Insurance
}

func NewPatient(name, email string, insurance Insurance) *Patient {
	return &Patient{
		Account:   Account{ID: uuid.New(), Name: name, Email: email},
		Insurance: insurance,
	}
}

func (p *Patient) Role() Role     { return RolePatient }
func (p *Patient) Base() *Account { return &p.Account }
func (*Patient) isActor()         {}

type Doctor struct {
	Account
	Specialization string
}

func NewDoctor(name, email, specialization string) *Doctor {
	return &Doctor{
		Account:        Account{ID: uuid.New(), Name: name, Email: email},
		Specialization: specialization,
	}
}

func (d *Doctor) Role() Role     { return RoleDoctor }
func (d *Doctor) Base() *Account { return &d.Account }
func (*Doctor) isActor()         {}

type Administrator struct {
	Account
}

func NewAdministrator(name, email string) *Administrator {
	return &Administrator{Account: Account{ID: uuid.New(), Name: name, Email: email}}
}

func (a *Administrator) Role() Role     { return RoleAdministrator }
func (a *Administrator) Base() *Account { return &a.Account }
func (*Administrator) isActor()         {}

// ProfileUpdate enumerates the fields an actor may change on its own
// profile. Nil fields are left untouched. Role-specific fields are rejected
// by the service when they do not apply to the target's variant.
type ProfileUpdate struct {
	Name              *string
	Email             *string
	Password          *string
	InsuranceProvider *string
	InsurancePolicy   *string
	Specialization    *string
}
