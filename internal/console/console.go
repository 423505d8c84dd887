// Package console is the menu-driven presentation layer. It owns no state
// beyond the current session: every decision is delegated to the registry
// and every result or error kind is rendered as text.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinops/registry/internal/domain/clinical"
	"github.com/clinops/registry/internal/domain/financial"
	"github.com/clinops/registry/internal/domain/identity"
	"github.com/clinops/registry/internal/domain/reporting"
	"github.com/clinops/registry/internal/registry"
)

const timeLayout = "2006-01-02 15:04"

func parseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

type Console struct {
	reg *registry.Registry
	in  *bufio.Scanner
	out io.Writer
	log zerolog.Logger
}

func New(reg *registry.Registry, in io.Reader, out io.Writer, log zerolog.Logger) *Console {
	return &Console{
		reg: reg,
		in:  bufio.NewScanner(in),
		out: out,
		log: log,
	}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt reads one trimmed line; an exhausted input stream returns false.
func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// Run drives the interactive session until exit or end of input. The first
// account registered is the bootstrap administrator.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Welcome to the Clinical Operations Registry!\n\n")
	c.printf("Please register the initial Administrator account.\n")
	name, ok := c.prompt("Enter Administrator Name: ")
	if !ok {
		return nil
	}
	email, ok := c.prompt("Enter Administrator Email: ")
	if !ok {
		return nil
	}
	password, ok := c.prompt("Enter Administrator Password: ")
	if !ok {
		return nil
	}
	if err := c.reg.RegisterUser(ctx, identity.NewAdministrator(name, email), password); err != nil {
		c.printf("Error: %v\n\n", err)
		return err
	}
	c.printf("Administrator registered.\n\n")

	for {
		c.printf("=== Main Menu ===\n")
		c.printf("1. Login\n2. Register as Patient\n3. Register as Doctor\n4. Exit\n")
		choice, ok := c.prompt("Select an option: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			c.login(ctx)
		case "2":
			c.registerPatient(ctx)
		case "3":
			c.registerDoctor(ctx)
		case "4":
			c.printf("Exiting. Goodbye!\n")
			return nil
		default:
			c.printf("Invalid option. Please try again.\n\n")
		}
	}
}

func (c *Console) login(ctx context.Context) {
	email, ok := c.prompt("Enter Email: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Enter Password: ")
	if !ok {
		return
	}
	actor, _, err := c.reg.Authenticate(ctx, email, password)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Logged in as %s (%s).\n\n", actor.Base().Name, actor.Role())
	switch a := actor.(type) {
	case *identity.Patient:
		c.patientMenu(ctx, a)
	case *identity.Doctor:
		c.doctorMenu(ctx, a)
	case *identity.Administrator:
		c.adminMenu(ctx, a)
	}
}

func (c *Console) registerPatient(ctx context.Context) {
	c.printf("=== Patient Registration ===\n")
	name, ok := c.prompt("Enter Name: ")
	if !ok {
		return
	}
	email, ok := c.prompt("Enter Email: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Enter Password: ")
	if !ok {
		return
	}
	provider, ok := c.prompt("Enter Insurance Provider: ")
	if !ok {
		return
	}
	policy, ok := c.prompt("Enter Policy Number: ")
	if !ok {
		return
	}
	p := identity.NewPatient(name, email, identity.Insurance{Provider: provider, PolicyNumber: policy})
	if err := c.reg.RegisterUser(ctx, p, password); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Registration successful. You can now log in.\n\n")
}

func (c *Console) registerDoctor(ctx context.Context) {
	c.printf("=== Doctor Registration ===\n")
	name, ok := c.prompt("Enter Name: ")
	if !ok {
		return
	}
	email, ok := c.prompt("Enter Email: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Enter Password: ")
	if !ok {
		return
	}
	specialization, ok := c.prompt("Enter Specialization: ")
	if !ok {
		return
	}
	d := identity.NewDoctor(name, email, specialization)
	if err := c.reg.RegisterUser(ctx, d, password); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Registration successful. You can now log in.\n\n")
}

func (c *Console) patientMenu(ctx context.Context, p *identity.Patient) {
	for {
		c.printf("--- Patient Menu (%s) ---\n", p.Name)
		c.printf("1. View Prescriptions\n2. View Billing Details\n3. Request Appointment\n4. Make Payment\n5. Update Profile\n6. Logout\n")
		choice, ok := c.prompt("Select an option: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			prescriptions, err := c.reg.GetPrescriptions(ctx, p.ID)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(prescriptions) == 0 {
				c.printf("No prescriptions found.\n\n")
				continue
			}
			for _, rx := range prescriptions {
				c.printf("Prescription ID: %s, Instructions: %s\n", rx.ID, rx.Instructions)
				for _, m := range rx.Medications {
					c.printf("  - %s, Dosage: %s, Frequency: %s, Duration: %s\n", m.Name, m.Dosage, m.Frequency, m.Duration)
				}
			}
			c.printf("\n")
		case "2":
			c.renderBillings(ctx, p.ID)
		case "3":
			c.requestAppointment(ctx, p)
		case "4":
			c.makePayment(ctx, p)
		case "5":
			c.updateProfile(ctx, p)
		case "6":
			c.printf("Logging out...\n\n")
			return
		default:
			c.printf("Invalid option. Please try again.\n\n")
		}
	}
}

func (c *Console) renderBillings(ctx context.Context, patientID uuid.UUID) {
	billings, err := c.reg.GetBillingInfo(ctx, patientID)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	if len(billings) == 0 {
		c.printf("No billing details found.\n\n")
		return
	}
	for _, b := range billings {
		c.printf("Billing ID: %s\nAmount Due: %.2f\nDescription: %s\nStatus: %s\nDue Date: %s\n\n",
			b.ID, b.AmountDue, b.Description, b.Status, b.DueDate.Format(timeLayout))
	}
}

func (c *Console) requestAppointment(ctx context.Context, p *identity.Patient) {
	doctors, err := c.reg.Doctors(ctx)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	if len(doctors) == 0 {
		c.printf("No doctors available.\n\n")
		return
	}
	c.printf("Available Doctors:\n")
	for i, d := range doctors {
		c.printf("%d. %s (%s) - ID: %s\n", i+1, d.Name, d.Specialization, d.ID)
	}
	choice, ok := c.prompt("Select a doctor by number: ")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(doctors) {
		c.printf("Invalid selection.\n\n")
		return
	}
	doctor := doctors[idx-1]

	dateStr, ok := c.prompt("Enter appointment date and time (YYYY-MM-DD HH:MM): ")
	if !ok {
		return
	}
	at, err := time.Parse(timeLayout, dateStr)
	if err != nil {
		c.printf("Invalid date and time format.\n\n")
		return
	}
	appt, err := c.reg.ScheduleAppointment(ctx, p.ID, doctor.ID, at)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Appointment requested successfully with ID: %s\n\n", appt.ID)
}

func (c *Console) makePayment(ctx context.Context, p *identity.Patient) {
	billings, err := c.reg.GetBillingInfo(ctx, p.ID)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	var unpaid []*financial.Billing
	for _, b := range billings {
		if b.Status != financial.StatusPaid {
			unpaid = append(unpaid, b)
		}
	}
	if len(unpaid) == 0 {
		c.printf("No unpaid bills.\n\n")
		return
	}
	c.printf("Unpaid Bills:\n")
	for i, b := range unpaid {
		c.printf("%d. Billing ID: %s, Amount Due: %.2f, Description: %s\n", i+1, b.ID, b.AmountDue, b.Description)
	}
	choice, ok := c.prompt("Select a bill to pay by number: ")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(unpaid) {
		c.printf("Invalid selection.\n\n")
		return
	}
	amountStr, ok := c.prompt("Enter payment amount: ")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		c.printf("Invalid input.\n\n")
		return
	}
	b, err := c.reg.ApplyPayment(ctx, unpaid[idx-1].ID, amount)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Payment of %.2f applied. New Status: %s\n\n", amount, b.Status)
}

func (c *Console) doctorMenu(ctx context.Context, d *identity.Doctor) {
	for {
		c.printf("--- Doctor Menu (%s) ---\n", d.Name)
		c.printf("1. View Appointment Requests\n2. Confirm Appointment\n3. Add Medical Record\n4. Add Prescription\n5. Update Profile\n6. Logout\n")
		choice, ok := c.prompt("Select an option: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			requests, err := c.reg.AppointmentRequests(ctx, d.ID)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(requests) == 0 {
				c.printf("No appointment requests found.\n\n")
				continue
			}
			for _, a := range requests {
				c.printf("Appointment ID: %s, Patient ID: %s, Time: %s, Status: %s\n",
					a.ID, a.PatientID, a.Time.Format(timeLayout), a.Status)
			}
			c.printf("\n")
		case "2":
			idStr, ok := c.prompt("Enter Appointment ID to confirm: ")
			if !ok {
				return
			}
			id, err := parseID(idStr)
			if err != nil {
				c.printf("Invalid Appointment ID.\n\n")
				continue
			}
			outcome, err := c.reg.ConfirmAppointment(ctx, id)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if outcome.Applied {
				c.printf("Appointment %q has been confirmed.\n\n", idStr)
			} else {
				c.printf("%s\n\n", outcome.Reason)
			}
		case "3":
			c.addMedicalRecord(ctx, d)
		case "4":
			c.addPrescription(ctx, d)
		case "5":
			c.updateProfile(ctx, d)
		case "6":
			c.printf("Logging out...\n\n")
			return
		default:
			c.printf("Invalid option. Please try again.\n\n")
		}
	}
}

func (c *Console) addMedicalRecord(ctx context.Context, d *identity.Doctor) {
	patientIDStr, ok := c.prompt("Enter Patient ID to add medical record: ")
	if !ok {
		return
	}
	patientID, err := parseID(patientIDStr)
	if err != nil {
		c.printf("Invalid Patient ID.\n\n")
		return
	}
	diagnosis, ok := c.prompt("Enter Diagnosis: ")
	if !ok {
		return
	}
	treatment, ok := c.prompt("Enter Treatment: ")
	if !ok {
		return
	}
	notes, ok := c.prompt("Enter Notes: ")
	if !ok {
		return
	}
	rec := clinical.NewMedicalRecord(patientID, d.ID, diagnosis, treatment, notes)
	if err := c.reg.AddMedicalRecord(ctx, patientID, rec); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Medical record %s added.\n\n", rec.ID)
}

func (c *Console) addPrescription(ctx context.Context, d *identity.Doctor) {
	patientIDStr, ok := c.prompt("Enter Patient ID to add prescription: ")
	if !ok {
		return
	}
	patientID, err := parseID(patientIDStr)
	if err != nil {
		c.printf("Invalid Patient ID.\n\n")
		return
	}
	instructions, ok := c.prompt("Enter Prescription Instructions: ")
	if !ok {
		return
	}
	rx := clinical.NewPrescription(patientID, d.ID, instructions)
	for {
		answer, ok := c.prompt("Add Medication? (y/n): ")
		if !ok {
			return
		}
		if answer == "n" {
			break
		}
		if answer != "y" {
			c.printf("Please enter 'y' or 'n'.\n")
			continue
		}
		name, ok := c.prompt("Medication Name: ")
		if !ok {
			return
		}
		dosage, ok := c.prompt("Dosage: ")
		if !ok {
			return
		}
		frequency, ok := c.prompt("Frequency: ")
		if !ok {
			return
		}
		duration, ok := c.prompt("Duration: ")
		if !ok {
			return
		}
		rx.AddMedication(clinical.NewMedication(name, dosage, frequency, duration))
	}
	if err := c.reg.AddPrescription(ctx, patientID, rx); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Prescription %s added.\n\n", rx.ID)
}

func (c *Console) adminMenu(ctx context.Context, a *identity.Administrator) {
	for {
		c.printf("--- Administrator Menu (%s) ---\n", a.Name)
		c.printf("1. Add User\n2. Remove User\n3. View Doctors List\n4. View Patients List\n5. View Billing Information\n6. View Billing Statuses\n7. Create Billing\n8. Generate Reports\n9. Update Profile\n10. Logout\n")
		choice, ok := c.prompt("Select an option: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.addUser(ctx)
		case "2":
			idStr, ok := c.prompt("Enter User ID to remove: ")
			if !ok {
				return
			}
			id, err := parseID(idStr)
			if err != nil {
				c.printf("Invalid User ID.\n\n")
				continue
			}
			if err := c.reg.RemoveUser(ctx, id); err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			c.printf("User %s has been removed.\n\n", idStr)
		case "3":
			doctors, err := c.reg.Doctors(ctx)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(doctors) == 0 {
				c.printf("No doctors found.\n\n")
				continue
			}
			c.printf("=== Doctors List ===\n")
			for _, d := range doctors {
				c.printf("Doctor ID: %s, Name: %s, Specialization: %s\n", d.ID, d.Name, d.Specialization)
			}
			c.printf("\n")
		case "4":
			patients, err := c.reg.Patients(ctx)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(patients) == 0 {
				c.printf("No patients found.\n\n")
				continue
			}
			c.printf("=== Patients List ===\n")
			for _, p := range patients {
				c.printf("Patient ID: %s, Name: %s, Insurance: %s/%s\n",
					p.ID, p.Name, p.Insurance.Provider, p.Insurance.PolicyNumber)
			}
			c.printf("\n")
		case "5":
			billings, err := c.reg.AllBillings(ctx)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(billings) == 0 {
				c.printf("No billing information found.\n\n")
				continue
			}
			c.printf("=== Billing Information ===\n")
			for _, b := range billings {
				c.printf("Billing ID: %s, Patient ID: %s, Amount Due: %.2f, Status: %s\n",
					b.ID, b.PatientID, b.AmountDue, b.Status)
			}
			c.printf("\n")
		case "6":
			statuses, err := c.reg.BillingStatuses(ctx)
			if err != nil {
				c.printf("Error: %v\n\n", err)
				continue
			}
			if len(statuses) == 0 {
				c.printf("No billing statuses found.\n\n")
				continue
			}
			c.printf("=== Billing Statuses ===\n")
			for id, st := range statuses {
				c.printf("Billing ID: %s, Status: %s\n", id, st)
			}
			c.printf("\n")
		case "7":
			c.createBilling(ctx)
		case "8":
			c.generateReport(ctx)
		case "9":
			c.updateProfile(ctx, a)
		case "10":
			c.printf("Logging out...\n\n")
			return
		default:
			c.printf("Invalid option. Please try again.\n\n")
		}
	}
}

func (c *Console) addUser(ctx context.Context) {
	c.printf("Select User Role to Add:\n1. Patient\n2. Doctor\n3. Administrator\n")
	roleChoice, ok := c.prompt("Enter choice: ")
	if !ok {
		return
	}
	if roleChoice != "1" && roleChoice != "2" && roleChoice != "3" {
		c.printf("Invalid role selection.\n\n")
		return
	}
	name, ok := c.prompt("Enter Name: ")
	if !ok {
		return
	}
	email, ok := c.prompt("Enter Email: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Enter Password: ")
	if !ok {
		return
	}
	var actor identity.Actor
	switch roleChoice {
	case "1":
		provider, ok := c.prompt("Enter Insurance Provider: ")
		if !ok {
			return
		}
		policy, ok := c.prompt("Enter Policy Number: ")
		if !ok {
			return
		}
		actor = identity.NewPatient(name, email, identity.Insurance{Provider: provider, PolicyNumber: policy})
	case "2":
		specialization, ok := c.prompt("Enter Specialization: ")
		if !ok {
			return
		}
		actor = identity.NewDoctor(name, email, specialization)
	case "3":
		actor = identity.NewAdministrator(name, email)
	}
	if err := c.reg.RegisterUser(ctx, actor, password); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("User %s added.\n\n", actor.Base().ID)
}

func (c *Console) createBilling(ctx context.Context) {
	patientIDStr, ok := c.prompt("Enter Patient ID: ")
	if !ok {
		return
	}
	patientID, err := parseID(patientIDStr)
	if err != nil {
		c.printf("Invalid Patient ID.\n\n")
		return
	}
	amountStr, ok := c.prompt("Enter Amount Due: ")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		c.printf("Invalid input.\n\n")
		return
	}
	description, ok := c.prompt("Enter Description: ")
	if !ok {
		return
	}
	b, err := c.reg.CreateBilling(ctx, patientID, amount, description)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Billing %s created. Amount Due: %.2f\n\n", b.ID, b.AmountDue)
}

func (c *Console) generateReport(ctx context.Context) {
	c.printf("Select Report Type:\n")
	for i, def := range reporting.Definitions {
		c.printf("%d. %s\n", i+1, def.Name)
	}
	choice, ok := c.prompt("Enter choice: ")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(reporting.Definitions) {
		c.printf("Invalid report selection.\n\n")
		return
	}
	rep, err := c.reg.GenerateReport(ctx, reporting.Definitions[idx-1].Type)
	if err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("--- %s Report ---\n%s\nGenerated at: %s\n-----------------------------\n\n",
		rep.Type, rep.Content, rep.GeneratedAt.Format(timeLayout))
}

// updateProfile prompts for the fields the actor's role permits; blank
// answers keep the current value.
func (c *Console) updateProfile(ctx context.Context, actor identity.Actor) {
	c.printf("=== Update Profile ===\n")
	c.printf("Leave field blank to keep current value.\n")
	acct := actor.Base()
	var upd identity.ProfileUpdate
	if name, ok := c.prompt(fmt.Sprintf("Name [%s]: ", acct.Name)); !ok {
		return
	} else if name != "" {
		upd.Name = &name
	}
	if email, ok := c.prompt(fmt.Sprintf("Email [%s]: ", acct.Email)); !ok {
		return
	} else if email != "" {
		upd.Email = &email
	}
	switch v := actor.(type) {
	case *identity.Patient:
		if provider, ok := c.prompt(fmt.Sprintf("Insurance Provider [%s]: ", v.Insurance.Provider)); !ok {
			return
		} else if provider != "" {
			upd.InsuranceProvider = &provider
		}
		if policy, ok := c.prompt(fmt.Sprintf("Insurance Policy Number [%s]: ", v.Insurance.PolicyNumber)); !ok {
			return
		} else if policy != "" {
			upd.InsurancePolicy = &policy
		}
	case *identity.Doctor:
		if specialization, ok := c.prompt(fmt.Sprintf("Specialization [%s]: ", v.Specialization)); !ok {
			return
		} else if specialization != "" {
			upd.Specialization = &specialization
		}
	}
	if err := c.reg.UpdateProfile(ctx, acct.ID, upd); err != nil {
		c.printf("Error: %v\n\n", err)
		return
	}
	c.printf("Profile updated successfully.\n\n")
}
