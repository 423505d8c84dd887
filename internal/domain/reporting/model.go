package reporting

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies one of the fixed report kinds. Unrecognized values
// produce a placeholder report, never an error.
type Type string

const (
	TypeFinancialSummary      Type = "financial-summary"
	TypeAppointmentStatistics Type = "appointment-statistics"
	TypeAppointmentListing    Type = "appointment-listing"
	TypeFinancialListing      Type = "financial-listing"
)

// Report is an immutable snapshot of the registry at generation time. It is
// never recomputed; regenerating the same type yields a new report.
type Report struct {
	ID          uuid.UUID
	Type        Type
	Content     string
	GeneratedAt time.Time
}

// Definition describes an available report kind for presentation menus,
// the way a measure catalog enumerates its entries.
type Definition struct {
	Type        Type
	Name        string
	Description string
}

// Definitions is the catalog of recognized report kinds.
var Definitions = []Definition{
	{
		Type:        TypeFinancialSummary,
		Name:        "Financial Summary",
		Description: "Outstanding and collected totals across all billings",
	},
	{
		Type:        TypeAppointmentStatistics,
		Name:        "Appointment Statistics",
		Description: "Appointment counts broken down by status",
	},
	{
		Type:        TypeAppointmentListing,
		Name:        "Appointment Listing",
		Description: "Every appointment with its participants, time and status",
	},
	{
		Type:        TypeFinancialListing,
		Name:        "Financial Listing",
		Description: "Every billing with its balance and status",
	},
}
