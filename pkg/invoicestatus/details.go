// Package invoicestatus holds the inline status editor of the invoices table:
// the display lookup, the per-row selector view-model, and the coordinator that
// sends status changes to the dashboard and reconciles the confirmed result.
package invoicestatus

import "invoice-dashboard/pkg/models"

// Icon names a heroicons outline glyph.
type Icon string

const (
	IconNone              Icon = ""
	IconClock             Icon = "clock"
	IconCheck             Icon = "check"
	IconExclamationCircle Icon = "exclamation-circle"
)

// Details is how a status is drawn: label, icon and badge colors.
type Details struct {
	Label     string
	Icon      Icon
	IconClass string
	Color     string
}

// StatusDetails returns the display details for status. Unknown values
// yield the zero Details, which renders as an empty neutral badge.
func StatusDetails(status models.InvoiceStatus) Details {
	switch status {
	case models.StatusPending:
		return Details{
			Label:     "Pending",
			Icon:      IconClock,
			IconClass: "ml-1 w-4 text-gray-500",
			Color:     "bg-gray-100 text-gray-500",
		}
	case models.StatusPaid:
		return Details{
			Label:     "Paid",
			Icon:      IconCheck,
			IconClass: "ml-1 w-4 text-white",
			Color:     "bg-green-500 text-white",
		}
	case models.StatusOverdue:
		return Details{
			Label:     "Overdue",
			Icon:      IconExclamationCircle,
			IconClass: "ml-1 w-4 text-white",
			Color:     "bg-red-500 text-white",
		}
	default:
		return Details{}
	}
}
