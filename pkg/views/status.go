package views

import (
	"encoding/json"

	"invoice-dashboard/pkg/models"
)

const (
	badgeClass    = "inline-flex items-center rounded-full px-2 py-1 text-xs"
	disabledClass = "opacity-50 cursor-not-allowed"
)

// statusVals is the hx-vals payload of a menu entry.
func statusVals(status models.InvoiceStatus) string {
	vals, _ := json.Marshal(map[string]string{"status": status.String()})
	return string(vals)
}

func ariaBool(on bool) string {
	if on {
		return "true"
	}
	return "false"
}
