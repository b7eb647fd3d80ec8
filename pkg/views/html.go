// Package views renders the invoices dashboard as templ components.
//
// Markup lives in the *.templ files; run `templ generate` after editing them.
package views

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// InvoicesPath is the dashboard list page.
	InvoicesPath = "/dashboard/invoices"
	// InvoicesChangedEvent asks the list to reload itself.
	InvoicesChangedEvent = "invoicesChanged"
	// DeleteFailureMessage is alerted when a row delete is not confirmed.
	DeleteFailureMessage = "Failed to delete invoice"
)

func invoicePath(invoiceID, action string) string {
	return InvoicesPath + "/" + url.PathEscape(invoiceID) + "/" + action
}

// StatusPath returns the selector fragment URL for one invoice.
func StatusPath(invoiceID string, open bool) string {
	path := invoicePath(invoiceID, "status")
	if open {
		return path + "?open=1"
	}
	return path
}

// EditPath returns the edit page and status mutation URL for one invoice.
func EditPath(invoiceID string) string {
	return invoicePath(invoiceID, "edit")
}

// DeletePath returns the delete URL for one invoice.
func DeletePath(invoiceID string) string {
	return invoicePath(invoiceID, "delete")
}

// PDFPath returns the PDF export URL for one invoice.
func PDFPath(invoiceID string) string {
	return invoicePath(invoiceID, "pdf")
}

// domID turns an arbitrary id into something safe inside an HTML id and a
// CSS selector. Bytes outside [A-Za-z0-9-] become _xx hex, so distinct ids
// never share a DOM id.
func domID(prefix, id string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}
