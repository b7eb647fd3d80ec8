// Package export renders invoices to downloadable documents.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"invoice-dashboard/pkg/invoicestatus"
	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/utils"
)

// Filename is the download name of an invoice PDF.
func Filename(invoiceID string) string {
	return fmt.Sprintf("invoice-%s.pdf", invoiceID)
}

// badge fill colors matching the dashboard badges
var statusFill = map[models.InvoiceStatus][3]int{
	models.StatusPending: {243, 244, 246},
	models.StatusPaid:    {34, 197, 94},
	models.StatusOverdue: {239, 68, 68},
}

// WriteInvoicePDF writes a one-page A4 summary of inv to w.
func WriteInvoicePDF(w io.Writer, inv models.InvoiceRow, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.ID, true)
	pdf.SetCreator("invoice-dashboard", true)
	pdf.SetCreationDate(generatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Cell(0, 6, tr("Invoice ID: "+inv.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated: "+utils.FormatDateToLocal(generatedAt))
	pdf.Ln(12)

	pdf.SetTextColor(17, 24, 39)
	rows := [][2]string{
		{"Customer", inv.Name},
		{"Email", inv.Email},
		{"Date", utils.FormatDateToLocal(inv.Date)},
		{"Amount", utils.FormatCurrency(inv.Amount)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 8, "Status", "", 0, "L", false, 0, "")
	details := invoicestatus.StatusDetails(inv.Status)
	label := details.Label
	if label == "" {
		label = "Unknown"
	}
	fill, ok := statusFill[inv.Status]
	if ok {
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		if inv.Status != models.StatusPending {
			pdf.SetTextColor(255, 255, 255)
		}
	}
	pdf.CellFormat(30, 8, label, "", 1, "C", ok, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}
	return nil
}
