package utils

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount in cents as US dollars, e.g. 123456 -> "$1,234.56".
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + usPrinter.Sprintf("%.2f", float64(cents)/100)
}

// FormatDateToLocal renders a date the way the dashboard lists it, e.g. "Dec 6, 2022".
func FormatDateToLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
