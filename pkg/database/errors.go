package database

import "errors"

var (
	// ErrInvoiceNotFound is returned when no invoice has the requested id.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidStatus rejects status values outside pending/paid/overdue.
	ErrInvalidStatus = errors.New("invalid invoice status")
)
