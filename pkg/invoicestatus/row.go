package invoicestatus

import (
	"context"

	"invoice-dashboard/pkg/models"
)

// Row wires one selector to one coordinator: selections become status
// change requests and the coordinator's busy flag disables the selector.
type Row struct {
	Selector    *Selector
	Coordinator *Coordinator
}

// NewRow builds the editor for a single invoice row.
func NewRow(invoiceID string, initial models.InvoiceStatus, mutator Mutator, notifier Notifier) *Row {
	coord := NewCoordinator(invoiceID, initial, mutator, notifier)
	selector := NewSelector(
		func() SelectorProps {
			st := coord.State()
			return SelectorProps{Status: st.Status, Updating: st.Busy}
		},
		func(ctx context.Context, status models.InvoiceStatus) {
			coord.RequestStatusChange(ctx, status)
		},
	)
	return &Row{Selector: selector, Coordinator: coord}
}

// Choose opens the menu if needed and picks status, as a user would.
// It reports whether a change was confirmed.
func (r *Row) Choose(ctx context.Context, status models.InvoiceStatus) bool {
	if !r.Selector.IsOpen() {
		r.Selector.Toggle()
	}
	before := r.Coordinator.State().Status
	if !r.Selector.Select(ctx, status) {
		return false
	}
	return r.Coordinator.State().Status != before
}
