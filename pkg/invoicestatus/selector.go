package invoicestatus

import (
	"context"
	"sync"

	"invoice-dashboard/pkg/models"
)

// ChangeFunc is invoked when the user picks a status different from the current one.
type ChangeFunc func(ctx context.Context, status models.InvoiceStatus)

// SelectorProps are the inputs the selector renders from.
type SelectorProps struct {
	Status   models.InvoiceStatus
	Updating bool
}

// Entry is one clickable status affordance (the trigger or a menu item).
type Entry struct {
	Status   models.InvoiceStatus
	Details  Details
	Current  bool
	Disabled bool
}

// SelectorView is everything needed to draw a selector.
type SelectorView struct {
	Trigger Entry
	Open    bool
	Menu    []Entry
}

// BuildView is the pure rendering function of the selector. Menu is only
// populated when open; every entry is disabled while updating.
func BuildView(status models.InvoiceStatus, open, updating bool) SelectorView {
	view := SelectorView{
		Trigger: Entry{
			Status:   status,
			Details:  StatusDetails(status),
			Current:  true,
			Disabled: updating,
		},
		Open: open,
	}
	if !open {
		return view
	}
	for _, s := range models.AllInvoiceStatuses() {
		view.Menu = append(view.Menu, Entry{
			Status:   s,
			Details:  StatusDetails(s),
			Current:  s == status,
			Disabled: updating,
		})
	}
	return view
}

// Selector keeps the open/closed menu state of one row and reports
// selections upward. It never talks to the network.
type Selector struct {
	mu       sync.Mutex
	open     bool
	props    func() SelectorProps
	onChange ChangeFunc
}

// NewSelector builds a selector reading its inputs from props.
func NewSelector(props func() SelectorProps, onChange ChangeFunc) *Selector {
	return &Selector{props: props, onChange: onChange}
}

// Toggle opens or closes the menu. Ignored while updating.
func (s *Selector) Toggle() {
	if s.props().Updating {
		return
	}
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
}

// IsOpen reports whether the menu is shown.
func (s *Selector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Select handles a click on a menu entry and reports whether the change
// callback ran. Disabled entries (while updating) do nothing; picking the
// current status only closes the menu.
func (s *Selector) Select(ctx context.Context, status models.InvoiceStatus) bool {
	props := s.props()
	if props.Updating {
		return false
	}

	s.mu.Lock()
	s.open = false
	s.mu.Unlock()

	if status == props.Status || s.onChange == nil {
		return false
	}
	s.onChange(ctx, status)
	return true
}

// View renders the current state.
func (s *Selector) View() SelectorView {
	props := s.props()
	return BuildView(props.Status, s.IsOpen(), props.Updating)
}
