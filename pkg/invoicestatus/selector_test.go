package invoicestatus

import (
	"context"
	"testing"

	"invoice-dashboard/pkg/models"
)

func TestStatusDetails(t *testing.T) {
	tests := []struct {
		status models.InvoiceStatus
		want   Details
	}{
		{status: models.StatusPending, want: Details{Label: "Pending", Icon: IconClock, IconClass: "ml-1 w-4 text-gray-500", Color: "bg-gray-100 text-gray-500"}},
		{status: models.StatusPaid, want: Details{Label: "Paid", Icon: IconCheck, IconClass: "ml-1 w-4 text-white", Color: "bg-green-500 text-white"}},
		{status: models.StatusOverdue, want: Details{Label: "Overdue", Icon: IconExclamationCircle, IconClass: "ml-1 w-4 text-white", Color: "bg-red-500 text-white"}},
		{status: "closed", want: Details{}},
		{status: "", want: Details{}},
	}
	for _, tt := range tests {
		if got := StatusDetails(tt.status); got != tt.want {
			t.Fatalf("StatusDetails(%q) = %+v, want %+v", tt.status, got, tt.want)
		}
	}
}

func TestBuildViewClosedHasNoMenu(t *testing.T) {
	view := BuildView(models.StatusPaid, false, false)
	if view.Open || len(view.Menu) != 0 {
		t.Fatalf("closed view = %+v", view)
	}
	if view.Trigger.Details.Label != "Paid" || view.Trigger.Disabled {
		t.Fatalf("trigger = %+v", view.Trigger)
	}
}

func TestBuildViewDisablesEverythingWhileUpdating(t *testing.T) {
	view := BuildView(models.StatusPending, true, true)
	if !view.Trigger.Disabled {
		t.Fatal("trigger enabled while updating")
	}
	if len(view.Menu) != 3 {
		t.Fatalf("menu has %d entries, want 3", len(view.Menu))
	}
	for _, e := range view.Menu {
		if !e.Disabled {
			t.Fatalf("menu entry %q enabled while updating", e.Status)
		}
	}
	if !view.Menu[0].Current || view.Menu[1].Current || view.Menu[2].Current {
		t.Fatalf("current flags = %+v", view.Menu)
	}
}

type selectorHarness struct {
	props    SelectorProps
	selected []models.InvoiceStatus
	selector *Selector
}

func newSelectorHarness(status models.InvoiceStatus) *selectorHarness {
	h := &selectorHarness{props: SelectorProps{Status: status}}
	h.selector = NewSelector(
		func() SelectorProps { return h.props },
		func(_ context.Context, s models.InvoiceStatus) { h.selected = append(h.selected, s) },
	)
	return h
}

func TestSelectorToggle(t *testing.T) {
	h := newSelectorHarness(models.StatusPending)
	h.selector.Toggle()
	if !h.selector.IsOpen() {
		t.Fatal("expected open after toggle")
	}
	h.selector.Toggle()
	if h.selector.IsOpen() {
		t.Fatal("expected closed after second toggle")
	}

	h.props.Updating = true
	h.selector.Toggle()
	if h.selector.IsOpen() {
		t.Fatal("toggle must be ignored while updating")
	}
}

func TestSelectorSelectDifferentStatus(t *testing.T) {
	h := newSelectorHarness(models.StatusPending)
	h.selector.Toggle()

	if !h.selector.Select(context.Background(), models.StatusPaid) {
		t.Fatal("expected callback")
	}
	if h.selector.IsOpen() {
		t.Fatal("menu should close after selection")
	}
	if len(h.selected) != 1 || h.selected[0] != models.StatusPaid {
		t.Fatalf("selected = %v", h.selected)
	}
}

func TestSelectorSelectSameStatusOnlyCloses(t *testing.T) {
	h := newSelectorHarness(models.StatusOverdue)
	h.selector.Toggle()

	if h.selector.Select(context.Background(), models.StatusOverdue) {
		t.Fatal("callback ran for identical status")
	}
	if h.selector.IsOpen() {
		t.Fatal("menu should close")
	}
	if len(h.selected) != 0 {
		t.Fatalf("selected = %v", h.selected)
	}
}

func TestSelectorIgnoresSelectionWhileUpdating(t *testing.T) {
	h := newSelectorHarness(models.StatusPending)
	h.selector.Toggle()
	h.props.Updating = true

	if h.selector.Select(context.Background(), models.StatusPaid) {
		t.Fatal("callback ran while updating")
	}
	if len(h.selected) != 0 {
		t.Fatalf("selected = %v", h.selected)
	}
	view := h.selector.View()
	if !view.Trigger.Disabled {
		t.Fatal("trigger enabled while updating")
	}
	for _, e := range view.Menu {
		if !e.Disabled {
			t.Fatalf("entry %s enabled while updating", e.Status)
		}
	}
}
