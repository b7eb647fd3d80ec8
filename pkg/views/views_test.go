package views

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"invoice-dashboard/pkg/invoicestatus"
	"invoice-dashboard/pkg/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	return b.String()
}

func TestStatusSelectorClosed(t *testing.T) {
	html := render(t, StatusSelector("inv-1", invoicestatus.BuildView(models.StatusPaid, false, false)))

	for _, want := range []string{
		`id="status-inv-1"`,
		`hx-get="/dashboard/invoices/inv-1/status?open=1"`,
		`aria-expanded="false"`,
		"Paid",
		"bg-green-500 text-white",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, `role="menu"`) {
		t.Fatal("closed selector should not render a menu")
	}
	if strings.Contains(html, " disabled") {
		t.Fatal("idle selector should not be disabled")
	}
}

func TestStatusSelectorOpenMenu(t *testing.T) {
	html := render(t, StatusSelector("inv-1", invoicestatus.BuildView(models.StatusPending, true, false)))

	if got := strings.Count(html, `role="menuitem"`); got != 3 {
		t.Fatalf("menu items = %d, want 3", got)
	}
	// the trigger now closes the menu
	if !strings.Contains(html, `hx-get="/dashboard/invoices/inv-1/status"`) {
		t.Fatalf("missing close link in %s", html)
	}
	if got := strings.Count(html, `hx-post="/dashboard/invoices/inv-1/edit"`); got != 2 {
		t.Fatalf("edit entries = %d, want 2 (current status only closes)", got)
	}
	if !strings.Contains(html, `hx-vals="{&#34;status&#34;:&#34;overdue&#34;}"`) {
		t.Fatalf("missing escaped hx-vals in %s", html)
	}
	pending := strings.Index(html, ">Pending<")
	paid := strings.Index(html, ">Paid<")
	overdue := strings.Index(html, ">Overdue<")
	if pending < 0 || paid < 0 || overdue < 0 {
		t.Fatalf("missing menu labels in %s", html)
	}
}

func TestStatusSelectorUpdatingIsDisabled(t *testing.T) {
	html := render(t, StatusSelector("inv-1", invoicestatus.BuildView(models.StatusPending, true, true)))

	if got := strings.Count(html, " disabled>"); got != 4 {
		t.Fatalf("disabled buttons = %d, want 4", got)
	}
	if got := strings.Count(html, "opacity-50"); got != 4 {
		t.Fatalf("opacity-50 = %d, want 4", got)
	}
}

func TestStatusSelectorUnknownStatusIsNeutral(t *testing.T) {
	html := render(t, StatusSelector("inv-1", invoicestatus.BuildView(models.InvoiceStatus("archived"), false, false)))

	if strings.Contains(html, "archived") {
		t.Fatal("unknown status should not render its raw value")
	}
	if strings.Contains(html, "bg-") {
		t.Fatalf("unknown status should have no color, got %s", html)
	}
}

func TestStatusSelectorSanitizesDOMID(t *testing.T) {
	html := render(t, StatusSelector(`a"b c`, invoicestatus.BuildView(models.StatusPaid, false, false)))
	if !strings.Contains(html, `id="status-a_22b_20c"`) {
		t.Fatalf("unexpected id in %s", html)
	}
	if !strings.Contains(html, "/dashboard/invoices/a%22b%20c/status") {
		t.Fatalf("unexpected status path in %s", html)
	}
}

func TestDOMIDDistinctIDsNeverCollide(t *testing.T) {
	ids := []string{"a.b", "a_b", "a b", "a/b", "a_2eb", "inv-1", "INV-1"}
	seen := map[string]string{}
	for _, id := range ids {
		got := domID("status-", id)
		if prev, ok := seen[got]; ok {
			t.Fatalf("domID(%q) = domID(%q) = %q", id, prev, got)
		}
		seen[got] = id
		for _, c := range strings.TrimPrefix(got, "status-") {
			if !(c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
				t.Fatalf("domID(%q) = %q contains %q", id, got, c)
			}
		}
	}
	if got := domID("row-", "inv-1"); got != "row-inv-1" {
		t.Fatalf("plain ids should pass through, got %q", got)
	}
}

func TestStatusSelectorCarriesCloseURL(t *testing.T) {
	// a failed edit reloads this URL, which renders the closed selector
	html := render(t, StatusSelector("inv-1", invoicestatus.BuildView(models.StatusPending, true, false)))
	for _, want := range []string{
		`data-close-url="/dashboard/invoices/inv-1/status"`,
		`hx-target="this"`,
		`hx-swap="outerHTML"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestInvoicesContentEmpty(t *testing.T) {
	html := render(t, InvoicesContent(InvoicesData{ActiveTab: models.TabClosed, Page: 1}))

	if !strings.Contains(html, EmptyMessage) {
		t.Fatalf("missing empty message in %s", html)
	}
	if strings.Contains(html, "<table") {
		t.Fatal("empty list should not render a table")
	}
	if !strings.Contains(html, `aria-current="page">Canceled</a>`) {
		t.Fatalf("closed tab should be active, got %s", html)
	}
}

func TestInvoicesContentRows(t *testing.T) {
	data := InvoicesData{
		Query:      "lee",
		ActiveTab:  models.TabAll,
		Page:       2,
		TotalPages: 3,
		Invoices: []models.InvoiceRow{{
			ID:       "inv-9",
			Name:     "Lee <Robinson>",
			Email:    "lee@robinson.com",
			ImageURL: "/customers/lee-robinson.png",
			Amount:   123456,
			Date:     time.Date(2022, 12, 6, 0, 0, 0, 0, time.UTC),
			Status:   models.StatusOverdue,
		}},
	}
	html := render(t, InvoicesContent(data))

	for _, want := range []string{
		"Lee &lt;Robinson&gt;",
		"lee@robinson.com",
		"$1,234.56",
		"Dec 6, 2022",
		`id="status-inv-9"`,
		`href="/dashboard/invoices/inv-9/pdf"`,
		`value="lee"`,
		`href="/dashboard/invoices?page=3&amp;query=lee"`,
		`href="/dashboard/invoices?query=lee&amp;tab=paid"`,
		`id="row-inv-9"`,
		`href="/dashboard/invoices/inv-9/edit"`,
		`action="/dashboard/invoices/inv-9/delete"`,
		`hx-post="/dashboard/invoices/inv-9/delete"`,
		`hx-target="#row-inv-9"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, EmptyMessage) {
		t.Fatal("rows present, empty message should not render")
	}
}

func TestInvoicesPageIncludesAlertHook(t *testing.T) {
	html := render(t, InvoicesPage(InvoicesData{Page: 1}))
	if !strings.HasPrefix(strings.ToLower(html), "<!doctype html>") {
		t.Fatalf("expected document, got %.40s", html)
	}
	for _, want := range []string{
		"htmx:responseError",
		"htmx:sendError",
		"data-close-url",
		strconv.Quote(invoicestatus.FailureMessage),
		strconv.Quote(DeleteFailureMessage),
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("layout script missing %q", want)
		}
	}
	// one listener per failure kind, nothing keyed on HX-Trigger
	if got := strings.Count(html, "window.alert("); got != 1 {
		t.Fatalf("alert call sites = %d, want 1", got)
	}
	if strings.Count(html, "addEventListener(") != 2 {
		t.Fatal("expected exactly the responseError and sendError listeners")
	}
	if !strings.Contains(html, `<main id="invoices"`) {
		t.Fatal("layout should embed the invoices content")
	}
}

func TestInvoicesContentReloadsOnChange(t *testing.T) {
	html := render(t, InvoicesContent(InvoicesData{Query: "lee", Page: 2, TotalPages: 3}))
	for _, want := range []string{
		`hx-get="/dashboard/invoices?page=2&amp;query=lee"`,
		`hx-trigger="invoicesChanged from:body"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestEditInvoiceForm(t *testing.T) {
	invoice := models.InvoiceRow{
		ID:         "inv-3",
		CustomerID: "cust-1",
		Name:       "Lee Robinson",
		Amount:     15795,
		Date:       time.Date(2022, 12, 6, 0, 0, 0, 0, time.UTC),
		Status:     models.StatusPending,
	}
	html := render(t, EditInvoiceForm(invoice))
	for _, want := range []string{
		`action="/dashboard/invoices/inv-3/edit"`,
		`method="post"`,
		"Lee Robinson",
		"$157.95",
		`href="/dashboard/invoices"`,
		"Edit Invoice",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
	if got := strings.Count(html, `type="radio" name="status"`); got != 3 {
		t.Fatalf("radios = %d, want 3", got)
	}
	if got := strings.Count(html, " checked"); got != 1 {
		t.Fatalf("checked radios = %d, want 1", got)
	}
	if !strings.Contains(html, `value="pending" checked`) {
		t.Fatalf("current status should be checked, got %s", html)
	}

	page := render(t, EditInvoicePage(invoice))
	if !strings.HasPrefix(strings.ToLower(page), "<!doctype html>") || !strings.Contains(page, `id="edit-invoice"`) {
		t.Fatalf("expected edit document, got %.80s", page)
	}
}

func TestPaginationItems(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 3, []int{1, 2, 3}},
		{2, 10, []int{1, 2, 3, 0, 9, 10}},
		{9, 10, []int{1, 2, 0, 8, 9, 10}},
		{5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
	}
	for _, tt := range tests {
		if got := PaginationItems(tt.current, tt.total); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("PaginationItems(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}
