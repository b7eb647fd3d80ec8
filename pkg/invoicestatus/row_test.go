package invoicestatus

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"invoice-dashboard/pkg/models"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Status      string
	Auth        string
}

func newDashboardStub(t *testing.T, code int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() = %v", err)
		}
		mu.Lock()
		requests = append(requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Status:      r.PostForm.Get("status"),
			Auth:        r.Header.Get("Authorization"),
		})
		mu.Unlock()
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newQuietRow(id string, initial models.InvoiceStatus, m Mutator, n Notifier) *Row {
	row := NewRow(id, initial, m, n)
	row.Coordinator.SetLogger(log.New(io.Discard, "", 0))
	return row
}

func TestRowPendingToPaidConfirmed(t *testing.T) {
	srv, requests := newDashboardStub(t, http.StatusOK)
	notifier := &recordingNotifier{}
	row := newQuietRow("abc123", models.StatusPending, NewHTTPClient(srv.URL, "tok"), notifier)

	if !row.Choose(context.Background(), models.StatusPaid) {
		t.Fatal("expected confirmed change")
	}

	st := row.Coordinator.State()
	if st.Status != models.StatusPaid || st.Busy {
		t.Fatalf("state = %+v, want paid/idle", st)
	}
	if alerts := notifier.Alerts(); len(alerts) != 0 {
		t.Fatalf("alerts = %v", alerts)
	}

	reqs := requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	want := recordedRequest{
		Method:      http.MethodPost,
		Path:        "/dashboard/invoices/abc123/edit",
		ContentType: "application/x-www-form-urlencoded",
		Status:      "paid",
		Auth:        "Bearer tok",
	}
	if reqs[0] != want {
		t.Fatalf("request = %+v, want %+v", reqs[0], want)
	}
	if view := row.Selector.View(); view.Trigger.Details.Label != "Paid" || view.Open {
		t.Fatalf("view = %+v", view)
	}
}

func TestRowPendingToOverdueRejected(t *testing.T) {
	srv, requests := newDashboardStub(t, http.StatusInternalServerError)
	notifier := &recordingNotifier{}
	row := newQuietRow("abc123", models.StatusPending, NewHTTPClient(srv.URL, ""), notifier)

	if row.Choose(context.Background(), models.StatusOverdue) {
		t.Fatal("rejected change reported as confirmed")
	}

	st := row.Coordinator.State()
	if st.Status != models.StatusPending || st.Busy {
		t.Fatalf("state = %+v, want pending/idle", st)
	}
	if alerts := notifier.Alerts(); len(alerts) != 1 {
		t.Fatalf("alerts = %v, want exactly one", alerts)
	}
	if reqs := requests(); len(reqs) != 1 || reqs[0].Status != "overdue" || reqs[0].Auth != "" {
		t.Fatalf("requests = %+v", reqs)
	}
	if view := row.Selector.View(); view.Trigger.Details.Label != "Pending" {
		t.Fatalf("trigger shows %q after rejection", view.Trigger.Details.Label)
	}
}

func TestRowSelectingCurrentStatusSendsNothing(t *testing.T) {
	srv, requests := newDashboardStub(t, http.StatusOK)
	row := newQuietRow("abc123", models.StatusPaid, NewHTTPClient(srv.URL, ""), &recordingNotifier{})

	if row.Choose(context.Background(), models.StatusPaid) {
		t.Fatal("no-op reported as change")
	}
	if reqs := requests(); len(reqs) != 0 {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestRowDisabledWhileBusy(t *testing.T) {
	m := &fakeMutator{started: make(chan struct{}), release: make(chan struct{})}
	row := newQuietRow("abc123", models.StatusPending, m, &recordingNotifier{})

	done := make(chan bool)
	go func() { done <- row.Choose(context.Background(), models.StatusPaid) }()
	<-m.started

	view := row.Selector.View()
	if !view.Trigger.Disabled {
		t.Fatal("trigger enabled while busy")
	}
	row.Selector.Toggle()
	if row.Selector.IsOpen() {
		t.Fatal("menu opened while busy")
	}
	if row.Selector.Select(context.Background(), models.StatusPaid) {
		t.Fatal("second selection went through while busy")
	}

	close(m.release)
	if !<-done {
		t.Fatal("expected first change to be confirmed")
	}
	if got := len(m.Calls()); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}
}

func TestHTTPClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPClient(url, "").UpdateStatus(context.Background(), "abc123", models.StatusPaid)
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestHTTPClientEscapesInvoiceID(t *testing.T) {
	c := NewHTTPClient("http://dash.local/", "")
	if got := c.EditURL("a/b c"); got != "http://dash.local/dashboard/invoices/a%2Fb%20c/edit" {
		t.Fatalf("EditURL = %q", got)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Code: http.StatusInternalServerError}
	if err.Error() != "unexpected response 500 Internal Server Error" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
