package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/database"
	"invoice-dashboard/pkg/invoicestatus"
	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		Port:           "0",
		DatabaseDriver: "sqlite",
		SQLitePath:     ":memory:",
		JWTSecret:      "router-test-secret",
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, database.DatabaseInterface) {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() = %v", err)
	}

	customer := &models.Customer{ID: "cust-1", Name: "Lee Robinson", Email: "lee@robinson.com"}
	if err := db.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("CreateCustomer() = %v", err)
	}
	invoice := &models.Invoice{
		ID:         "inv-1",
		CustomerID: customer.ID,
		Amount:     15795,
		Status:     models.StatusPending,
		Date:       time.Date(2022, 12, 6, 0, 0, 0, 0, time.UTC),
	}
	if err := db.CreateInvoice(ctx, invoice); err != nil {
		t.Fatalf("CreateInvoice() = %v", err)
	}

	server := httptest.NewServer(NewRouter(cfg, db))
	t.Cleanup(server.Close)
	return server, db
}

type alertRecorder struct{ messages []string }

func (a *alertRecorder) Alert(message string) { a.messages = append(a.messages, message) }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestStatusChangeRoundTrip(t *testing.T) {
	server, db := newTestServer(t, testConfig())
	ctx := context.Background()
	alerts := &alertRecorder{}

	row := invoicestatus.NewRow("inv-1", models.StatusPending, invoicestatus.NewHTTPClient(server.URL, ""), alerts)
	if !row.Choose(ctx, models.StatusPaid) {
		t.Fatal("expected the change to be confirmed")
	}
	if st := row.Coordinator.State(); st.Status != models.StatusPaid || st.Busy {
		t.Fatalf("state = %+v, want Idle(paid)", st)
	}
	if len(alerts.messages) != 0 {
		t.Fatalf("unexpected alerts %v", alerts.messages)
	}

	stored, err := db.GetInvoice(ctx, "inv-1")
	if err != nil {
		t.Fatalf("GetInvoice() = %v", err)
	}
	if stored.Status != models.StatusPaid {
		t.Fatalf("stored status = %q, want paid", stored.Status)
	}

	got, err := invoicestatus.NewHTTPClient(server.URL, "").GetInvoice(ctx, "inv-1")
	if err != nil {
		t.Fatalf("HTTPClient.GetInvoice() = %v", err)
	}
	if got.Status != models.StatusPaid || got.Name != "Lee Robinson" {
		t.Fatalf("api invoice = %+v", got)
	}
}

func TestStatusChangeUnknownInvoiceAlerts(t *testing.T) {
	server, _ := newTestServer(t, testConfig())
	alerts := &alertRecorder{}

	coord := invoicestatus.NewCoordinator("missing", models.StatusPending, invoicestatus.NewHTTPClient(server.URL, ""), alerts)
	coord.SetLogger(quietLogger())
	if coord.RequestStatusChange(context.Background(), models.StatusOverdue) {
		t.Fatal("expected failure")
	}
	if st := coord.State(); st.Status != models.StatusPending || st.Busy {
		t.Fatalf("state = %+v, want Idle(pending)", st)
	}
	if len(alerts.messages) != 1 || alerts.messages[0] != invoicestatus.FailureMessage {
		t.Fatalf("alerts = %v, want one failure alert", alerts.messages)
	}
}

func TestListInvoicesThroughAPI(t *testing.T) {
	server, _ := newTestServer(t, testConfig())
	client := invoicestatus.NewHTTPClient(server.URL, "")

	rows, pages, err := client.ListInvoices(context.Background(), "lee", models.TabPending, 1)
	if err != nil {
		t.Fatalf("ListInvoices() = %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "inv-1" || pages != 1 {
		t.Fatalf("rows = %+v pages = %d", rows, pages)
	}

	rows, _, err = client.ListInvoices(context.Background(), "", models.TabClosed, 1)
	if err != nil {
		t.Fatalf("ListInvoices(closed) = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("closed rows = %+v, want none", rows)
	}
}

func TestEditRequiresFormContentType(t *testing.T) {
	server, _ := newTestServer(t, testConfig())

	resp, err := http.Post(server.URL+"/dashboard/invoices/inv-1/edit", "application/json", strings.NewReader(`{"status":"paid"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRequired = true
	server, _ := newTestServer(t, cfg)
	ctx := context.Background()

	anonymous := invoicestatus.NewHTTPClient(server.URL, "")
	err := anonymous.UpdateStatus(ctx, "inv-1", models.StatusPaid)
	var statusErr *invoicestatus.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("UpdateStatus() = %v, want 401", err)
	}

	token, _, err := utils.NewJWTService(cfg.JWTSecret).GenerateAccessToken("admin", "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() = %v", err)
	}
	authed := invoicestatus.NewHTTPClient(server.URL, token)
	if err := authed.UpdateStatus(ctx, "inv-1", models.StatusPaid); err != nil {
		t.Fatalf("UpdateStatus() with token = %v", err)
	}

	// health stays public
	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, testConfig())

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantErr  string
	}{
		{http.MethodGet, "/nope", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodDelete, "/api/invoices", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}
	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		var body utils.APIResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != tt.wantCode {
			t.Fatalf("%s %s status = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.wantCode)
		}
		if decodeErr != nil || body.Error == nil || body.Error.Code != tt.wantErr {
			t.Fatalf("%s %s body = %+v (%v)", tt.method, tt.path, body, decodeErr)
		}
	}
}

func TestDashboardPageRenders(t *testing.T) {
	server, _ := newTestServer(t, testConfig())

	resp, err := http.Get(server.URL + "/dashboard/invoices?tab=pending")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	html := string(body)
	for _, want := range []string{"Lee Robinson", "$157.95", "Dec 6, 2022", `id="status-inv-1"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q", want)
		}
	}
}

func htmxPost(t *testing.T, target, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("HX-Request", "true")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}

// every rejected edit reaches the page as a plain error status, so the
// htmx:responseError listener alerts once and nothing else does
func TestFailedHTMXEditsCarryNoTrigger(t *testing.T) {
	open, _ := newTestServer(t, testConfig())
	authCfg := testConfig()
	authCfg.AuthRequired = true
	locked, _ := newTestServer(t, authCfg)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantCode    int
	}{
		{"unknown invoice", open.URL + "/dashboard/invoices/missing/edit", "application/x-www-form-urlencoded", "status=paid", http.StatusNotFound},
		{"bad status", open.URL + "/dashboard/invoices/inv-1/edit", "application/x-www-form-urlencoded", "status=closed", http.StatusBadRequest},
		{"json body", open.URL + "/dashboard/invoices/inv-1/edit", "application/json", `{"status":"paid"}`, http.StatusUnsupportedMediaType},
		{"anonymous", locked.URL + "/dashboard/invoices/inv-1/edit", "application/x-www-form-urlencoded", "status=paid", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := htmxPost(t, tt.target, tt.contentType, tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if got := resp.Header.Get("HX-Trigger"); got != "" {
				t.Fatalf("HX-Trigger = %q, want none", got)
			}
		})
	}
}

func TestDeleteRoundTrip(t *testing.T) {
	server, db := newTestServer(t, testConfig())

	resp := htmxPost(t, server.URL+"/dashboard/invoices/inv-1/delete", "application/x-www-form-urlencoded", "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(body) != 0 {
		t.Fatalf("status = %d body = %q", resp.StatusCode, body)
	}
	if got := resp.Header.Get("HX-Trigger"); !strings.Contains(got, "invoicesChanged") {
		t.Fatalf("HX-Trigger = %q, want list reload", got)
	}
	if _, err := db.GetInvoice(context.Background(), "inv-1"); !errors.Is(err, database.ErrInvoiceNotFound) {
		t.Fatalf("GetInvoice() after delete = %v", err)
	}

	resp = htmxPost(t, server.URL+"/dashboard/invoices/inv-1/delete", "application/x-www-form-urlencoded", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}
