package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/htmx"
	"invoice-dashboard/pkg/utils"
)

const testSecret = "middleware-test-secret"

func okHandler(w http.ResponseWriter, r *http.Request) {
	if user, ok := GetUserFromContext(r.Context()); ok {
		w.Header().Set("X-User", user.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthMiddlewareDisabledPassesThrough(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret, AuthRequired: false}
	h := AuthMiddleware(cfg)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret, AuthRequired: true}
	token, _, err := utils.NewJWTService(testSecret).GenerateAccessToken("admin-1", "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() = %v", err)
	}
	foreign, _, err := utils.NewJWTService("other-secret").GenerateAccessToken("admin-1", "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() = %v", err)
	}

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
		wantUser string
	}{
		{name: "missing", wantCode: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, wantCode: http.StatusNoContent, wantUser: "admin-1"},
		{name: "cookie", cookie: token, wantCode: http.StatusNoContent, wantUser: "admin-1"},
		{name: "bad scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized},
	}
	h := AuthMiddleware(cfg)(http.HandlerFunc(okHandler))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("X-User"); got != tt.wantUser {
				t.Fatalf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestRequireContentType(t *testing.T) {
	h := RequireContentType("application/x-www-form-urlencoded")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantCode    int
	}{
		{name: "get skips", method: http.MethodGet, wantCode: http.StatusNoContent},
		{name: "form", method: http.MethodPost, contentType: "application/x-www-form-urlencoded; charset=UTF-8", wantCode: http.StatusNoContent},
		{name: "json", method: http.MethodPost, contentType: "application/json", wantCode: http.StatusUnsupportedMediaType},
		{name: "missing", method: http.MethodPost, wantCode: http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/dashboard/invoices/1/edit", strings.NewReader("status=paid"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("status=overdue-and-then-some"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestRecoveryHidesPanicInProduction(t *testing.T) {
	cfg := &config.Config{Environment: "production"}
	h := Recovery(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/dashboard/invoices/1/edit", nil)
	req.Header.Set(htmx.RequestHeader, "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := rec.Header().Get(htmx.TriggerHeader); got != "" {
		t.Fatalf("HX-Trigger = %q, the page alerts on the 500 itself", got)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatal("production response must not leak panic details")
	}
}

func TestNormalize(t *testing.T) {
	var gotPath, gotHost string
	h := Normalize()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotHost = r.URL.Path, r.Host
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices/", nil)
	req.Header.Set("X-Forwarded-Host", "invoices.example.com")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotPath != "/dashboard/invoices" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotHost != "invoices.example.com" {
		t.Fatalf("host = %q", gotHost)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if gotPath != "/" {
		t.Fatalf("root path = %q", gotPath)
	}
}

func TestRequestLogLines(t *testing.T) {
	entry := requestLog{RequestID: "req-1", Method: http.MethodPost, Path: `/a"b`, Status: 500, User: "anonymous", HTMX: true}

	line := entry.jsonLine()
	for _, want := range []string{`"request_id":"req-1"`, `"path":"/a\"b"`, `"status":500`, `"htmx":true`} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %s", want, line)
		}
	}
	if color := entry.colorLine(); !strings.Contains(color, "[req-1]") {
		t.Fatalf("color line missing request id: %q", color)
	}
}
