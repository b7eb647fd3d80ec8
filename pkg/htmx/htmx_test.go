package htmx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestRenderPageChoosesFragmentForHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestHeader, "true")
	rec := httptest.NewRecorder()

	RenderPage(rec, req, textComponent("fragment"), textComponent("full"))

	if got := rec.Body.String(); got != "fragment" {
		t.Fatalf("body = %q, want fragment", got)
	}
}

func TestRenderPageChoosesFullForBrowsers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RenderPage(rec, req, textComponent("fragment"), textComponent("full"))

	if got := rec.Body.String(); got != "full" {
		t.Fatalf("body = %q, want full", got)
	}
}

func TestRenderPageFallsBackToFragment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RenderPage(rec, req, textComponent("fragment"), nil)

	if got := rec.Body.String(); got != "fragment" {
		t.Fatalf("body = %q, want fragment", got)
	}
}

func TestTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	Trigger(rec, "saved", nil)
	if got := rec.Header().Get(TriggerHeader); got != "saved" {
		t.Fatalf("HX-Trigger = %q", got)
	}

	rec = httptest.NewRecorder()
	Trigger(rec, "failed", map[string]string{"message": "nope"})
	got := rec.Header().Get(TriggerHeader)
	if !strings.Contains(got, `"failed"`) || !strings.Contains(got, `"message":"nope"`) {
		t.Fatalf("HX-Trigger = %q", got)
	}
}

func TestIsHTMXRequest(t *testing.T) {
	if IsHTMXRequest(nil) {
		t.Fatal("nil request is not HTMX")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestHeader, "TRUE")
	if !IsHTMXRequest(req) {
		t.Fatal("expected case-insensitive match")
	}
}
