package static

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIndexForAppRoutes(t *testing.T) {
	h := Handler()
	for _, p := range []string{"/", "/play", "/some/deep/path"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", p, w.Code)
		}
		if !strings.Contains(w.Body.String(), `id="ring"`) {
			t.Fatalf("%s: expected the game page", p)
		}
		if w.Header().Get("Cache-Control") != "no-cache" {
			t.Fatalf("%s: expected no-cache, got %q", p, w.Header().Get("Cache-Control"))
		}
	}
}

func TestAssets(t *testing.T) {
	h := Handler()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "game:trigger") {
		t.Fatal("expected app.js to emit game:trigger")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing.css", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing asset, got %d", w.Code)
	}
}
