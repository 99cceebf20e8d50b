package commands

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/config"
)

func TestGateFromConfig(t *testing.T) {
	a := &app{cfg: config.Default()}
	if _, err := a.gate(); err == nil {
		t.Fatal("expected error without any authentication configured")
	}

	a.cfg.Auth = config.Auth{Tokens: map[string]string{"tok": "alice"}, TrustedHeader: "X-User-Id"}
	g, err := a.gate()
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	if id, ok := g.Identify(r); !ok || id != "alice" {
		t.Fatalf("Identify bearer = %q, %v", id, ok)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-User-Id", "bob")
	if id, ok := g.Identify(r); !ok || id != "bob" {
		t.Fatalf("Identify header = %q, %v", id, ok)
	}
	if _, ok := g.(auth.Chain); !ok {
		t.Fatalf("gate = %T, want auth.Chain", g)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := cors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/transform", nil))
	if rec.Code != http.StatusNoContent || called {
		t.Fatalf("preflight status = %d, handler called = %v", rec.Code, called)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "X-Transform-Status" {
		t.Fatalf("expose headers = %q", got)
	}
}
