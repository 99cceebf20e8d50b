package auth

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParseTokens(t *testing.T) {
	got := ParseTokens(" tok1:alice, bad ,tok2: bob ,:x,y:")
	want := map[string]string{"tok1": "alice", "tok2": "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTokens = %v, want %v", got, want)
	}
}

func TestGates(t *testing.T) {
	g := Chain{NewTokenGate(map[string]string{"s3cret": "alice"}), HeaderGate{Header: "X-User-Id"}}
	for _, tc := range []struct {
		name    string
		headers map[string]string
		want    string
		ok      bool
	}{
		{"bearer", map[string]string{"Authorization": "Bearer s3cret"}, "alice", true},
		{"bearer lowercase scheme", map[string]string{"Authorization": "bearer s3cret"}, "alice", true},
		{"wrong token", map[string]string{"Authorization": "Bearer nope"}, "", false},
		{"basic", map[string]string{"Authorization": "Basic s3cret"}, "", false},
		{"trusted header", map[string]string{"X-User-Id": " bob "}, "bob", true},
		{"nothing", nil, "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			got, ok := g.Identify(r)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("Identify = %q, %v, want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(HeaderGate{Header: "X-User-Id"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CallerID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"error\":\"Unauthorized\"}\n" {
		t.Fatalf("body = %q", body)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-User-Id", "carol")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK || seen != "carol" {
		t.Fatalf("status = %d, caller = %q", rec.Code, seen)
	}
}
