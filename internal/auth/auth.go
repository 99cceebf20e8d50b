// Package auth identifies the caller of an HTTP request. Identity is an
// opaque owner id; every store scopes its records by it.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// Gate identifies the caller of r. ok is false when r carries no
// acceptable identity.
type Gate interface {
	Identify(r *http.Request) (ownerID string, ok bool)
}

// TokenGate accepts "Authorization: Bearer <token>" for known tokens.
type TokenGate struct {
	tokens map[string]string
}

// NewTokenGate maps bearer tokens to owner ids.
func NewTokenGate(tokens map[string]string) *TokenGate {
	m := make(map[string]string, len(tokens))
	for tok, owner := range tokens {
		if tok != "" && owner != "" {
			m[tok] = owner
		}
	}
	return &TokenGate{tokens: m}
}

// ParseTokens reads "token:owner,token2:owner2". Malformed pairs are skipped.
func ParseTokens(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		tok, owner, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		if tok, owner = strings.TrimSpace(tok), strings.TrimSpace(owner); tok != "" && owner != "" {
			out[tok] = owner
		}
	}
	return out
}

func (g *TokenGate) Identify(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	for known, owner := range g.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(tok)) == 1 {
			return owner, true
		}
	}
	return "", false
}

// HeaderGate trusts an identity header set by an upstream proxy that has
// already authenticated the caller.
type HeaderGate struct {
	Header string
}

func (g HeaderGate) Identify(r *http.Request) (string, bool) {
	if g.Header == "" {
		return "", false
	}
	id := strings.TrimSpace(r.Header.Get(g.Header))
	return id, id != ""
}

// Chain tries each gate in order.
type Chain []Gate

func (c Chain) Identify(r *http.Request) (string, bool) {
	for _, g := range c {
		if g == nil {
			continue
		}
		if id, ok := g.Identify(r); ok {
			return id, true
		}
	}
	return "", false
}

type ctxKey struct{}

// WithCaller returns ctx carrying ownerID.
func WithCaller(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ownerID)
}

// CallerID returns the caller stored by Middleware, or "".
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware rejects unidentified requests with 401 and stores the caller
// id in the request context otherwise.
func Middleware(g Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := g.Identify(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), id)))
	})
}
