package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(NotFound, "template not found")
	err := fmt.Errorf("resolve: %w", base)
	if got := KindOf(err); got != NotFound {
		t.Fatalf("KindOf = %v, want %v", got, NotFound)
	}
	if got := KindOf(errors.New("plain")); got != Internal {
		t.Fatalf("KindOf(plain) = %v, want %v", got, Internal)
	}
}

func TestPublicHidesPersistenceDetail(t *testing.T) {
	err := Wrap(Persistence, errors.New("badger: disk full at /var/lib"), "create job")
	if got := Public(err); got != "internal error" {
		t.Fatalf("Public = %q, want %q", got, "internal error")
	}
	if got := Public(New(Validation, "name and prompt are required")); got != "name and prompt are required" {
		t.Fatalf("Public = %q", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Auth, http.StatusUnauthorized},
		{NotFound, http.StatusNotFound},
		{Validation, http.StatusBadRequest},
		{Persistence, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.kind); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(Persistence, nil, "x") != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}
