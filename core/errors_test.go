package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorChecks(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	unavailable := Unavailable(ModuleStore, "hget", cause)

	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
		wantEmpty       bool
		wantInvalid     bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: cause},
		{name: "unavailable", err: unavailable, wantUnavailable: true},
		{name: "wrapped unavailable", err: fmt.Errorf("personalized: %w", unavailable), wantUnavailable: true},
		{name: "empty catalog", err: fmt.Errorf("popular: %w", ErrEmptyCatalog), wantEmpty: true},
		{name: "invalid input", err: NewDomainError(ModuleVector, ErrorCodeInvalidInput, "dimension mismatch"), wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnavailable(tt.err); got != tt.wantUnavailable {
				t.Errorf("IsUnavailable() = %v, want %v", got, tt.wantUnavailable)
			}
			if got := IsEmptyCatalog(tt.err); got != tt.wantEmpty {
				t.Errorf("IsEmptyCatalog() = %v, want %v", got, tt.wantEmpty)
			}
			if got := IsInvalidInput(tt.err); got != tt.wantInvalid {
				t.Errorf("IsInvalidInput() = %v, want %v", got, tt.wantInvalid)
			}
		})
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := Unavailable(ModuleStore, "hgetall", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("errors.Is(err, ErrStoreUnavailable) = false, want true")
	}
	if Unavailable(ModuleStore, "get", nil) != nil {
		t.Error("Unavailable(nil) should be nil")
	}
}

func TestNeutralEmbedding(t *testing.T) {
	v := NeutralEmbedding(5, 0.5)
	if len(v) != 5 {
		t.Fatalf("len = %d, want 5", len(v))
	}
	for i, x := range v {
		if x != 0.5 {
			t.Errorf("v[%d] = %v, want 0.5", i, x)
		}
	}
	if len(NeutralEmbedding(0, 0.5)) != 0 {
		t.Error("dim 0 should yield empty embedding")
	}
}
