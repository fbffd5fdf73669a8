package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsChain(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("failed to generate alerts: %w", NotFound(CodeItemNotFound, base))

	got := From(wrapped)
	if got.Status != http.StatusNotFound || got.Code != CodeItemNotFound {
		t.Fatalf("unexpected error: %+v", got)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected base error in chain")
	}
}

func TestFromDefaultsToInternal(t *testing.T) {
	got := From(errors.New("db down"))
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("unexpected error: %+v", got)
	}
}
