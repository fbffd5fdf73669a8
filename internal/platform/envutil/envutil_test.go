package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("NUTRI_TEST_INT", "42")
	t.Setenv("NUTRI_TEST_BAD_INT", "forty")
	t.Setenv("NUTRI_TEST_FLOAT", "0.25")
	t.Setenv("NUTRI_TEST_BOOL", "on")
	t.Setenv("NUTRI_TEST_STR", "  sylhet ")
	t.Setenv("NUTRI_TEST_DUR", "-3")

	if got := Int("NUTRI_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("NUTRI_TEST_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
	if got := Float("NUTRI_TEST_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("Float: got %v", got)
	}
	if !Bool("NUTRI_TEST_BOOL", false, nil) {
		t.Fatalf("Bool: expected true")
	}
	if got := String("NUTRI_TEST_STR", "dhaka", nil); got != "sylhet" {
		t.Fatalf("String: got %q", got)
	}
	if got := String("NUTRI_TEST_MISSING", "dhaka", nil); got != "dhaka" {
		t.Fatalf("String default: got %q", got)
	}
	if got := Duration("NUTRI_TEST_DUR", 30, time.Minute, nil); got != 30*time.Minute {
		t.Fatalf("Duration: got %v", got)
	}
}
