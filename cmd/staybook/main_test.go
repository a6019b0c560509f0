package main

import "testing"

func TestRandomHex(t *testing.T) {
	t.Parallel()

	if got := randomHex(32); len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if got := randomHex(0); len(got) != 32 {
		t.Fatalf("expected fallback width for non-positive sizes, got %d", len(got))
	}
	if randomHex(16) == randomHex(16) {
		t.Fatal("expected successive tokens to differ")
	}
}
