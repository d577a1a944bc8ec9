package idgen

import "testing"

func TestRunID_Shape(t *testing.T) {
	id, err := RunID()
	if err != nil {
		t.Fatalf("RunID() error: %v", err)
	}
	if len(id) != len(RunPrefix)+Length {
		t.Errorf("RunID() length = %d, want %d (id=%q)", len(id), len(RunPrefix)+Length, id)
	}
	if !IsRunID(id) {
		t.Errorf("IsRunID(%q) = false", id)
	}
}

func TestRunID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := RunID()
		if err != nil {
			t.Fatalf("RunID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("RunID() produced duplicate %q after %d iterations", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestIsRunID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"run-abcdefghij12", true},
		{"run-ABCDEFGHIJ12", false},
		{"run-short", false},
		{"bd-abcdefghij12", false},
		{"", false},
	} {
		if got := IsRunID(tc.in); got != tc.want {
			t.Errorf("IsRunID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
