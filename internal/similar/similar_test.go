package similar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokens(t *testing.T) {
	got := Tokens("fooBar is not defined in init.js")
	want := map[string]struct{}{
		"foobar":  {},
		"defined": {},
		"init":    {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestMatches_SharedVocabulary(t *testing.T) {
	a := "fooBar is not defined in init.js"
	b := "fooBar is not defined in main.js"

	if !Matches(Tokens(a), b) {
		t.Error("a should match b")
	}
	// The heuristic is symmetric in intent; check the other direction too.
	if !Matches(Tokens(b), a) {
		t.Error("b should match a")
	}
}

func TestMatches_OneSharedWordIsNotEnough(t *testing.T) {
	a := "fooBar is not defined in init.js"
	b := "segmentation fault while loading fooBar"
	if Matches(Tokens(a), b) {
		t.Error("one shared significant word should not be similar")
	}
}

func TestMatches_EmptyQuery(t *testing.T) {
	if Matches(Tokens("a is ok"), "anything at all here") {
		t.Error("query with no significant tokens should match nothing")
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{3, 1.5},
		{6, 3},
		{40, 3},
	}
	for _, tt := range tests {
		if got := Threshold(tt.n); got != tt.want {
			t.Errorf("Threshold(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
