package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseContext(t *testing.T) {
	got, err := parseContext([]string{"file=init.js", "line=42", "note=a=b"})
	if err != nil {
		t.Fatalf("parseContext: %v", err)
	}
	want := map[string]string{
		"file": "init.js",
		"line": "42",
		"note": "a=b",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestParseContext_Empty(t *testing.T) {
	got, err := parseContext(nil)
	if err != nil || got != nil {
		t.Errorf("parseContext(nil) = %v, %v", got, err)
	}
}

func TestParseContext_Invalid(t *testing.T) {
	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseContext([]string{bad}); err == nil {
			t.Errorf("parseContext(%q) should fail", bad)
		}
	}
}
