package textutil

import (
	"testing"
	"unicode/utf8"
)

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"dQw4w9WgXcQ": "dqw4w9wgxcq",
		"  a/b:c  ":   "a_b_c",
		"-_x_-":       "x",
		"":            "unknown",
		"???":         "unknown",
	}
	for input, want := range cases {
		if got := SanitizeToken(input); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	got := Truncate("héllo wörld again", 8)
	if utf8.RuneCountInString(got) > 8 {
		t.Fatalf("truncated text too long: %q", got)
	}
	if got != "héllo w…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("non-positive limit should keep text, got %q", got)
	}
}
