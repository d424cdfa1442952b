package logger

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "hello", maxLen: 50, expected: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, expected: "hello"},
		{name: "long string truncated", input: "hello world", maxLen: 8, expected: "hello..."},
		{name: "tiny limit", input: "hello", maxLen: 3, expected: "..."},
		{name: "cut backs off to rune boundary", input: strings.Repeat("п", 10), maxLen: 10, expected: "ппп..."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := truncateString(tc.input, tc.maxLen)
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncated string is not valid UTF-8")
			}
		})
	}
}
