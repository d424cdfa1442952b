package session_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pentabot/pentabot/internal/session"
)

func TestTrim(t *testing.T) {
	t.Parallel()

	turns := func(contents ...string) []session.Turn {
		out := make([]session.Turn, len(contents))
		for i, c := range contents {
			role := session.RoleUser
			if i%2 == 1 {
				role = session.RoleAssistant
			}
			out[i] = session.Turn{Role: role, Content: c}
		}
		return out
	}

	testCases := []struct {
		name      string
		input     []session.Turn
		maxLength int
		maxTurns  int
		expected  []session.Turn
	}{
		{
			name:      "empty input returns empty",
			input:     nil,
			maxLength: 4096,
			maxTurns:  5,
			expected:  nil,
		},
		{
			name:      "under both limits is unchanged",
			input:     turns("hello", "hi there"),
			maxLength: 4096,
			maxTurns:  5,
			expected:  turns("hello", "hi there"),
		},
		{
			name:      "six turns keep the last five",
			input:     turns("a", "b", "c", "d", "e", "f"),
			maxLength: 4096,
			maxTurns:  5,
			expected:  []session.Turn{{Role: session.RoleAssistant, Content: "b"}, {Role: session.RoleUser, Content: "c"}, {Role: session.RoleAssistant, Content: "d"}, {Role: session.RoleUser, Content: "e"}, {Role: session.RoleAssistant, Content: "f"}},
		},
		{
			name:      "oldest dropped until under length",
			input:     turns(strings.Repeat("x", 3000), strings.Repeat("y", 3000), "short"),
			maxLength: 4096,
			maxTurns:  5,
			expected:  []session.Turn{{Role: session.RoleAssistant, Content: strings.Repeat("y", 3000)}, {Role: session.RoleUser, Content: "short"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := session.Trim(tc.input, tc.maxLength, tc.maxTurns)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %d turns, got %d", len(tc.expected), len(got))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("turn %d: expected %+v, got %+v", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestTrimTruncatesSingleOversizedTurn(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "ascii", content: strings.Repeat("a", 5000)},
		{name: "multi-byte runes survive the cut", content: "a" + strings.Repeat("п", 3000)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := []session.Turn{{Role: session.RoleUser, Content: tc.content}}

			got := session.Trim(input, 4096, 5)

			if len(got) != 1 {
				t.Fatalf("expected 1 turn, got %d", len(got))
			}
			maxLen := 4096 - 100 + 3
			if len(got[0].Content) > maxLen {
				t.Errorf("expected content length at most %d, got %d", maxLen, len(got[0].Content))
			}
			if !strings.HasSuffix(got[0].Content, "...") {
				t.Errorf("expected truncated content to end with ellipsis")
			}
			if !utf8.ValidString(got[0].Content) {
				t.Errorf("truncated content is not valid UTF-8")
			}
			// The input must not be modified.
			if input[0].Content != tc.content {
				t.Errorf("input turn was mutated")
			}
		})
	}
}

func TestHistoryAppendKeepsBounds(t *testing.T) {
	t.Parallel()

	h := session.NewHistory(4096, 5)
	const userID = int64(42)

	for i := 0; i < 10; i++ {
		h.Append(userID, session.Turn{Role: session.RoleUser, Content: "msg"})
	}

	if got := h.Len(userID); got != 5 {
		t.Errorf("expected 5 turns after trimming, got %d", got)
	}
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	t.Parallel()

	h := session.NewHistory(4096, 5)
	h.Append(1, session.Turn{Role: session.RoleUser, Content: "one"})

	if got := h.Len(2); got != 0 {
		t.Errorf("expected empty history for other user, got %d turns", got)
	}
}
