package session

import (
	"sync"
	"unicode/utf8"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation entry owned by a user's history buffer.
type Turn struct {
	Role    Role
	Content string
}

// truncationReserve is how many characters are cut off, beyond the length
// limit, when a single oversized turn is truncated in place.
const truncationReserve = 100

// Trim bounds a conversation by turn count and total content length.
// It keeps the most recent maxTurns entries, then drops oldest entries while
// the total content length exceeds maxLength. A single remaining oversized
// turn is truncated to maxLength-100 characters with an ellipsis appended
// instead of being dropped. The input slice is not modified.
func Trim(turns []Turn, maxLength, maxTurns int) []Turn {
	if len(turns) == 0 {
		return nil
	}

	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	out := make([]Turn, len(turns))
	copy(out, turns)

	total := 0
	for _, t := range out {
		total += len(t.Content)
	}

	for len(out) > 0 && total > maxLength {
		if len(out) == 1 {
			cut := maxLength - truncationReserve
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character.
			for cut > 0 && !utf8.RuneStart(out[0].Content[cut]) {
				cut--
			}
			out[0].Content = out[0].Content[:cut] + "..."
			break
		}
		total -= len(out[0].Content)
		out = out[1:]
	}

	return out
}

// History stores a bounded conversation per user. All methods are safe for
// concurrent use; the trim policy is re-applied after every append.
type History struct {
	mu        sync.Mutex
	turns     map[int64][]Turn
	maxLength int
	maxTurns  int
}

// NewHistory creates an empty history store with the given bounds.
func NewHistory(maxLength, maxTurns int) *History {
	return &History{
		turns:     make(map[int64][]Turn),
		maxLength: maxLength,
		maxTurns:  maxTurns,
	}
}

// Append adds a turn to the user's conversation, re-applies the trim policy,
// and returns a snapshot of the resulting conversation.
func (h *History) Append(userID int64, turn Turn) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	trimmed := Trim(append(h.turns[userID], turn), h.maxLength, h.maxTurns)
	h.turns[userID] = trimmed

	out := make([]Turn, len(trimmed))
	copy(out, trimmed)
	return out
}

// Turns returns a snapshot of the user's conversation.
func (h *History) Turns(userID int64) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Turn, len(h.turns[userID]))
	copy(out, h.turns[userID])
	return out
}

// Len returns the number of stored turns for the user.
func (h *History) Len(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns[userID])
}
