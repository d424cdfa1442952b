// Package session tracks per-user conversational state: the active generation
// mode, the bounded chat history, and the request cooldown. State lives in
// process memory only and is lost on restart.
package session

import "sync"

// Mode is the generation capability a user session is currently in.
type Mode int

const (
	ModeIdle Mode = iota
	ModeText
	ModeImage
	ModeCode
	ModeVision
	ModeSearch
	ModeMailing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeText:
		return "text"
	case ModeImage:
		return "image"
	case ModeCode:
		return "code"
	case ModeVision:
		return "vision"
	case ModeSearch:
		return "search"
	case ModeMailing:
		return "mailing"
	default:
		return "unknown"
	}
}

// State is the per-user session record. Processing is set while a generation
// request is in flight and guards against concurrent duplicate submissions.
type State struct {
	Mode       Mode
	Processing bool
}

// Store holds session records keyed by user ID.
type Store interface {
	Get(userID int64) State
	Put(userID int64, s State)
	Delete(userID int64)

	// BeginProcessing atomically sets the Processing flag if the user is in
	// the given awaiting state and not already processing. It reports whether
	// the flag was set.
	BeginProcessing(userID int64) bool

	// EndProcessing clears the Processing flag, reverting to the awaiting state.
	EndProcessing(userID int64)
}

// NewMemoryStore creates an in-memory session store. Sessions are created
// lazily on first access and never persisted.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]State)}
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[int64]State
}

func (s *memoryStore) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *memoryStore) Put(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = st
}

func (s *memoryStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *memoryStore) BeginProcessing(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sessions[userID]
	if st.Mode == ModeIdle || st.Processing {
		return false
	}
	st.Processing = true
	s.sessions[userID] = st
	return true
}

func (s *memoryStore) EndProcessing(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sessions[userID]
	st.Processing = false
	s.sessions[userID] = st
}
