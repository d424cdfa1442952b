package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultVisionPrompt is used when a photo arrives without a caption.
const DefaultVisionPrompt = "Describe this image in detail"

// Generator is the set of external generation collaborators. Every method
// must signal failure distinctly from returning an empty successful result;
// implementations return an error for both.
type Generator interface {
	GenerateText(ctx context.Context, conversation []Turn) (string, error)
	GenerateCode(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	RecognizeImage(ctx context.Context, imagePath, prompt string) (string, error)
	Search(ctx context.Context, query string) (string, error)
}

// BeginStatus is the admission decision for a generation request.
type BeginStatus int

const (
	// Started means the session moved to processing and the caller must
	// follow up with Generate or Abort.
	Started BeginStatus = iota
	// NotAwaiting means the user has no pending mode; the event is ignored.
	NotAwaiting
	// Busy means a generation for this user is already in flight.
	Busy
	// RateLimited means the cooldown has not elapsed yet.
	RateLimited
)

// Begin is the result of admitting a generation request.
type Begin struct {
	Status           BeginStatus
	Mode             Mode
	RemainingSeconds int
}

// Input carries the user's awaited message content. ImagePath points at a
// transient file for vision requests; the caller owns its cleanup.
type Input struct {
	Text      string
	Caption   string
	ImagePath string
}

// Output is a successful generation result: text for most modes, raw image
// bytes for image generation.
type Output struct {
	Text  string
	Image []byte
}

// Machine drives per-user mode transitions and orchestrates the history
// buffer, the rate limiter, and the generation collaborators.
type Machine struct {
	sessions Store
	history  *History
	limiter  *Limiter
	gen      Generator
	log      *slog.Logger
}

// NewMachine creates a session machine. A nil logger discards output.
func NewMachine(sessions Store, history *History, limiter *Limiter, gen Generator, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Machine{
		sessions: sessions,
		history:  history,
		limiter:  limiter,
		gen:      gen,
		log:      log.With("component", "session_machine"),
	}
}

// Mode returns the user's current mode.
func (m *Machine) Mode(userID int64) Mode {
	return m.sessions.Get(userID).Mode
}

// Processing reports whether a generation for the user is in flight.
func (m *Machine) Processing(userID int64) bool {
	return m.sessions.Get(userID).Processing
}

// Turns returns a snapshot of the user's conversation history.
func (m *Machine) Turns(userID int64) []Turn {
	return m.history.Turns(userID)
}

// EnterMode puts the user into the awaiting state for the given mode,
// overwriting any other pending mode. It refuses while a generation is in
// flight and reports whether the transition happened. Entering the same mode
// repeatedly always resets to the same awaiting state.
func (m *Machine) EnterMode(userID int64, mode Mode) bool {
	if m.sessions.Get(userID).Processing {
		return false
	}
	m.sessions.Put(userID, State{Mode: mode})
	m.log.Debug("Entered mode", "user_id", userID, "mode", mode.String())
	return true
}

// Reset returns the user to the idle state (main menu). It refuses while a
// generation is in flight.
func (m *Machine) Reset(userID int64) bool {
	if m.sessions.Get(userID).Processing {
		return false
	}
	m.sessions.Delete(userID)
	return true
}

// Admit decides whether a generation request may start. On Started the
// session is in the processing state and the caller must invoke Generate or
// Abort. Rejections perform no state change.
func (m *Machine) Admit(userID int64) Begin {
	st := m.sessions.Get(userID)
	if st.Processing {
		return Begin{Status: Busy, Mode: st.Mode}
	}
	if st.Mode == ModeIdle {
		return Begin{Status: NotAwaiting}
	}

	if allowed, remaining := m.limiter.Check(userID); !allowed {
		return Begin{Status: RateLimited, Mode: st.Mode, RemainingSeconds: remaining}
	}

	if !m.sessions.BeginProcessing(userID) {
		// Lost the race with a concurrent event for the same user.
		return Begin{Status: Busy, Mode: st.Mode}
	}
	return Begin{Status: Started, Mode: st.Mode}
}

// Abort reverts a Started admission without dispatching, for example when
// preparing the transient image file failed. The cooldown is not stamped.
func (m *Machine) Abort(userID int64) {
	m.sessions.EndProcessing(userID)
}

// Generate runs the generation for a previously admitted request. On success
// the cooldown timestamp is recorded and the session returns to the awaiting
// state for the same mode; on failure the session returns to the awaiting
// state without stamping the cooldown, so the user can retry immediately.
func (m *Machine) Generate(ctx context.Context, userID int64, in Input) (out Output, err error) {
	mode := m.sessions.Get(userID).Mode
	start := time.Now()

	defer m.sessions.EndProcessing(userID)

	switch mode {
	case ModeText:
		conversation := m.history.Append(userID, Turn{Role: RoleUser, Content: in.Text})
		var reply string
		reply, err = m.gen.GenerateText(ctx, conversation)
		if err == nil {
			m.history.Append(userID, Turn{Role: RoleAssistant, Content: reply})
			out.Text = reply
		}

	case ModeCode:
		m.history.Append(userID, Turn{Role: RoleUser, Content: in.Text})
		var reply string
		reply, err = m.gen.GenerateCode(ctx, in.Text)
		if err == nil {
			m.history.Append(userID, Turn{Role: RoleAssistant, Content: reply})
			out.Text = reply
		}

	case ModeImage:
		out.Image, err = m.gen.GenerateImage(ctx, in.Text)

	case ModeVision:
		prompt := in.Caption
		if prompt == "" {
			prompt = DefaultVisionPrompt
		}
		out.Text, err = m.gen.RecognizeImage(ctx, in.ImagePath, prompt)

	case ModeSearch:
		out.Text, err = m.gen.Search(ctx, in.Text)

	default:
		err = fmt.Errorf("no generation defined for mode %s", mode)
	}

	if err != nil {
		m.log.WarnContext(ctx, "Generation failed", "user_id", userID, "mode", mode.String(),
			"duration", time.Since(start), "error", err)
		return Output{}, fmt.Errorf("%s generation failed: %w", mode, err)
	}

	m.limiter.Stamp(userID)
	m.log.InfoContext(ctx, "Generation completed", "user_id", userID, "mode", mode.String(),
		"duration", time.Since(start))
	return out, nil
}
