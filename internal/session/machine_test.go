package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pentabot/pentabot/internal/session"
)

// fakeGenerator is a scripted session.Generator. When failWith is set every
// method returns it; otherwise each method returns the canned reply.
type fakeGenerator struct {
	reply    string
	image    []byte
	failWith error

	textCalls   int
	lastTurns   []session.Turn
	codeCalls   int
	imageCalls  int
	visionCalls int
	lastPath    string
	lastPrompt  string
	searchCalls int
}

func (g *fakeGenerator) GenerateText(_ context.Context, conversation []session.Turn) (string, error) {
	g.textCalls++
	g.lastTurns = conversation
	return g.reply, g.failWith
}

func (g *fakeGenerator) GenerateCode(_ context.Context, _ string) (string, error) {
	g.codeCalls++
	return g.reply, g.failWith
}

func (g *fakeGenerator) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	g.imageCalls++
	return g.image, g.failWith
}

func (g *fakeGenerator) RecognizeImage(_ context.Context, imagePath, prompt string) (string, error) {
	g.visionCalls++
	g.lastPath = imagePath
	g.lastPrompt = prompt
	return g.reply, g.failWith
}

func (g *fakeGenerator) Search(_ context.Context, _ string) (string, error) {
	g.searchCalls++
	return g.reply, g.failWith
}

func newTestMachine(gen session.Generator, clock *fakeClock) *session.Machine {
	return session.NewMachine(
		session.NewMemoryStore(),
		session.NewHistory(4096, 5),
		session.NewLimiter(10*time.Second, clock.now),
		gen,
		nil,
	)
}

func TestEnterModeIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestMachine(&fakeGenerator{}, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	for i := 0; i < 3; i++ {
		if !m.EnterMode(userID, session.ModeText) {
			t.Fatalf("expected mode entry %d to succeed", i)
		}
		if got := m.Mode(userID); got != session.ModeText {
			t.Fatalf("expected mode text, got %s", got)
		}
	}
}

func TestEnterModeOverwritesPendingMode(t *testing.T) {
	t.Parallel()

	m := newTestMachine(&fakeGenerator{}, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeText)
	m.EnterMode(userID, session.ModeSearch)

	if got := m.Mode(userID); got != session.ModeSearch {
		t.Errorf("expected mode search, got %s", got)
	}
}

func TestAdmitWhileIdleIsNotAwaiting(t *testing.T) {
	t.Parallel()

	m := newTestMachine(&fakeGenerator{}, &fakeClock{current: time.Unix(1000, 0)})

	if got := m.Admit(1); got.Status != session.NotAwaiting {
		t.Errorf("expected NotAwaiting, got %v", got.Status)
	}
}

func TestProcessingGuard(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "Test response"}
	m := newTestMachine(gen, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeText)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}

	// While the generation is in flight every state change is refused and the
	// generator and rate limiter stay untouched.
	if got := m.Admit(userID); got.Status != session.Busy {
		t.Errorf("expected concurrent admit to report Busy, got %v", got.Status)
	}
	if m.EnterMode(userID, session.ModeImage) {
		t.Error("expected mode entry to be refused while processing")
	}
	if m.Reset(userID) {
		t.Error("expected reset to be refused while processing")
	}
	if gen.textCalls != 0 {
		t.Errorf("expected no generator calls from rejected events, got %d", gen.textCalls)
	}

	m.Abort(userID)
	if m.Processing(userID) {
		t.Error("expected processing flag cleared after abort")
	}
	if got := m.Mode(userID); got != session.ModeText {
		t.Errorf("expected mode preserved after abort, got %s", got)
	}
}

func TestGenerateSuccessStampsCooldown(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "Test response"}
	clock := &fakeClock{current: time.Unix(1000, 0)}
	m := newTestMachine(gen, clock)
	const userID = int64(1)

	m.EnterMode(userID, session.ModeText)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}

	out, err := m.Generate(context.Background(), userID, session.Input{Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Text != "Test response" {
		t.Errorf("expected reply %q, got %q", "Test response", out.Text)
	}
	if m.Processing(userID) {
		t.Error("expected processing flag cleared after generation")
	}
	if got := m.Mode(userID); got != session.ModeText {
		t.Errorf("expected session back in awaiting text mode, got %s", got)
	}

	got := m.Admit(userID)
	if got.Status != session.RateLimited {
		t.Fatalf("expected next admit to be rate limited, got %v", got.Status)
	}
	if got.RemainingSeconds != 10 {
		t.Errorf("expected 10 remaining seconds, got %d", got.RemainingSeconds)
	}

	clock.advance(10 * time.Second)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Errorf("expected admit after cooldown to start, got %v", got.Status)
	}
}

func TestGenerateFailureRevertsWithoutStamping(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{failWith: errors.New("model unavailable")}
	m := newTestMachine(gen, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeSearch)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}

	if _, err := m.Generate(context.Background(), userID, session.Input{Text: "weather"}); err == nil {
		t.Fatal("expected generation error")
	}
	if m.Processing(userID) {
		t.Error("expected processing flag cleared after failure")
	}
	if got := m.Mode(userID); got != session.ModeSearch {
		t.Errorf("expected mode preserved after failure, got %s", got)
	}

	// The cooldown must not be stamped on failure: an immediate retry starts.
	if got := m.Admit(userID); got.Status != session.Started {
		t.Errorf("expected immediate retry to start, got %v", got.Status)
	}
}

func TestTextConversationHistory(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "Test response"}
	m := newTestMachine(gen, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeText)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}
	if _, err := m.Generate(context.Background(), userID, session.Input{Text: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []session.Turn{
		{Role: session.RoleUser, Content: "hello"},
		{Role: session.RoleAssistant, Content: "Test response"},
	}
	if len(gen.lastTurns) != 1 {
		t.Fatalf("expected generator to see 1 turn, got %d", len(gen.lastTurns))
	}
	if gen.lastTurns[0] != expected[0] {
		t.Errorf("expected generator input %+v, got %+v", expected[0], gen.lastTurns[0])
	}

	got := m.Turns(userID)
	if len(got) != len(expected) {
		t.Fatalf("expected %d history turns, got %d", len(expected), len(got))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("turn %d: expected %+v, got %+v", i, expected[i], got[i])
		}
	}
}

func TestVisionUsesDefaultPromptWithoutCaption(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "a cat"}
	m := newTestMachine(gen, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeVision)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}
	if _, err := m.Generate(context.Background(), userID, session.Input{ImagePath: "images/1.jpg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gen.lastPath != "images/1.jpg" {
		t.Errorf("expected image path passed through, got %q", gen.lastPath)
	}
	if gen.lastPrompt != session.DefaultVisionPrompt {
		t.Errorf("expected default vision prompt, got %q", gen.lastPrompt)
	}
}

func TestImageGenerationReturnsBytes(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{image: []byte{0x89, 0x50, 0x4e, 0x47}}
	m := newTestMachine(gen, &fakeClock{current: time.Unix(1000, 0)})
	const userID = int64(1)

	m.EnterMode(userID, session.ModeImage)
	if got := m.Admit(userID); got.Status != session.Started {
		t.Fatalf("expected Started, got %v", got.Status)
	}

	out, err := m.Generate(context.Background(), userID, session.Input{Text: "a sunset"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Image) != 4 {
		t.Errorf("expected image bytes in output, got %d bytes", len(out.Image))
	}
	if out.Text != "" {
		t.Errorf("expected no text output for image mode, got %q", out.Text)
	}
}
