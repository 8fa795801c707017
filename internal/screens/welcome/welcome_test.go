package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "practice" }
func (s *stubScreen) Title() string                          { return "Practice" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestGreetingTypesOut(t *testing.T) {
	w, _ := newTestWelcome()
	if got := w.typed(); got != "" {
		t.Errorf("typed() at start = %q, want empty", got)
	}

	sendTicks(w, 5)
	partial := w.typed()
	if partial == "" || partial == greeting {
		t.Errorf("typed() mid-animation = %q, want a partial greeting", partial)
	}
	if !strings.HasPrefix(greeting, partial) {
		t.Errorf("typed() = %q is not a prefix of the greeting", partial)
	}

	sendTicks(w, 10)
	if got := w.typed(); got != greeting {
		t.Errorf("typed() after typing phase = %q, want %q", got, greeting)
	}
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(80, 24), tagline) {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 15)
	view := w.View(80, 24)
	if !strings.Contains(view, tagline) {
		t.Error("tagline should be visible after the greeting is typed")
	}
	if strings.Contains(view, "press any key") {
		t.Error("hint should wait for the animation to finish")
	}

	sendTicks(w, 15)
	if !strings.Contains(w.View(80, 24), "press any key") {
		t.Error("hint should be visible once the animation finishes")
	}
}

func TestCompactBannerOnNarrowTerminal(t *testing.T) {
	w, _ := newTestWelcome()
	sendTicks(w, 30)
	if !strings.Contains(w.View(40, 24), bannerCompact) {
		t.Error("narrow terminal should render the compact banner")
	}
	if strings.Contains(w.View(100, 24), bannerCompact) {
		t.Error("wide terminal should render the full banner")
	}
}

func TestKeypressDuringAnimationTransitions(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount := newTestWelcome()

	sendTicks(w, 45)
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcome()

	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})
	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("tick after transition should not reschedule")
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
