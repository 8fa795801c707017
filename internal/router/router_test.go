package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

type resultMsg string

func TestPopScreenMsgDeliversResult(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})

	cmd := r.Update(PopScreenMsg{Result: resultMsg("beginner")})
	if r.Active().Title() != "first" {
		t.Fatalf("expected active 'first', got %q", r.Active().Title())
	}
	if cmd == nil {
		t.Fatal("expected a command carrying the result")
	}
	if got := cmd(); got != resultMsg("beginner") {
		t.Errorf("got %#v, want the result message", got)
	}
}

func TestPopScreenMsgWithoutResult(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})
	if cmd := r.Update(PopScreenMsg{}); cmd != nil {
		t.Error("plain pop should not produce a command")
	}
}

type jobDoneMsg struct{}

// workerScreen owns jobDoneMsg and counts deliveries.
type workerScreen struct {
	stubScreen
	got int
}

func (s *workerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(jobDoneMsg); ok {
		s.got++
	}
	return s, nil
}

func (s *workerScreen) Owns(msg tea.Msg) bool {
	_, ok := msg.(jobDoneMsg)
	return ok
}

// countingScreen counts every message it receives.
type countingScreen struct {
	stubScreen
	got int
}

func (s *countingScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.got++
	return s, nil
}

func TestBackgroundResultReachesCoveredOwner(t *testing.T) {
	worker := &workerScreen{stubScreen: stubScreen{title: "worker"}}
	overlay := &countingScreen{stubScreen: stubScreen{title: "overlay"}}
	r := New(worker)
	r.Push(overlay)

	r.Update(jobDoneMsg{})
	if worker.got != 1 {
		t.Errorf("worker received %d results, want 1", worker.got)
	}
	if overlay.got != 0 {
		t.Errorf("overlay received %d messages, want 0", overlay.got)
	}

	r.Update(resultMsg("other"))
	if overlay.got != 1 {
		t.Errorf("unowned messages should go to the active screen, overlay got %d", overlay.got)
	}
	if worker.got != 1 {
		t.Errorf("worker should not see unowned messages, got %d", worker.got)
	}
}

func TestBackgroundResultWhenOwnerActive(t *testing.T) {
	worker := &workerScreen{stubScreen: stubScreen{title: "worker"}}
	r := New(worker)
	r.Update(jobDoneMsg{})
	if worker.got != 1 {
		t.Errorf("worker received %d results, want 1", worker.got)
	}
}
