package info

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/router"
)

func TestInfoScreen_ViewShowsBody(t *testing.T) {
	s := New("Help", "Available commands:\n/topic - Get a new conversation topic")
	view := s.View(80, 20)
	if !strings.Contains(view, "/topic - Get a new conversation topic") {
		t.Errorf("view missing body:\n%s", view)
	}
	if s.Title() != "Help" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestInfoScreen_Scroll(t *testing.T) {
	s := New("Help", "one\ntwo\nthree")
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 0 {
		t.Errorf("offset = %d after scrolling above the top", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 2 {
		t.Errorf("offset = %d, want 2", s.offset)
	}
	if strings.Contains(s.View(80, 20), "one") {
		t.Error("scrolled view should hide the first line")
	}
}

func TestInfoScreen_CloseKeysPop(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: 'q', Text: "q"},
		{Code: tea.KeyEnter},
	} {
		_, cmd := New("Help", "x").Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected a command", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%s: expected PopScreenMsg, got %T", key.String(), cmd())
		}
	}
}
