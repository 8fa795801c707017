// Package info provides a read-only text screen used for help.
package info

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/theme"
)

// InfoScreen shows a block of text in a card. Up and down scroll when
// the text is taller than the screen; q and Enter close it.
type InfoScreen struct {
	title  string
	lines  []string
	offset int
}

var _ screen.Screen = (*InfoScreen)(nil)

// New creates a new InfoScreen with the given title and body.
func New(title, body string) *InfoScreen {
	return &InfoScreen{
		title: title,
		lines: strings.Split(strings.TrimRight(body, "\n"), "\n"),
	}
}

func (s *InfoScreen) Init() tea.Cmd {
	return nil
}

func (s *InfoScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.offset < len(s.lines)-1 {
			s.offset++
		}
	case "q", "enter":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *InfoScreen) View(width, height int) string {
	// Card border and padding take four rows.
	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	end := s.offset + visible
	if end > len(s.lines) {
		end = len(s.lines)
	}
	body := theme.Body.Render(strings.Join(s.lines[s.offset:end], "\n"))

	cardWidth := width - 8
	if cardWidth > 72 {
		cardWidth = 72
	}
	card := theme.Card.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *InfoScreen) Title() string {
	return s.title
}

func (s *InfoScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Close"},
	}
}
