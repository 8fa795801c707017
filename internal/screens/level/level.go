// Package level provides the difficulty picker.
package level

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/conversation"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/theme"
)

// SelectedMsg is delivered to the screen below once a level has been chosen.
type SelectedMsg struct {
	Level conversation.Difficulty
}

var details = map[conversation.Difficulty]string{
	conversation.Beginner:     "short sentences, everyday words",
	conversation.Intermediate: "natural pace, common idioms",
	conversation.Advanced:     "rich vocabulary, nuanced topics",
}

// LevelScreen lists the practice levels with the current one highlighted.
type LevelScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*LevelScreen)(nil)
var _ screen.KeyHintProvider = (*LevelScreen)(nil)

// New creates a picker with current preselected.
func New(current conversation.Difficulty) *LevelScreen {
	items := make([]components.MenuItem, 0, len(conversation.Difficulties))
	for _, d := range conversation.Difficulties {
		items = append(items, components.MenuItem{
			Label:  string(d),
			Detail: details[d],
			Action: choose(d),
		})
	}
	menu := components.NewMenu(items)
	menu.Select(string(current))
	return &LevelScreen{menu: menu}
}

func choose(d conversation.Difficulty) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PopScreenMsg{Result: SelectedMsg{Level: d}}
		}
	}
}

func (s *LevelScreen) Init() tea.Cmd {
	return nil
}

func (s *LevelScreen) Title() string {
	return "Difficulty"
}

func (s *LevelScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LevelScreen) View(width, height int) string {
	heading := theme.Title.Render("Choose your level")
	body := lipgloss.JoinVertical(lipgloss.Left, heading, "", s.menu.View())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(body))
}

func (s *LevelScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Cancel"},
	}
}
