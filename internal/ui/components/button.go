package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// Button is a labelled control with the key that triggers it.
type Button struct {
	Label  string
	Key    string
	Active bool
}

// NewButton creates a new button.
func NewButton(label, key string, active bool) Button {
	return Button{
		Label:  label,
		Key:    key,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label += " (" + b.Key + ")"
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side separated by gap cells.
func ButtonRow(gap int, buttons ...Button) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 && gap > 0 {
			views = append(views, strings.Repeat(" ", gap))
		}
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}
