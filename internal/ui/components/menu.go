package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// MenuItem represents a single choice in a menu.
type MenuItem struct {
	Label  string
	Detail string
	Action func() tea.Cmd
}

// Menu is a vertical list of choices. Navigation wraps around, and the
// digits 1-9 jump straight to an item and activate it.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Select moves the cursor to the item whose label matches, ignoring case.
func (m *Menu) Select(label string) {
	for i, item := range m.Items {
		if strings.EqualFold(item.Label, label) {
			m.Selected = i
			return
		}
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter", "space":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Items) {
			m.Selected = n - 1
			return m, m.activate()
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if action := m.Items[m.Selected].Action; action != nil {
		return action()
	}
	return nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := strconv.Itoa(i+1) + ". " + item.Label
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("    " + line))
		}
		if item.Detail != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
