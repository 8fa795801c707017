package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Parley styling.
type TextInput struct {
	Model    textinput.Model
	MaxWidth int
	disabled bool
}

// NewTextInput creates a new styled, focused text input. maxLen limits
// the number of characters; zero means unlimited.
func NewTextInput(placeholder string, maxLen int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if maxLen > 0 {
		ti.CharLimit = maxLen
	}

	return TextInput{
		Model:    ti,
		MaxWidth: maxLen,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A disabled input ignores key presses.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.disabled {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.disabled {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(view)
	}
	return view
}

// SetWidth sets the visible width of the input field.
func (t *TextInput) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	t.Model.SetWidth(w)
}

// SetDisabled toggles whether the input accepts key presses.
func (t *TextInput) SetDisabled(disabled bool) {
	t.disabled = disabled
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Take returns the trimmed input value and clears the field.
func (t *TextInput) Take() string {
	v := strings.TrimSpace(t.Model.Value())
	t.Model.Reset()
	return v
}
