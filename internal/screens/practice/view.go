package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/theme"
)

type speaker int

const (
	speakerUser speaker = iota
	speakerAssistant
	speakerSystem
)

// entry is one bubble in the conversation panel. Entries are display
// only; the conversation history lives in the practice state.
type entry struct {
	who  speaker
	text string
}

// bubbleShare is the fraction of the panel width a bubble may use.
const bubbleShare = 0.7

func (s *PracticeScreen) View(width, height int) string {
	panelW, padX := s.panelGeometry(width)

	var bottom []string
	if s.banner {
		bottom = append(bottom, theme.WarningBanner.Width(panelW).Render("⚠ "+TTSWarning+"  [Esc] Dismiss"))
	}
	bottom = append(bottom,
		s.renderStatus(),
		s.renderInput(panelW),
		s.renderButtons(),
	)
	footer := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	// The panel border takes two rows and two columns.
	panelH := height - lipgloss.Height(footer) - 2
	if _, rows := s.ui.PanelSize(); rows > 0 && panelH > rows {
		panelH = rows
	}
	if panelH < 1 {
		panelH = 1
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, padX).
		Width(panelW).
		Render(s.renderConversation(panelW-2-2*padX, panelH))

	content := lipgloss.JoinVertical(lipgloss.Left, panel, footer)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// panelGeometry caps the panel to the configured window size and returns
// its width and horizontal padding in cells.
func (s *PracticeScreen) panelGeometry(width int) (int, int) {
	panelW := width - 2
	if cols, _ := s.ui.PanelSize(); cols > 0 && panelW > cols {
		panelW = cols
	}
	padX := s.ui.PaddingCells()
	if panelW-2-2*padX < 10 {
		padX = 0
	}
	return panelW, padX
}

// renderConversation lays out the bubbles and keeps the newest visible
// unless the user has scrolled back.
func (s *PracticeScreen) renderConversation(innerW, rows int) string {
	if innerW < 1 {
		innerW = 1
	}
	bubbleW := int(float64(innerW) * bubbleShare)
	if bubbleW < 10 {
		bubbleW = innerW
	}

	var lines []string
	for i, e := range s.entries {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.Split(renderBubble(e, bubbleW, innerW), "\n")...)
	}

	maxScroll := len(lines) - rows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := len(lines) - s.scroll
	start := end - rows
	if start < 0 {
		start = 0
	}
	visible := lines[start:end]
	for len(visible) < rows {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func renderBubble(e entry, bubbleW, innerW int) string {
	style := theme.AssistantBubble
	align := lipgloss.Left
	switch e.who {
	case speakerUser:
		style = theme.UserBubble
		align = lipgloss.Right
	case speakerSystem:
		style = theme.SystemBubble
	}

	text := e.text
	if lipgloss.Width(text)+2 < bubbleW && !strings.Contains(text, "\n") {
		bubbleW = lipgloss.Width(text) + 2
	}
	bubble := style.Width(bubbleW).Render(text)
	return lipgloss.PlaceHorizontal(innerW, align, bubble)
}

func (s *PracticeScreen) renderStatus() string {
	color := theme.Success
	switch s.statusTone {
	case toneBusy:
		color = theme.Accent
	case toneError:
		color = theme.Error
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render("● " + s.status)
}

func (s *PracticeScreen) renderInput(panelW int) string {
	s.input.SetWidth(panelW - 4)
	return s.input.View()
}

func (s *PracticeScreen) renderButtons() string {
	idle := !s.quitting
	return components.ButtonRow(1,
		components.NewButton("Send", "Enter", idle),
		components.NewButton("Speak", "Ctrl+R", idle && !s.listening && s.listener != nil),
		components.NewButton("New Topic", "Ctrl+T", idle),
		components.NewButton("Level: "+s.state.Difficulty.Label(), "Ctrl+L", idle),
	)
}
