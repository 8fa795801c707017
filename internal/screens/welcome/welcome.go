package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	typingEnd    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// greeting is typed into the speech bubble one rune per tick.
const greeting = "Hello! Shall we talk?"

const tagline = "Practice your English, out loud."

// cursorFrames blink at the end of the bubble text.
var cursorFrames = []string{"▌", " "}

type tickMsg time.Time

// WelcomeScreen shows a short splash animation. Any key moves on to the
// screen produced by the factory.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// typed returns the part of the greeting visible so far.
func (w *WelcomeScreen) typed() string {
	runes := []rune(greeting)
	n := len(runes) * int(w.elapsed) / int(typingEnd)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	text := w.typed()
	if w.elapsed < typingEnd {
		text += cursorFrames[w.tickCount%len(cursorFrames)]
	}
	bubble := theme.AssistantBubble.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(len([]rune(greeting)) + 4).
		Render(text)
	sections = append(sections, bubble)

	if w.elapsed >= typingEnd {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(tagline))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
