package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/layout"
)

// Options configures the root model.
type Options struct {
	// Initial is the first screen on the stack.
	Initial screen.Screen

	// Header returns the level and topic shown in the header bar.
	Header func() (level, topic string)

	// OnInterrupt runs on the UI goroutine when Ctrl+C is pressed, before
	// the program quits.
	OnInterrupt func()
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router      *router.Router
	header      func() (string, string)
	onInterrupt func()
	width       int
	height      int
}

// newAppModel creates a new AppModel with the initial screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router:      router.New(opts.Initial),
		header:      opts.Header,
		onInterrupt: opts.OnInterrupt,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.onInterrupt != nil {
				m.onInterrupt()
			}
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if content := m.render(); content != "" {
		v.SetContent(content)
	}
	return v
}

// render draws the full frame. It returns "" until the size is known.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The splash screen has no title and gets a bare header.
	level, topic := "", ""
	if title != "" && m.header != nil {
		level, topic = m.header()
	}
	header := layout.RenderHeader(title, level, topic, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Initial == nil {
		return fmt.Errorf("app: no initial screen")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
