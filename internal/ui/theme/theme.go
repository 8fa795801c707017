package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm blues with warm accents
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
	BgUser    = lipgloss.Color("#1D4ED8") // Deep Blue
	BgWarning = lipgloss.Color("#7F1D1D") // Dark Red
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)

// Conversation bubbles
var (
	UserBubble = lipgloss.NewStyle().
			Background(BgUser).
			Foreground(Text).
			Padding(0, 1)

	AssistantBubble = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(Text).
			Padding(0, 1)

	SystemBubble = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(Secondary).
			Italic(true).
			Padding(0, 1)

	WarningBanner = lipgloss.NewStyle().
			Background(BgWarning).
			Foreground(Text).
			Bold(true).
			Padding(0, 1)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)
)
