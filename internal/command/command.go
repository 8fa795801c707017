// Package command interprets slash commands typed or spoken by the learner.
package command

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/parley/internal/conversation"
)

// Prefix marks an input as a command.
const Prefix = "/"

// HelpText lists the available commands.
const HelpText = `Available commands:
/topic - Suggest a new conversation topic
/difficulty [beginner|intermediate|advanced] - Set difficulty level
/corrections - Toggle correction mode
/help - Show this help message
/save - Save conversation
/quit - Exit application`

// Goodbye is spoken before the application exits.
const Goodbye = "Goodbye! Thanks for practicing your English."

const (
	savedReply      = "Conversation saved successfully"
	saveFailedReply = "Failed to save conversation"
)

// Kind says what the caller should do with an Outcome.
type Kind int

const (
	// Ignore means the input was blank.
	Ignore Kind = iota
	// Chat means the input is a conversational message for the tutor.
	Chat
	// System means Text is a system reply to show, and to speak if Speak is set.
	System
	// Quit means Text should be spoken before the session is saved and closed.
	Quit
)

func (k Kind) String() string {
	switch k {
	case Ignore:
		return "ignore"
	case Chat:
		return "chat"
	case System:
		return "system"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Outcome is the result of dispatching one input line.
type Outcome struct {
	Kind  Kind
	Text  string
	Speak bool
}

// Dispatcher applies commands to a conversation.
type Dispatcher struct {
	state       *conversation.State
	historyFile string
	logger      zerolog.Logger
}

// NewDispatcher creates a Dispatcher bound to st. Saved conversations are
// written to historyFile.
func NewDispatcher(st *conversation.State, historyFile string, logger zerolog.Logger) *Dispatcher {
	if historyFile == "" {
		historyFile = conversation.DefaultHistoryFile
	}
	return &Dispatcher{state: st, historyFile: historyFile, logger: logger}
}

// HistoryFile returns the path conversations are saved to.
func (d *Dispatcher) HistoryFile() string {
	return d.historyFile
}

// Dispatch interprets input. Only the command word is case-insensitive;
// arguments are passed on as typed. Unknown commands, and /difficulty
// without a level, are returned as Chat.
func (d *Dispatcher) Dispatch(input string) Outcome {
	if strings.TrimSpace(input) == "" {
		return Outcome{Kind: Ignore}
	}
	chat := Outcome{Kind: Chat, Text: input}
	if !strings.HasPrefix(input, Prefix) {
		return chat
	}

	fields := strings.Fields(input)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "/topic":
		return Outcome{Kind: System, Text: d.state.SuggestTopic(), Speak: true}
	case "/difficulty":
		if len(args) == 0 {
			return chat
		}
		return Outcome{Kind: System, Text: d.state.SetDifficulty(args[0]), Speak: true}
	case "/corrections":
		return Outcome{Kind: System, Text: d.state.ToggleCorrectionMode(), Speak: true}
	case "/help", "/commands":
		return Outcome{Kind: System, Text: HelpText}
	case "/save":
		if err := d.Save(); err != nil {
			return Outcome{Kind: System, Text: saveFailedReply}
		}
		return Outcome{Kind: System, Text: savedReply}
	case "/quit":
		return Outcome{Kind: Quit, Text: Goodbye, Speak: true}
	default:
		return chat
	}
}

// Save writes the full conversation history. Failures are logged.
func (d *Dispatcher) Save() error {
	if err := d.state.Save(d.historyFile); err != nil {
		d.logger.Error().Err(err).Str("file", d.historyFile).Msg("error saving conversation")
		return err
	}
	d.logger.Info().Str("file", d.historyFile).Int("messages", len(d.state.History)).Msg("conversation saved")
	return nil
}
