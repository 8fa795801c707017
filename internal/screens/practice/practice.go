// Package practice implements the conversation screen.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/parley/internal/command"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/conversation"
	"github.com/abhisek/parley/internal/listen"
	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/screens/info"
	"github.com/abhisek/parley/internal/screens/level"
	"github.com/abhisek/parley/internal/speech"
	"github.com/abhisek/parley/internal/tutor"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
)

// WelcomeMessage is the first assistant bubble of every session.
const WelcomeMessage = `Hello! I'm your English practice assistant. I'm here to help you improve your English conversation skills.

Type messages in English and I'll respond naturally. I can also give you gentle corrections to help you learn.

Try these commands:
/topic - Get a new conversation topic
/difficulty [level] - Change difficulty (beginner, intermediate, advanced)
/help - See all commands

Let's start practicing! How are you feeling today?`

// Greeting is spoken when the screen opens.
const Greeting = "Hello! I'm your English practice assistant. How are you feeling today?"

// TTSWarning is shown in the banner when speech output is unavailable.
const TTSWarning = "Text-to-speech engine failed to initialize. Voice output disabled."

// Spoken apologies for failed captures.
const (
	noSpeechApology       = "I didn't hear anything. Please try again."
	unintelligibleApology = "Sorry, I didn't catch that. Could you repeat?"
	serviceErrorApology   = "Speech recognition service unavailable"
)

const (
	statusReady      = "Ready"
	statusProcessing = "Processing..."
	statusGoodbye    = "Goodbye!"
)

// quitDelay lets the goodbye play before the history is saved.
const quitDelay = 2 * time.Second

const keyHelp = `

Keys:
Enter  - Send the typed message
Ctrl+R - Speak instead of typing
Ctrl+T - New conversation topic
Ctrl+L - Change difficulty level
PgUp/PgDn - Scroll the conversation
Esc    - Dismiss the warning banner
Ctrl+C - Save and quit`

// Deps holds everything the screen needs. Listener may be nil when no
// microphone is configured.
type Deps struct {
	State      *conversation.State
	Generator  *tutor.Generator
	Dispatcher *command.Dispatcher
	Speech     *speech.Queue
	Listener   *listen.Listener
	UI         config.UIConfig
	SessionID  string
	Logger     zerolog.Logger

	// Ctx bounds background work. Defaults to context.Background.
	Ctx context.Context
}

type tone int

const (
	toneReady tone = iota
	toneBusy
	toneError
)

// PracticeScreen is the main conversation view.
type PracticeScreen struct {
	state      *conversation.State
	generator  *tutor.Generator
	dispatcher *command.Dispatcher
	speech     *speech.Queue
	listener   *listen.Listener
	ui         config.UIConfig
	sessionID  string
	logger     zerolog.Logger
	ctx        context.Context

	input   components.TextInput
	entries []entry
	scroll  int

	status     string
	statusTone tone

	greeted   bool
	banner    bool
	busy      bool
	backlog   []string
	listening bool
	listenCh  <-chan tea.Msg
	quitting  bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackgroundReceiver = (*PracticeScreen)(nil)

// New creates the practice screen. A resumed history is shown below the
// welcome message.
func New(deps Deps) *PracticeScreen {
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s := &PracticeScreen{
		state:      deps.State,
		generator:  deps.Generator,
		dispatcher: deps.Dispatcher,
		speech:     deps.Speech,
		listener:   deps.Listener,
		ui:         deps.UI,
		sessionID:  deps.SessionID,
		logger:     deps.Logger,
		ctx:        ctx,
		input:      components.NewTextInput("Type in English...", 500),
		status:     statusReady,
	}

	s.addEntry(speakerAssistant, "Assistant: "+WelcomeMessage)
	for _, m := range deps.State.History {
		switch m.Role {
		case conversation.RoleUser:
			s.addEntry(speakerUser, "You: "+m.Content)
		case conversation.RoleAssistant:
			s.addEntry(speakerAssistant, "Assistant: "+m.Content)
		}
	}
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	if !s.greeted {
		s.greeted = true
		s.speak(Greeting)
		s.banner = s.speech == nil || !s.speech.Enabled()
	}
	return s.input.Init()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.quitting {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit now"}}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+R", Description: "Speak"},
		{Key: "Ctrl+T", Description: "Topic"},
		{Key: "Ctrl+L", Description: "Level"},
		{Key: "F1", Description: "Help"},
	}
	if s.banner {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Dismiss"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Owns claims replies and capture progress so they reach this screen
// while the level picker or help is open.
func (s *PracticeScreen) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case replyMsg, listenStateMsg, listenDoneMsg, quitTickMsg:
		return true
	}
	return false
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return s, s.handleReply(msg)

	case listenStateMsg:
		s.setStatus(listenStatus(msg.State), toneBusy)
		return s, waitForListen(s.listenCh)

	case listenDoneMsg:
		return s, s.handleListenDone(msg)

	case level.SelectedMsg:
		// The level picker reports without speaking, like the toolbar it replaces.
		s.addEntry(speakerSystem, "System: "+s.state.SetDifficulty(string(msg.Level)))
		return s, nil

	case quitTickMsg:
		_ = s.dispatcher.Save()
		return s, tea.Quit

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.quitting {
		return s, nil
	}

	switch msg.String() {
	case "enter":
		return s, s.process(s.input.Take())
	case "ctrl+r":
		return s, s.startListening()
	case "ctrl+t":
		s.newTopic()
		return s, nil
	case "ctrl+l":
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: level.New(s.state.Difficulty)}
		}
	case "f1":
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: info.New("Help", command.HelpText+keyHelp)}
		}
	case "esc":
		s.banner = false
		return s, nil
	case "pgup":
		s.scroll += 5
		return s, nil
	case "pgdown":
		s.scroll -= 5
		if s.scroll < 0 {
			s.scroll = 0
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// process routes one line of input, typed or recognized.
func (s *PracticeScreen) process(text string) tea.Cmd {
	out := s.dispatcher.Dispatch(text)
	switch out.Kind {
	case command.System:
		s.addEntry(speakerSystem, "System: "+out.Text)
		if out.Speak {
			s.speak(out.Text)
		}
		return nil

	case command.Quit:
		s.speak(out.Text)
		s.quitting = true
		s.input.SetDisabled(true)
		s.setStatus(statusGoodbye, toneReady)
		return tea.Tick(quitDelay, func(time.Time) tea.Msg {
			return quitTickMsg{}
		})

	case command.Chat:
		s.addEntry(speakerUser, "You: "+text)
		if s.busy {
			s.backlog = append(s.backlog, text)
			return nil
		}
		return s.chat(text)
	}
	return nil
}

// chat starts the turn for text, whose bubble is already shown.
func (s *PracticeScreen) chat(text string) tea.Cmd {
	turn := s.generator.Begin(s.state, text)
	s.busy = true
	s.setStatus(statusProcessing, toneBusy)

	gen := s.generator
	ctx := llm.WithSession(s.ctx, s.sessionID)
	return func() tea.Msg {
		reply, err := gen.Complete(ctx, turn)
		return replyMsg{Reply: reply, Err: err}
	}
}

func (s *PracticeScreen) handleReply(msg replyMsg) tea.Cmd {
	reply := s.generator.Finish(s.state, msg.Reply, msg.Err)
	s.addEntry(speakerAssistant, "Assistant: "+reply)
	s.speak(reply)
	s.busy = false
	s.setStatus(statusReady, toneReady)

	if len(s.backlog) == 0 || s.quitting {
		return nil
	}
	next := s.backlog[0]
	s.backlog = s.backlog[1:]
	return s.chat(next)
}

func (s *PracticeScreen) newTopic() {
	suggestion := s.state.SuggestTopic()
	s.addEntry(speakerSystem, "System: "+suggestion)
	s.speak(suggestion)
}

func (s *PracticeScreen) startListening() tea.Cmd {
	if s.listening {
		return nil
	}
	if s.listener == nil {
		s.setStatus("Error: no microphone configured", toneError)
		return nil
	}

	s.listening = true
	s.setStatus(listenStatus(listen.Calibrating), toneBusy)

	ch := make(chan tea.Msg, 8)
	s.listenCh = ch
	l, ctx := s.listener, s.ctx
	return func() tea.Msg {
		go runListener(ctx, l, ch)
		return <-ch
	}
}

// runListener performs one capture and always ends the stream with a
// listenDoneMsg before closing ch.
func runListener(ctx context.Context, l *listen.Listener, ch chan<- tea.Msg) {
	defer close(ch)

	var done listenDoneMsg
	defer func() {
		if r := recover(); r != nil {
			done = listenDoneMsg{Result: listen.Result{
				State: listen.Failed,
				Err:   fmt.Errorf("listener panic: %v", r),
			}}
		}
		ch <- done
	}()

	res, err := l.Listen(ctx, func(st listen.State) {
		if !st.Terminal() {
			ch <- listenStateMsg{State: st}
		}
	})
	done = listenDoneMsg{Result: res, Err: err}
}

func waitForListen(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (s *PracticeScreen) handleListenDone(msg listenDoneMsg) tea.Cmd {
	s.listening = false
	s.listenCh = nil

	if msg.Err != nil {
		if !errors.Is(msg.Err, listen.ErrBusy) {
			s.logger.Error().Err(msg.Err).Msg("voice capture failed")
		}
		s.setStatus("Error: "+msg.Err.Error(), toneError)
		return nil
	}

	res := msg.Result
	switch res.State {
	case listen.Success:
		s.setStatus(statusReady, toneReady)
		return s.process(res.Text)
	case listen.NoSpeech:
		s.setStatus(listenStatus(res.State), toneError)
		s.speak(noSpeechApology)
	case listen.Unintelligible:
		s.setStatus(listenStatus(res.State), toneError)
		s.speak(unintelligibleApology)
	case listen.ServiceError:
		s.logger.Error().Err(res.Err).Msg("speech recognition service error")
		s.setStatus(listenStatus(res.State), toneError)
		s.speak(serviceErrorApology)
	default:
		s.logger.Error().Err(res.Err).Msg("recognition error")
		errText := "unknown error"
		if res.Err != nil {
			errText = res.Err.Error()
		}
		s.setStatus("Error: "+errText, toneError)
	}
	return nil
}

// listenStatus maps capture states to status line text.
func listenStatus(st listen.State) string {
	switch st {
	case listen.Calibrating:
		return "Listening..."
	case listen.Listening:
		return "Speak now..."
	case listen.Recognizing:
		return "Recognizing..."
	case listen.NoSpeech:
		return "No speech detected"
	case listen.Unintelligible:
		return "Couldn't understand audio"
	case listen.ServiceError:
		return "Speech service error"
	}
	return statusReady
}

func (s *PracticeScreen) speak(text string) {
	if s.speech == nil {
		return
	}
	s.speech.Speak(text)
}

func (s *PracticeScreen) setStatus(text string, t tone) {
	s.status = text
	s.statusTone = t
}

func (s *PracticeScreen) addEntry(who speaker, text string) {
	s.entries = append(s.entries, entry{who: who, text: text})
	s.scroll = 0
}

// HeaderInfo returns the level and topic shown in the header.
func (s *PracticeScreen) HeaderInfo() (string, string) {
	return s.state.Difficulty.Label(), s.state.Topic
}
