package conversation

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Difficulty is the learner's practice level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists the accepted levels in display order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty returns the level named by s. Only exact lowercase names
// are accepted.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Label returns the capitalized display name.
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Role is the author of a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the conversation history. Messages are never
// mutated after they are appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Reply strings returned by the state mutators.
const (
	invalidDifficultyReply = "Invalid difficulty level. Choose beginner, intermediate, or advanced."
	correctionsOnReply     = "Correction mode enabled"
	correctionsOffReply    = "Correction mode disabled"
)

// Options configures a new State.
type Options struct {
	Difficulty Difficulty
	FocusAreas []string
	Topics     *Catalog

	// Pick returns a uniform index in [0, n). Defaults to math/rand/v2.
	Pick func(n int) int
}

// State is the per-session practice state. It is owned by a single
// goroutine and has no internal locking.
type State struct {
	Topic          string
	Difficulty     Difficulty
	FocusAreas     []string
	CorrectionMode bool
	History        []Message

	topics *Catalog
	pick   func(n int) int
}

// New creates a State with correction mode enabled and an empty history.
func New(opts Options) *State {
	d := opts.Difficulty
	if _, ok := ParseDifficulty(string(d)); !ok {
		d = Intermediate
	}
	topics := opts.Topics
	if topics == nil {
		topics = DefaultCatalog()
	}
	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &State{
		Difficulty:     d,
		FocusAreas:     append([]string(nil), opts.FocusAreas...),
		CorrectionMode: true,
		topics:         topics,
		pick:           pick,
	}
}

// SetDifficulty changes the level when level is one of the accepted names
// and returns a confirmation. Any other value leaves the state untouched.
func (s *State) SetDifficulty(level string) string {
	d, ok := ParseDifficulty(level)
	if !ok {
		return invalidDifficultyReply
	}
	s.Difficulty = d
	return fmt.Sprintf("Difficulty set to %s", d)
}

// ToggleCorrectionMode flips correction mode and reports the new setting.
func (s *State) ToggleCorrectionMode() string {
	s.CorrectionMode = !s.CorrectionMode
	if s.CorrectionMode {
		return correctionsOnReply
	}
	return correctionsOffReply
}

// SuggestTopic picks a random topic from the catalog and makes it current.
// Consecutive picks may repeat.
func (s *State) SuggestTopic() string {
	all := s.topics.Topics()
	if len(all) == 0 {
		return "Let's talk about: anything you like"
	}
	s.Topic = all[s.pick(len(all))]
	return fmt.Sprintf("Let's talk about: %s", s.Topic)
}

// Append adds a message to the end of the history.
func (s *State) Append(role Role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// Recent returns a copy of the last n history entries, oldest first.
func (s *State) Recent(n int) []Message {
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}

// TopicOrDefault returns the current topic, or "Open conversation" when
// none has been chosen.
func (s *State) TopicOrDefault() string {
	if s.Topic == "" {
		return "Open conversation"
	}
	return s.Topic
}
