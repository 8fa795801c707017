// Package tutor produces the assistant's conversational replies.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/parley/internal/conversation"
	"github.com/abhisek/parley/internal/llm"
)

// Apology is returned in place of a reply when generation fails.
const Apology = "Sorry, I encountered an error generating a response."

// Purpose labels conversation requests in the event log.
const Purpose = "conversation"

// Config holds reply generation settings.
type Config struct {
	MaxTokens     int
	Temperature   float64
	ContextWindow int
}

// DefaultConfig returns the settings used for practice conversations.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     200,
		Temperature:   0.7,
		ContextWindow: 5,
	}
}

// Turn is a prepared request for one user message.
type Turn struct {
	Input   string
	Request llm.Request
}

// Generator turns user messages into assistant replies.
type Generator struct {
	provider llm.Provider
	cfg      Config
	logger   zerolog.Logger
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config, logger zerolog.Logger) *Generator {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultConfig().ContextWindow
	}
	return &Generator{provider: provider, cfg: cfg, logger: logger}
}

// Begin appends the user message to history and builds the request from
// the updated state. It must run on the goroutine that owns st.
func (g *Generator) Begin(st *conversation.State, text string) Turn {
	st.Append(conversation.RoleUser, text)

	recent := st.Recent(g.cfg.ContextWindow)
	msgs := make([]llm.Message, 0, len(recent))
	for _, m := range recent {
		msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}

	return Turn{
		Input: text,
		Request: llm.Request{
			System:      buildSystemPrompt(st),
			Messages:    msgs,
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: g.cfg.Temperature,
		},
	}
}

// Complete performs the network call for a turn. It does not touch any
// conversation state and may run on any goroutine.
func (g *Generator) Complete(ctx context.Context, turn Turn) (string, error) {
	if g.provider == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := g.provider.Generate(ctx, turn.Request)
	if err != nil {
		return "", fmt.Errorf("conversation reply: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("conversation reply: %w", &llm.ErrInvalidResponse{Err: fmt.Errorf("empty reply")})
	}
	return text, nil
}

// Finish records the outcome of a turn. A successful reply is appended to
// history; a failure is logged and answered with Apology, leaving only the
// user message in history.
func (g *Generator) Finish(st *conversation.State, reply string, err error) string {
	if err != nil {
		g.logger.Error().Err(err).Msg("error generating response")
		return Apology
	}
	st.Append(conversation.RoleAssistant, reply)
	return reply
}

// Respond runs a whole turn synchronously.
func (g *Generator) Respond(ctx context.Context, st *conversation.State, text string) string {
	turn := g.Begin(st, text)
	reply, err := g.Complete(ctx, turn)
	return g.Finish(st, reply, err)
}
