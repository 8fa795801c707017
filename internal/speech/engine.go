package speech

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/abhisek/parley/internal/config"
)

// Engine names accepted in the voice configuration.
const (
	EngineLocal  = "local"
	EngineOpenAI = "openai"
	EngineNone   = "none"
)

// NewEngine builds the engine selected by cfg. It returns (nil, nil) when
// voice output is turned off. client is only needed for the openai engine.
func NewEngine(ctx context.Context, cfg config.VoiceConfig, client *openai.Client) (Engine, error) {
	switch cfg.Engine {
	case EngineNone:
		return nil, nil
	case EngineOpenAI:
		if client == nil {
			return nil, fmt.Errorf("openai speech engine needs an OpenAI API key")
		}
		return NewOpenAIEngine(client, cfg.Rate, cfg.VoiceIndex), nil
	case EngineLocal, "":
		e, err := NewCommandEngine(ctx, CommandOptions{
			Command:    cfg.Command,
			Rate:       cfg.Rate,
			VoiceIndex: cfg.VoiceIndex,
		})
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown speech engine: %q", cfg.Engine)
	}
}
