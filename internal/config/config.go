package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/parley/internal/conversation"
	"github.com/abhisek/parley/internal/logging"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "config.json"

// Config is the application configuration. It is read once at startup.
type Config struct {
	Voice    VoiceConfig    `json:"voice"`
	UI       UIConfig       `json:"ui"`
	Practice PracticeConfig `json:"practice"`
	Files    FilesConfig    `json:"files"`
}

// VoiceConfig controls speech output.
type VoiceConfig struct {
	// Rate is the speaking rate in words per minute.
	Rate int `json:"rate"`

	// VoiceIndex selects an installed voice; out-of-range values are clamped.
	VoiceIndex int `json:"voice_index"`

	// Engine is "local", "openai" or "none".
	Engine string `json:"engine"`

	// Command overrides the local synthesizer binary.
	Command string `json:"command,omitempty"`
}

// UIConfig holds the window geometry in pixels.
type UIConfig struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	Padding      int `json:"padding"`
}

// PracticeConfig seeds the conversation state.
type PracticeConfig struct {
	DifficultyLevel string   `json:"difficulty_level"`
	FocusAreas      []string `json:"focus_areas"`

	// TopicsFile optionally replaces the built-in topic catalog.
	TopicsFile string `json:"topics_file,omitempty"`
}

// FilesConfig names the files the application writes.
type FilesConfig struct {
	History string `json:"history"`
	Log     string `json:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Voice: VoiceConfig{
			Rate:       150,
			VoiceIndex: 0,
			Engine:     "local",
		},
		UI: UIConfig{
			WindowWidth:  400,
			WindowHeight: 600,
			Padding:      20,
		},
		Practice: PracticeConfig{
			DifficultyLevel: string(conversation.Intermediate),
			FocusAreas:      []string{"conversation", "grammar", "vocabulary"},
		},
		Files: FilesConfig{
			History: conversation.DefaultHistoryFile,
			Log:     logging.DefaultFile,
		},
	}
}

// Load reads path and merges it over the defaults one section at a time:
// keys present in a file section replace the default keys of that section,
// the remaining keys keep their defaults. A missing file is not an error.
// On any other failure the defaults are returned together with the error.
func Load(path string) (Config, error) {
	def := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return def, err
	}
	return cfg, nil
}

// Parse validates a config document and merges it over the defaults.
func Parse(data []byte) (Config, error) {
	def := Default()

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return def, fmt.Errorf("parse config: %w", err)
	}
	if err := validate(doc); err != nil {
		return def, err
	}

	base, err := sections(def)
	if err != nil {
		return def, err
	}

	for name, v := range doc.(map[string]any) {
		overrides, ok := v.(map[string]any)
		if !ok {
			continue
		}
		section, known := base[name]
		if !known {
			continue
		}
		for k, val := range overrides {
			section[k] = val
		}
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return def, fmt.Errorf("merge config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(merged, &cfg); err != nil {
		return def, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// sections flattens cfg into its top-level JSON sections.
func sections(cfg Config) (map[string]map[string]any, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var out map[string]map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return out, nil
}

// Difficulty returns the configured level, falling back to intermediate
// for unknown values.
func (c Config) Difficulty() conversation.Difficulty {
	if d, ok := conversation.ParseDifficulty(c.Practice.DifficultyLevel); ok {
		return d
	}
	return conversation.Intermediate
}
