package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://parley-config.json"

// schemaDefinition describes config.json. Unknown sections and unknown keys
// inside a section are allowed; known keys must have the right type.
var schemaDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"voice": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"rate":        map[string]any{"type": "integer", "minimum": 1},
				"voice_index": map[string]any{"type": "integer", "minimum": 0},
				"engine":      map[string]any{"type": "string", "enum": []any{"local", "openai", "none"}},
				"command":     map[string]any{"type": "string"},
			},
		},
		"ui": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"window_width":  map[string]any{"type": "integer", "minimum": 1},
				"window_height": map[string]any{"type": "integer", "minimum": 1},
				"padding":       map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"practice": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"difficulty_level": map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
				"focus_areas": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"topics_file": map[string]any{"type": "string"},
			},
		},
		"files": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"history": map[string]any{"type": "string", "minLength": 1},
				"log":     map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants plain decoded JSON, not Go ints.
		raw, err := json.Marshal(schemaDefinition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks a decoded JSON document against the config schema.
func validate(doc any) error {
	if _, ok := doc.(map[string]any); !ok {
		return fmt.Errorf("invalid config: top level must be an object")
	}
	s, err := configSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
