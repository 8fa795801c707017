package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultHistoryFile is the file written by /save and on quit.
const DefaultHistoryFile = "english_practice_history.json"

// SaveHistory writes msgs as a JSON array of {role, content} objects,
// replacing any previous file.
func SaveHistory(path string, msgs []Message) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}

	if msgs == nil {
		msgs = []Message{}
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// LoadHistory reads a file written by SaveHistory. A missing file yields an
// empty history.
func LoadHistory(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	return msgs, nil
}

// Save writes the full history of s to path.
func (s *State) Save(path string) error {
	return SaveHistory(path, s.History)
}
