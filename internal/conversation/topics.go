package conversation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultTopics = []string{
	"Travel and vacation experiences",
	"Hobbies and interests",
	"Food and cooking",
	"Movies and entertainment",
	"Technology and gadgets",
	"Work and career goals",
	"Education and learning",
	"Family and relationships",
	"Cultural differences",
	"Current events",
	"Health and fitness",
	"Environmental issues",
}

// Catalog is the fixed list of conversation topics.
type Catalog struct {
	topics []string
}

type catalogFile struct {
	Topics []string `yaml:"topics"`
}

// DefaultCatalog returns the built-in topic list.
func DefaultCatalog() *Catalog {
	return &Catalog{topics: append([]string(nil), defaultTopics...)}
}

// LoadCatalog reads a YAML file of the form `topics: [...]`. Blank entries
// are dropped; an empty result is an error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse topics file: %w", err)
	}

	var topics []string
	for _, t := range f.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topics file %s has no topics", path)
	}
	return &Catalog{topics: topics}, nil
}

// Topics returns the catalog entries in file order.
func (c *Catalog) Topics() []string {
	return c.topics
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}
