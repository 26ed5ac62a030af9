package config

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Setting is a documented configuration value. On disk it is a two element
// array: a human readable description followed by the value itself. The
// description is carried through load/write cycles untouched.
type Setting[T any] struct {
	Doc   string
	Value T
}

// NewSetting returns a Setting with the given description and value.
func NewSetting[T any](doc string, value T) Setting[T] {
	return Setting[T]{Doc: doc, Value: value}
}

func (s Setting[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Doc, s.Value})
}

func (s *Setting[T]) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("setting must be a [description, value] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("setting must be a [description, value] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Doc); err != nil {
		return fmt.Errorf("setting description: %w", err)
	}
	if err := json.Unmarshal(pair[1], &s.Value); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	return nil
}

func (s Setting[T]) MarshalYAML() (any, error) {
	return []any{s.Doc, s.Value}, nil
}

func (s *Setting[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: setting must be a [description, value] pair", node.Line)
	}
	if err := node.Content[0].Decode(&s.Doc); err != nil {
		return fmt.Errorf("setting description: %w", err)
	}
	if err := node.Content[1].Decode(&s.Value); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	return nil
}
