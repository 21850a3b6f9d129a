package config

import (
	"encoding/json"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Diagnostic levels of Mode
const (
	ModeOff   = "off"
	ModeWarn  = "warn"
	ModeError = "error"
)

// Mode controls undefined-variable diagnostics. It decodes from either a
// level ("warn") or a level with options (["warn", {"ignore": "^--x-"}]).
type Mode struct {
	Level string
	// Ignore holds patterns of variable names never reported
	Ignore StringList
}

type modeOptions struct {
	Ignore StringList `json:"ignore" yaml:"ignore"`
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Mode) UnmarshalJSON(data []byte) error {
	var level string
	if err := json.Unmarshal(data, &level); err == nil {
		return m.set(level, modeOptions{})
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) == 0 || len(tuple) > 2 {
		return fmt.Errorf("mode must be a level or [level, options]")
	}
	if err := json.Unmarshal(tuple[0], &level); err != nil {
		return fmt.Errorf("mode level must be a string: %w", err)
	}
	var opts modeOptions
	if len(tuple) == 2 && string(tuple[1]) != "null" {
		if err := json.Unmarshal(tuple[1], &opts); err != nil {
			return fmt.Errorf("invalid mode options: %w", err)
		}
	}
	return m.set(level, opts)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode:
		return m.set(node.Value, modeOptions{})
	case node.Kind == yaml.SequenceNode && len(node.Content) > 0 && len(node.Content) <= 2:
		var opts modeOptions
		if len(node.Content) == 2 {
			if err := node.Content[1].Decode(&opts); err != nil {
				return err
			}
		}
		return m.set(node.Content[0].Value, opts)
	}
	return fmt.Errorf("line %d: mode must be a level or [level, options]", node.Line)
}

func (m *Mode) set(level string, opts modeOptions) error {
	switch level {
	case ModeOff, ModeWarn, ModeError:
	default:
		return fmt.Errorf("unknown mode %q", level)
	}
	m.Level = level
	m.Ignore = opts.Ignore
	return nil
}

// IgnoreMatcher reports variable names excluded from diagnostics
type IgnoreMatcher []*regexp.Regexp

// CompileIgnore compiles the ignore patterns
func (m Mode) CompileIgnore() (IgnoreMatcher, error) {
	var out IgnoreMatcher
	for _, pattern := range m.Ignore {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Match reports whether name is ignored
func (m IgnoreMatcher) Match(name string) bool {
	for _, re := range m {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
