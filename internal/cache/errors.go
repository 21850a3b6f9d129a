package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrNoWorkspaceRoot indicates an indexing request named no usable root
	ErrNoWorkspaceRoot = errors.New("no workspace root")

	// ErrInvalidConfiguration indicates a root's configuration cannot be used
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrParseFailure indicates a file could not be indexed
	ErrParseFailure = errors.New("parse failure")
)

// ConfigurationError is fatal to the indexing of one root
type ConfigurationError struct {
	Root   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Root == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Root, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidConfiguration
	}
	return e.Err
}

// NewConfigurationError creates a configuration error for root. Both
// ErrInvalidConfiguration and err are reachable through errors.Is and errors.As.
func NewConfigurationError(root string, err error) error {
	return &ConfigurationError{
		Root:   root,
		Reason: err.Error(),
		Err:    fmt.Errorf("%w: %w", ErrInvalidConfiguration, err),
	}
}

// ParseFailure records a file that could not be indexed. Its previously
// indexed declarations, if any, are kept.
type ParseFailure struct {
	Path string
	Err  error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("failed to index %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrParseFailure and the cause
func (e *ParseFailure) Unwrap() []error {
	return []error{ErrParseFailure, e.Err}
}
