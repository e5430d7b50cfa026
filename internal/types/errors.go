package types

import (
	"fmt"
	"strings"
)

// MissingConfigurationError reports required environment variables that were
// not present when the document was about to be rendered. Keys keeps the
// declaration order, so Key() is always the first variable an operator needs
// to supply.
type MissingConfigurationError struct {
	Keys []string
}

// Error implements the error interface.
func (e *MissingConfigurationError) Error() string {
	switch len(e.Keys) {
	case 0:
		return "missing required configuration"
	case 1:
		return fmt.Sprintf("missing required environment variable %s", e.Keys[0])
	default:
		return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Keys, ", "))
	}
}

// Key returns the first missing variable, or "" if none was recorded.
func (e *MissingConfigurationError) Key() string {
	if len(e.Keys) == 0 {
		return ""
	}
	return e.Keys[0]
}

// WriteError reports a failure to create or write the output document.
// No directories are created, so a missing parent surfaces here as well.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error for errors.Is/errors.As.
func (e *WriteError) Unwrap() error {
	return e.Err
}
