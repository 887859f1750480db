// Package provider abstracts the language model behind a single generate
// call. The kernel owns no model client; the caller constructs one per
// process and injects it everywhere.
package provider

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by constructors when no model backend can be
// configured (e.g. missing API key). Callers pass a nil Provider to the
// kernel in that case; the kernel reports it as a terminal condition.
var ErrNoProvider = errors.New("no model provider configured")

// Provider generates text from a flat prompt. An empty string return with a
// nil error is a legitimate failure mode (the model produced nothing); the
// kernel treats it the same as an error.
type Provider interface {
	// Generate produces at most maxTokens of text for the prompt.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Model returns the active model name, for display.
	Model() string
}
