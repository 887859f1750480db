// Package tool defines the agent's tool surface: read-only workspace tools
// that run immediately, and side-effecting tools (edit_file, run_terminal)
// that return a PendingApproval for the caller to confirm before execution.
package tool

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
)

// ExecContext carries per-conversation settings into tool handlers.
type ExecContext struct {
	// WorkspaceRoot confines all filesystem tools. Empty means the
	// workspace tools report an error instead of touching anything.
	WorkspaceRoot string

	// Autonomous makes edit_file execute immediately and run_terminal
	// execute when the command passes the safety filter.
	Autonomous bool

	// NoSearchContext disables the keyword search in the injected
	// workspace context block.
	NoSearchContext bool

	// Code-index integration. Disabled entirely, or pointed at a
	// workspace other than the env default.
	CodeIndexDisabled  bool
	CodeIndexWorkspace string

	// Guidance endpoint override; empty falls back to config.
	GuidanceDisabled bool
	GuidanceURL      string
}

// PendingApproval is a side-effecting tool call suspended for confirmation.
// Err marks previews that describe a problem (missing file, stale
// old_string); the caller should surface them but there is nothing to
// approve.
type PendingApproval struct {
	Tool    string         `json:"tool"`
	Args    map[string]any `json:"args"`
	Preview string         `json:"preview"`
	Err     bool           `json:"error,omitempty"`
}

// Result is what a tool handler produces: either immediate text for the
// transcript, or a pending approval.
type Result struct {
	Text    string
	Pending *PendingApproval
}

// Spec describes one tool: its name and description go into the system
// prompt, Run handles a call.
type Spec struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args map[string]any) Result
}

func textResult(s string) Result {
	return Result{Text: s}
}

func pendingResult(p *PendingApproval) Result {
	return Result{Pending: p}
}

// jsonText marshals v for the transcript. Tool payloads are flat maps of
// strings and numbers, so marshaling cannot realistically fail; a failure
// still produces a well-formed error object.
func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error": "internal: could not encode tool result"}`
	}
	return string(data)
}

func errorText(msg string) string {
	return jsonText(map[string]string{"error": msg})
}

// truncateText caps s at max bytes without splitting a multibyte rune.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// decodeArgs maps loosely-typed model-provided args onto a typed struct.
// Weak typing tolerates the model sending numbers as strings and so on.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}
