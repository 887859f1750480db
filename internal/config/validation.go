package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	if c.Agent.Model == "" {
		errs = append(errs, "agent.model must not be empty")
	}
	if c.Agent.MaxTokens < 1 {
		errs = append(errs, "agent.max_tokens must be >= 1")
	}
	if c.Agent.MaxTurns < 1 {
		errs = append(errs, "agent.max_turns must be >= 1")
	}
	if c.Agent.CLIMaxTurns < 1 {
		errs = append(errs, "agent.cli_max_turns must be >= 1")
	}
	if c.Agent.ResumeMaxTurns < 1 {
		errs = append(errs, "agent.resume_max_turns must be >= 1")
	}

	if c.Tools.MaxSearchMatches < 1 {
		errs = append(errs, "tools.max_search_matches must be >= 1")
	}
	if c.Tools.MaxSearchFileSize < 1 {
		errs = append(errs, "tools.max_search_file_size must be >= 1")
	}
	if c.Tools.MaxPreviewChars < 1 {
		errs = append(errs, "tools.max_preview_chars must be >= 1")
	}
	if c.Tools.ShellTimeoutSeconds < 1 {
		errs = append(errs, "tools.shell_timeout_seconds must be >= 1")
	}
	if c.Tools.MaxStdoutChars < 1 {
		errs = append(errs, "tools.max_stdout_chars must be >= 1")
	}
	if c.Tools.MaxStderrChars < 1 {
		errs = append(errs, "tools.max_stderr_chars must be >= 1")
	}
	if c.Tools.MaxContextEntries < 0 {
		errs = append(errs, "tools.max_context_entries must be >= 0")
	}

	for _, root := range c.Workspace.AllowedRoots {
		if !filepath.IsAbs(root) {
			errs = append(errs, fmt.Sprintf("workspace.allowed_roots entry %q must be absolute", root))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// WorkspaceAllowed reports whether root may be used as a workspace root.
// An empty allow-list permits any path. Matching is component-wise: an
// allowed root of /srv/ws does not permit /srv/ws-evil.
func (c *Config) WorkspaceAllowed(root string) bool {
	if len(c.Workspace.AllowedRoots) == 0 {
		return true
	}
	cleaned := filepath.Clean(root)
	for _, allowed := range c.Workspace.AllowedRoots {
		allowedClean := filepath.Clean(allowed)
		if cleaned == allowedClean {
			return true
		}
		if strings.HasPrefix(cleaned, allowedClean+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
