package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent     AgentConfig     `json:"agent"`
	Tools     ToolsConfig     `json:"tools"`
	Workspace WorkspaceConfig `json:"workspace"`
}

type AgentConfig struct {
	// Model used for generation (Gemini model name).
	Model string `json:"model"` // Default: "gemini-2.0-flash"

	// MaxTokens per generation call.
	MaxTokens int `json:"max_tokens"` // Default: 600

	// Turn budgets for the agent loop.
	MaxTurns       int `json:"max_turns"`        // Default: 5 (API callers)
	CLIMaxTurns    int `json:"cli_max_turns"`    // Default: 8
	ResumeMaxTurns int `json:"resume_max_turns"` // Default: 3

	// GuidanceURL, when set, is fetched (<url>/guidance) and injected into
	// the system prompt as code-quality guidance. Best effort.
	GuidanceURL string `json:"guidance_url"` // Default: ""
}

type ToolsConfig struct {
	// Search
	MaxSearchMatches  int   `json:"max_search_matches"`   // Default: 100
	MaxSearchFileSize int64 `json:"max_search_file_size"` // Default: 500000

	// Edit previews
	MaxPreviewChars int `json:"max_preview_chars"` // Default: 4000

	// Command execution
	ShellTimeoutSeconds int `json:"shell_timeout_seconds"` // Default: 60
	MaxStdoutChars      int `json:"max_stdout_chars"`      // Default: 8000
	MaxStderrChars      int `json:"max_stderr_chars"`      // Default: 2000

	// Grace period between Interrupt and Kill when a command times out.
	GracefulShutdownMs int `json:"graceful_shutdown_ms"` // Default: 2000

	// Context injection
	MaxContextEntries    int `json:"max_context_entries"`     // Default: 40
	MaxContextSearches   int `json:"max_context_searches"`    // Default: 2
	MaxContextSearchHits int `json:"max_context_search_hits"` // Default: 5

	// External code-index integration
	CodeIndexCommand        string `json:"code_index_command"`          // Default: "codeiq"
	CodeIndexTimeoutSeconds int    `json:"code_index_timeout_seconds"`  // Default: 30
	MaxCodeIndexOutputChars int    `json:"max_code_index_output_chars"` // Default: 6000
}

type WorkspaceConfig struct {
	// AllowedRoots is an allow-list of path prefixes a workspace root may
	// live under. Empty means any workspace is allowed.
	AllowedRoots []string `json:"allowed_roots"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:          "gemini-2.0-flash",
			MaxTokens:      600,
			MaxTurns:       5,
			CLIMaxTurns:    8,
			ResumeMaxTurns: 3,
		},
		Tools: ToolsConfig{
			MaxSearchMatches:        100,
			MaxSearchFileSize:       500_000,
			MaxPreviewChars:         4000,
			ShellTimeoutSeconds:     60,
			MaxStdoutChars:          8000,
			MaxStderrChars:          2000,
			GracefulShutdownMs:      2000,
			MaxContextEntries:       40,
			MaxContextSearches:      2,
			MaxContextSearchHits:    5,
			CodeIndexCommand:        "codeiq",
			CodeIndexTimeoutSeconds: 30,
			MaxCodeIndexOutputChars: 6000,
		},
		Workspace: WorkspaceConfig{},
	}
}
