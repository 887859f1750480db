package tool

import (
	"context"
	"log/slog"

	"github.com/DJMcClellan1966/AI-Agent/internal/builder"
	"github.com/DJMcClellan1966/AI-Agent/internal/config"
	"github.com/DJMcClellan1966/AI-Agent/internal/provider"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool/executor"
)

// Toolbox builds tool sets and executes approved side effects. One Toolbox
// serves all conversations; per-conversation state travels in ExecContext.
type Toolbox struct {
	Provider provider.Provider
	Builder  *builder.Service
	Config   *config.Config
	Exec     *executor.ShellExecutor
	Log      *slog.Logger
}

func NewToolbox(p provider.Provider, cfg *config.Config, log *slog.Logger) *Toolbox {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Toolbox{
		Provider: p,
		Builder:  builder.New(p, log),
		Config:   cfg,
		Exec:     executor.NewShellExecutor(cfg),
		Log:      log,
	}
}

// Build returns the tools available for a conversation. Code-index tools
// appear only when an index workspace is configured and enabled.
func (tb *Toolbox) Build(ec ExecContext) []Spec {
	specs := []Spec{
		{
			Name:        "suggest_questions",
			Description: "Suggest 1-2 short follow-up questions to clarify the user's app or task. Input: messages (list of {role, content}).",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.suggestQuestions(ctx, args)
			},
		},
		{
			Name:        "generate_app",
			Description: "Generate a web app (HTML/CSS/JS) from the conversation so far. Input: messages (list of {role, content}). Use when the user is done describing and wants the app.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.generateApp(ctx, args)
			},
		},
		{
			Name:        "suggest_fix",
			Description: "Suggest a code fix for an error message. Input: error (required), code (optional snippet for context). Returns suggested_fix.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.suggestFix(ctx, args)
			},
		},
		{
			Name:        "read_file",
			Description: "Read a file from the workspace. Input: path (relative path). Requires a workspace.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.readFile(ec, args)
			},
		},
		{
			Name:        "list_dir",
			Description: "List directory contents in the workspace. Input: path (relative path, default '.'). Requires a workspace.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.listDir(ec, args)
			},
		},
		{
			Name:        "search_files",
			Description: "Search for a literal string in workspace files (e.g. 'TODO', 'def foo'). Input: pattern or query (required), path (optional, default '.'). Returns matching path, line number, and line content. Requires a workspace.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.searchFiles(ec, args)
			},
		},
		{
			Name:        "edit_file",
			Description: "Edit a file: replace old_string with new_string (first occurrence). Requires user approval. Input: path, old_string, new_string. Requires a workspace.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.editFilePreview(ec, args)
			},
		},
		{
			Name:        "run_terminal",
			Description: "Run a shell command in the workspace. Requires user approval. Input: command (str), cwd (optional, relative path). Requires a workspace.",
			Run: func(ctx context.Context, args map[string]any) Result {
				return tb.runTerminalPreview(ctx, ec, args)
			},
		},
	}
	specs = append(specs, tb.codeIndexTools(ec)...)
	return specs
}

// ExecuteApproved runs an approved side-effecting tool and returns the
// transcript result string.
func (tb *Toolbox) ExecuteApproved(ctx context.Context, ec ExecContext, tool string, args map[string]any) string {
	switch tool {
	case "edit_file":
		var a editFileArgs
		if err := decodeArgs(args, &a); err != nil {
			return errorText("invalid edit_file args: " + err.Error())
		}
		return tb.executeEditFile(ec, a)
	case "run_terminal":
		var a runTerminalArgs
		if err := decodeArgs(args, &a); err != nil {
			return errorText("invalid run_terminal args: " + err.Error())
		}
		return tb.executeRunTerminal(ctx, ec, a)
	default:
		return errorText("Unknown tool: " + tool)
	}
}
