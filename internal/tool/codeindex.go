package tool

import (
	"context"
	"os"
	"os/exec"
	"time"
)

// codeIndexTools exposes an external code-index CLI (search and analysis)
// when one is configured. The tools disappear from the set entirely when
// disabled or when the index workspace does not exist, so the model never
// sees them.
func (tb *Toolbox) codeIndexTools(ec ExecContext) []Spec {
	if ec.CodeIndexDisabled {
		return nil
	}
	workspace := ec.CodeIndexWorkspace
	if workspace == "" {
		workspace = os.Getenv("CODEINDEX_WORKSPACE")
	}
	if workspace == "" {
		return nil
	}
	if info, err := os.Stat(workspace); err != nil || !info.IsDir() {
		return nil
	}

	return []Spec{
		{
			Name:        "search_code",
			Description: "Semantic search over the indexed codebase. Input: query (string).",
			Run: func(ctx context.Context, args map[string]any) Result {
				var a struct {
					Query string `mapstructure:"query"`
				}
				if err := decodeArgs(args, &a); err != nil {
					return textResult(errorText(err.Error()))
				}
				if a.Query == "" {
					return textResult(errorText("query required"))
				}
				out := tb.runCodeIndex(ctx, workspace, "search", a.Query)
				return textResult(jsonText(map[string]string{"query": a.Query, "output": out}))
			},
		},
		{
			Name:        "analyze_code",
			Description: "Run code analysis (issues, duplicates, complexity) on the indexed workspace. Input: path (optional).",
			Run: func(ctx context.Context, args map[string]any) Result {
				var a pathArgs
				if err := decodeArgs(args, &a); err != nil {
					return textResult(errorText(err.Error()))
				}
				if a.Path == "" {
					a.Path = "."
				}
				out := tb.runCodeIndex(ctx, workspace, "analyze")
				return textResult(jsonText(map[string]string{"path": a.Path, "output": out}))
			},
		},
	}
}

// runCodeIndex invokes the index CLI directly (argv, no shell) with its own
// timeout and output cap.
func (tb *Toolbox) runCodeIndex(ctx context.Context, workspace, subcmd string, args ...string) string {
	timeout := time.Duration(tb.Config.Tools.CodeIndexTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := append([]string{subcmd}, args...)
	cmd := exec.CommandContext(ctx, tb.Config.Tools.CodeIndexCommand, argv...)
	cmd.Dir = workspace
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return "Code index error: " + err.Error()
	}
	if len(out) == 0 {
		return "No output."
	}
	return truncateText(string(out), tb.Config.Tools.MaxCodeIndexOutputChars)
}
