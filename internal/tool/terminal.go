package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/DJMcClellan1966/AI-Agent/internal/tool/executor"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool/pathutil"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool/safety"
)

type runTerminalArgs struct {
	Command string `mapstructure:"command"`
	Cwd     string `mapstructure:"cwd"`
}

func (a runTerminalArgs) asMap() map[string]any {
	return map[string]any{
		"command": a.Command,
		"cwd":     a.Cwd,
	}
}

// runTerminalPreview suspends the command for approval. In autonomous mode
// it executes immediately, but only when the safety filter passes; a
// flagged command falls back to the approval flow with the reason in the
// preview.
func (tb *Toolbox) runTerminalPreview(ctx context.Context, ec ExecContext, args map[string]any) Result {
	var a runTerminalArgs
	if err := decodeArgs(args, &a); err != nil {
		if ec.Autonomous {
			return textResult(errorText(err.Error()))
		}
		return pendingResult(&PendingApproval{Tool: "run_terminal", Args: args, Preview: err.Error(), Err: true})
	}

	preview := "Command: " + a.Command
	if a.Cwd != "" {
		preview += "\nCwd: " + a.Cwd
	}

	if ec.Autonomous {
		if reason := safety.CheckCommand(a.Command); reason != "" {
			tb.Log.Warn("command held for approval", "command", a.Command, "reason", reason)
			preview += "\nHeld for approval: " + reason
		} else {
			return textResult(tb.executeRunTerminal(ctx, ec, a))
		}
	}
	return pendingResult(&PendingApproval{Tool: "run_terminal", Args: a.asMap(), Preview: preview})
}

// executeRunTerminal runs the approved command. The working directory is
// the resolved cwd when it is inside the workspace, otherwise the
// workspace root.
func (tb *Toolbox) executeRunTerminal(ctx context.Context, ec ExecContext, a runTerminalArgs) string {
	runCwd := ec.WorkspaceRoot
	if a.Cwd != "" {
		if resolved, err := pathutil.Resolve(ec.WorkspaceRoot, a.Cwd); err == nil {
			runCwd = resolved
		}
	}

	res, err := tb.Exec.Run(ctx, a.Command, runCwd)
	if err != nil {
		if errors.Is(err, executor.ErrTimeout) {
			return errorText(fmt.Sprintf("Command timed out after %ds.", tb.Config.Tools.ShellTimeoutSeconds))
		}
		return errorText(err.Error())
	}
	return jsonText(map[string]any{
		"stdout":     res.Stdout,
		"stderr":     res.Stderr,
		"returncode": res.ExitCode,
	})
}
