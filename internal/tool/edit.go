package tool

import (
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/DJMcClellan1966/AI-Agent/internal/tool/pathutil"
)

type editFileArgs struct {
	Path      string `mapstructure:"path"`
	OldString string `mapstructure:"old_string"`
	NewString string `mapstructure:"new_string"`
}

func (a editFileArgs) asMap() map[string]any {
	return map[string]any{
		"path":       a.Path,
		"old_string": a.OldString,
		"new_string": a.NewString,
	}
}

// editFilePreview computes the would-be diff and suspends for approval.
// Nothing is written here. Problems (missing workspace, stale old_string)
// come back as a PendingApproval flagged Err so the caller shows the
// message instead of prompting.
//
// In autonomous mode nothing suspends: a clean preview is applied
// immediately and a precondition failure becomes an error result, so the
// loop keeps running and the model can retry with fresh file contents.
func (tb *Toolbox) editFilePreview(ec ExecContext, args map[string]any) Result {
	fail := func(failArgs map[string]any, msg string) Result {
		if ec.Autonomous {
			return textResult(errorText(msg))
		}
		return pendingResult(&PendingApproval{Tool: "edit_file", Args: failArgs, Preview: msg, Err: true})
	}

	var a editFileArgs
	if err := decodeArgs(args, &a); err != nil {
		return fail(args, err.Error())
	}

	if ec.WorkspaceRoot == "" {
		return fail(a.asMap(), "Workspace not configured.")
	}
	full, err := pathutil.Resolve(ec.WorkspaceRoot, a.Path)
	if err != nil {
		return fail(a.asMap(), pathOutsideWorkspace)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return fail(a.asMap(), "Cannot read file: "+err.Error())
	}
	current := string(data)
	if !strings.Contains(current, a.OldString) {
		return fail(a.asMap(), "old_string not found in file (file may have changed).")
	}

	updated := strings.Replace(current, a.OldString, a.NewString, 1)
	preview := tb.unifiedDiff(a.Path, current, updated)

	if ec.Autonomous {
		return textResult(tb.executeEditFile(ec, a))
	}
	return pendingResult(&PendingApproval{Tool: "edit_file", Args: a.asMap(), Preview: preview})
}

// executeEditFile performs the approved edit: replace the first occurrence
// of old_string and rewrite the file.
func (tb *Toolbox) executeEditFile(ec ExecContext, a editFileArgs) string {
	full, err := pathutil.Resolve(ec.WorkspaceRoot, a.Path)
	if err != nil {
		return errorText("Path outside workspace or workspace not set.")
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return errorText(err.Error())
	}
	content := string(data)
	if !strings.Contains(content, a.OldString) {
		return errorText("old_string not found in file.")
	}
	updated := strings.Replace(content, a.OldString, a.NewString, 1)
	if err := os.WriteFile(full, []byte(updated), 0o644); err != nil {
		return errorText(err.Error())
	}
	return jsonText(map[string]string{"path": a.Path, "status": "updated"})
}

// unifiedDiff renders a unified diff capped at the configured preview size.
func (tb *Toolbox) unifiedDiff(path, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return "Could not compute diff: " + err.Error()
	}
	max := tb.Config.Tools.MaxPreviewChars
	if len(diff) > max {
		return truncateText(diff, max) + "..."
	}
	return diff
}
