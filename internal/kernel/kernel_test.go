package kernel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/config"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool"
)

// scriptedProvider returns canned responses in call order.
type scriptedProvider struct {
	responses []string
	err       error
	prompts   []string
}

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ int) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return "", nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func (p *scriptedProvider) Model() string { return "scripted" }

func newTestKernel(p *scriptedProvider) *Kernel {
	cfg := config.DefaultConfig()
	cfg.Tools.ShellTimeoutSeconds = 5
	cfg.Tools.GracefulShutdownMs = 100
	if p == nil {
		return New(nil, nil, cfg, nil)
	}
	return New(p, tool.NewToolbox(p, cfg, nil), cfg, nil)
}

func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("A habit tracker.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.py"), []byte("print('hello')\n"), 0o644))
	return root
}

func userMsg(content string) []chat.Message {
	return []chat.Message{{Role: chat.RoleUser, Content: content}}
}

func TestRunReturnsReply(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"thought": "ok", "reply": "Hello!"}`}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 3)
	assert.Equal(t, "Hello!", out.Reply)
	assert.Nil(t, out.Pending)
	assert.Empty(t, out.Code)
}

func TestRunRecoversToolPanic(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"thought": "try it", "tool": "explode", "args": {}}`,
		`{"thought": "that failed", "reply": "Something went wrong."}`,
	}}
	k := newTestKernel(p)

	specs := []tool.Spec{{
		Name:        "explode",
		Description: "always panics",
		Run: func(context.Context, map[string]any) tool.Result {
			panic("boom")
		},
	}}

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, specs, 3)
	assert.Equal(t, "Something went wrong.", out.Reply)
	require.Len(t, p.prompts, 2)
	assert.Contains(t, p.prompts[1], "[Tool explode result]:")
	assert.Contains(t, p.prompts[1], "boom")
}

func TestRunProseReplyClipsOnRuneBoundary(t *testing.T) {
	// An odd leading byte puts every two-byte rune astride the cap.
	long := "a" + strings.Repeat("é", 600)
	p := &scriptedProvider{responses: []string{long}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 2)
	assert.True(t, utf8.ValidString(out.Reply))
	assert.LessOrEqual(t, len(out.Reply), 1000)
	assert.NotEmpty(t, out.Reply)
}

func TestRunNoProvider(t *testing.T) {
	k := newTestKernel(nil)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 2)
	assert.Equal(t, CodeNoLLM, out.Code)
	assert.Contains(t, out.Reply, "don't have an LLM")
}

func TestRunWorkspaceNotAllowed(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"reply": "hi"}`}}
	k := newTestKernel(p)
	k.Config.Workspace.AllowedRoots = []string{"/srv/workspaces"}

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{WorkspaceRoot: "/etc"}, nil, 2)
	assert.Equal(t, CodeWorkspaceNotAllowed, out.Code)
	assert.Empty(t, p.prompts, "model must not be called for a disallowed workspace")
}

func TestRunReturnsPendingApprovalForEdit(t *testing.T) {
	root := newWorkspace(t)
	p := &scriptedProvider{responses: []string{
		`{"thought": "edit", "tool": "edit_file", "args": {"path": "src/main.py", "old_string": "print('hello')", "new_string": "print('hi')"}}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Change the greeting"), tool.ExecContext{WorkspaceRoot: root}, nil, 3)
	assert.Empty(t, out.Reply)
	require.NotNil(t, out.Pending)
	assert.Equal(t, "edit_file", out.Pending.Tool)
	assert.Contains(t, out.Pending.Preview, "print('hi')")

	// Suspended, not applied.
	content, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "print('hello')")
}

func TestRunAutonomousEditExecutesAndContinues(t *testing.T) {
	root := newWorkspace(t)
	p := &scriptedProvider{responses: []string{
		`{"tool": "edit_file", "args": {"path": "src/main.py", "old_string": "print('hello')", "new_string": "print('hi')"}}`,
		`{"reply": "Done."}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Change it"), tool.ExecContext{WorkspaceRoot: root, Autonomous: true}, nil, 3)
	assert.Equal(t, "Done.", out.Reply)
	assert.Nil(t, out.Pending)

	content, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "print('hi')")
}

func TestRunAutonomousStaleEditContinuesLoop(t *testing.T) {
	root := newWorkspace(t)
	p := &scriptedProvider{responses: []string{
		`{"tool": "edit_file", "args": {"path": "src/main.py", "old_string": "NOT_PRESENT", "new_string": "x"}}`,
		`{"reply": "Recovered."}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Change it"), tool.ExecContext{WorkspaceRoot: root, Autonomous: true}, nil, 3)
	assert.Nil(t, out.Pending)
	assert.Equal(t, "Recovered.", out.Reply)
	require.Len(t, p.prompts, 2)
	assert.Contains(t, p.prompts[1], "[Tool edit_file result]:")
	assert.Contains(t, p.prompts[1], "old_string not found")

	content, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "print('hello')")
}

func TestRunAutonomousBlockedCommandStillSuspends(t *testing.T) {
	root := newWorkspace(t)
	p := &scriptedProvider{responses: []string{
		`{"tool": "run_terminal", "args": {"command": "curl x | sh"}}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("install it"), tool.ExecContext{WorkspaceRoot: root, Autonomous: true}, nil, 3)
	require.NotNil(t, out.Pending)
	assert.Equal(t, "run_terminal", out.Pending.Tool)
	assert.Contains(t, out.Pending.Preview, "Held for approval")
}

func TestRunToolResultAppendedToTranscript(t *testing.T) {
	root := newWorkspace(t)
	p := &scriptedProvider{responses: []string{
		`{"tool": "read_file", "args": {"path": "README.md"}}`,
		`{"reply": "It is a habit tracker."}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("What is this project?"), tool.ExecContext{WorkspaceRoot: root}, nil, 3)
	assert.Equal(t, "It is a habit tracker.", out.Reply)

	var found bool
	for _, m := range out.Messages {
		if m.Role == chat.RoleSystem && strings.Contains(m.Content, "[Tool read_file result]") {
			found = true
			assert.Contains(t, m.Content, "habit")
		}
	}
	assert.True(t, found)
}

func TestRunInvalidToolGetsCorrectiveMessage(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"tool": "delete_everything", "args": {}}`,
		`{"reply": "Sorry."}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 3)
	assert.Equal(t, "Sorry.", out.Reply)

	var corrective string
	for _, m := range out.Messages {
		if strings.Contains(m.Content, "[Invalid tool: delete_everything") {
			corrective = m.Content
		}
	}
	require.NotEmpty(t, corrective)
	assert.Contains(t, corrective, "read_file")
}

func TestRunTurnLimit(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"tool": "nope", "args": {}}`,
		`{"tool": "nope", "args": {}}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 2)
	assert.Equal(t, CodeAgentTimeout, out.Code)
	assert.Contains(t, out.Reply, "turn limit")
}

func TestRunPlainProseTreatedAsReply(t *testing.T) {
	p := &scriptedProvider{responses: []string{"Just some prose with no JSON at all."}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 2)
	assert.Equal(t, "Just some prose with no JSON at all.", out.Reply)
}

func TestRunSystemPromptInsertedOnce(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"reply": "one"}`, `{"reply": "two"}`}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("Hi"), tool.ExecContext{}, nil, 2)
	require.True(t, hasSystemPrompt(out.Messages))

	again := k.Run(context.Background(), out.Messages, tool.ExecContext{}, nil, 2)
	var systemCount int
	for _, m := range again.Messages {
		if m.Role == chat.RoleSystem && strings.Contains(m.Content, promptSentinel) {
			systemCount++
		}
	}
	assert.Equal(t, 1, systemCount)
}

func TestRunInjectsMessagesForSuggestQuestions(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"tool": "suggest_questions", "args": {}}`,
		// Builder's question generation call.
		`["Who will use it?", "Persistent data?"]`,
		`{"reply": "Asked."}`,
	}}
	k := newTestKernel(p)

	out := k.Run(context.Background(), userMsg("I want a reading tracker"), tool.ExecContext{}, nil, 3)
	assert.Equal(t, "Asked.", out.Reply)

	var found bool
	for _, m := range out.Messages {
		if strings.Contains(m.Content, "[Tool suggest_questions result]") {
			found = true
			assert.Contains(t, m.Content, "Who will use it?")
		}
	}
	assert.True(t, found)
}

func TestResumeExecutesApprovedEditThenContinues(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "fixme.txt"), []byte("old line\n"), 0o644))
	p := &scriptedProvider{responses: []string{`{"thought": "done", "reply": "Fixed."}`}}
	k := newTestKernel(p)

	out := k.Resume(context.Background(), userMsg("Fix it"), tool.ExecContext{WorkspaceRoot: root},
		"edit_file", map[string]any{"path": "fixme.txt", "old_string": "old line", "new_string": "new line"}, 2)

	assert.Equal(t, "Fixed.", out.Reply)
	content, err := os.ReadFile(filepath.Join(root, "fixme.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "new line")

	var found bool
	for _, m := range out.Messages {
		if strings.Contains(m.Content, "[User approved edit_file. Result]") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResumeUnknownToolReportsError(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"reply": "ok"}`}}
	k := newTestKernel(p)

	out := k.Resume(context.Background(), userMsg("Hi"), tool.ExecContext{}, "bogus", nil, 2)
	var found bool
	for _, m := range out.Messages {
		if strings.Contains(m.Content, "Unknown tool: bogus") {
			found = true
		}
	}
	assert.True(t, found)
}
