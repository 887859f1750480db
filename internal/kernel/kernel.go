// Package kernel runs the agent loop: the model reads the conversation,
// calls tools or replies, and side-effecting tool calls suspend the loop
// until a human approves them.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/config"
	"github.com/DJMcClellan1966/AI-Agent/internal/extract"
	"github.com/DJMcClellan1966/AI-Agent/internal/provider"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool"
)

// Error codes attached to Outcome for callers that branch on failure mode.
const (
	CodeNoLLM               = "no_llm_configured"
	CodeWorkspaceNotAllowed = "workspace_not_allowed"
	CodeAgentTimeout        = "agent_timeout"
)

// Outcome is the result of a loop run. Exactly one of Reply and Pending is
// meaningful: Pending set means the loop is suspended awaiting approval.
type Outcome struct {
	Messages []chat.Message
	Reply    string
	Pending  *tool.PendingApproval
	Code     string
}

// instruction is the JSON shape the model must reply with.
type instruction struct {
	Thought string         `json:"thought"`
	Tool    string         `json:"tool"`
	Args    map[string]any `json:"args"`
	Reply   string         `json:"reply"`
}

type Kernel struct {
	Provider provider.Provider
	Toolbox  *tool.Toolbox
	Config   *config.Config
	Log      *slog.Logger
}

func New(p provider.Provider, tb *tool.Toolbox, cfg *config.Config, log *slog.Logger) *Kernel {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	if tb == nil {
		tb = tool.NewToolbox(p, cfg, log)
	}
	return &Kernel{Provider: p, Toolbox: tb, Config: cfg, Log: log}
}

// Run drives the loop for up to maxTurns model calls. tools may be nil to
// use the default set for ec. The input slice is never mutated; the
// returned Messages include the system prompt and any tool transcript
// entries.
func (k *Kernel) Run(ctx context.Context, messages []chat.Message, ec tool.ExecContext, tools []tool.Spec, maxTurns int) Outcome {
	if maxTurns <= 0 {
		maxTurns = k.Config.Agent.MaxTurns
	}
	if tools == nil {
		tools = k.Toolbox.Build(ec)
	}
	toolMap := make(map[string]tool.Spec, len(tools))
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		toolMap[t.Name] = t
		names = append(names, t.Name)
	}

	current := append([]chat.Message(nil), messages...)

	if ec.WorkspaceRoot != "" && !k.Config.WorkspaceAllowed(ec.WorkspaceRoot) {
		return Outcome{
			Messages: current,
			Reply:    "That workspace is not in the allowed roots. Update the workspace.allowed_roots config to use it.",
			Code:     CodeWorkspaceNotAllowed,
		}
	}

	if !hasSystemPrompt(current) {
		system := k.systemPrompt(tools, ec, current)
		current = append([]chat.Message{{Role: chat.RoleSystem, Content: system}}, current...)
	}

	if k.Provider == nil {
		return Outcome{
			Messages: current,
			Reply:    "I don't have an LLM configured. Set GEMINI_API_KEY.",
			Code:     CodeNoLLM,
		}
	}

	for turn := 0; turn < maxTurns; turn++ {
		prompt := "Current conversation:\n\n" + transcript(current) + "\n\nYour next step (JSON only):"

		raw, err := k.Provider.Generate(ctx, prompt, k.Config.Agent.MaxTokens)
		if err != nil || raw == "" {
			if err != nil {
				k.Log.Error("generation failed", "error", err)
			}
			return Outcome{
				Messages: current,
				Reply:    "I couldn't generate a response. Check your LLM configuration.",
			}
		}

		jsonStr := extract.Object(strings.TrimSpace(raw))
		if jsonStr == "" {
			// Prose with no tool-call vocabulary is most likely a direct answer.
			lower := strings.ToLower(raw)
			if !strings.Contains(lower, "reply") && !strings.Contains(lower, "tool") {
				return Outcome{Messages: current, Reply: clip(raw, 1000)}
			}
			return Outcome{Messages: current, Reply: "I didn't understand the response format."}
		}

		var inst instruction
		if err := json.Unmarshal([]byte(jsonStr), &inst); err != nil {
			return Outcome{Messages: current, Reply: "I couldn't parse my own response. Please try again."}
		}

		if inst.Reply != "" {
			return Outcome{Messages: current, Reply: strings.TrimSpace(inst.Reply)}
		}

		spec, ok := toolMap[inst.Tool]
		if inst.Tool == "" || !ok {
			current = append(current, chat.Message{
				Role:    chat.RoleSystem,
				Content: "[Invalid tool: " + inst.Tool + ". Valid: " + strings.Join(names, ", ") + "]",
			})
			continue
		}

		args := inst.Args
		if args == nil {
			args = map[string]any{}
		}
		if needsMessages(inst.Tool) {
			if _, ok := args["messages"]; !ok {
				args["messages"] = messagesArg(current)
			}
		}

		k.Log.Debug("tool call", "tool", inst.Tool, "thought", inst.Thought)
		result := k.runTool(ctx, spec, args)

		if result.Pending != nil {
			return Outcome{Messages: current, Pending: result.Pending}
		}

		current = append(current, chat.Message{
			Role:    chat.RoleSystem,
			Content: "[Tool " + inst.Tool + " result]: " + result.Text,
		})
	}

	return Outcome{
		Messages: current,
		Reply:    "I hit the turn limit. Please try a shorter conversation or rephrase.",
		Code:     CodeAgentTimeout,
	}
}

// Resume executes an approved side-effecting tool, appends the result to
// the transcript, and continues the loop.
func (k *Kernel) Resume(ctx context.Context, messages []chat.Message, ec tool.ExecContext, approvedTool string, approvedArgs map[string]any, maxTurnsAfter int) Outcome {
	if maxTurnsAfter <= 0 {
		maxTurnsAfter = k.Config.Agent.ResumeMaxTurns
	}

	resultStr := k.Toolbox.ExecuteApproved(ctx, ec, approvedTool, approvedArgs)

	current := append([]chat.Message(nil), messages...)
	current = append(current, chat.Message{
		Role:    chat.RoleSystem,
		Content: "[User approved " + approvedTool + ". Result]: " + resultStr,
	})

	return k.Run(ctx, current, ec, nil, maxTurnsAfter)
}

// runTool shields the loop from a misbehaving handler. A panic becomes an
// error payload the model can react to instead of killing the caller.
func (k *Kernel) runTool(ctx context.Context, spec tool.Spec, args map[string]any) (result tool.Result) {
	defer func() {
		if r := recover(); r != nil {
			k.Log.Warn("tool panicked", "tool", spec.Name, "panic", r)
			result = tool.Result{Text: fmt.Sprintf(`{"error": "tool %s failed: %v"}`, spec.Name, r)}
		}
	}()
	return spec.Run(ctx, args)
}

func needsMessages(toolName string) bool {
	return toolName == "suggest_questions" || toolName == "generate_app"
}

// messagesArg converts the transcript into the loosely-typed form tool args
// carry.
func messagesArg(messages []chat.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		out = append(out, map[string]any{"role": m.Role, "content": m.Content})
	}
	return out
}

func transcript(messages []chat.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// clip caps s at n bytes, backing up so a multibyte rune is never split.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
