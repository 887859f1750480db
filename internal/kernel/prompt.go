package kernel

import (
	"strings"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool"
)

// promptSentinel identifies our own system prompt in a transcript, so a
// continued conversation does not get a second one.
const promptSentinel = "You are a helpful coding"

func hasSystemPrompt(messages []chat.Message) bool {
	return len(messages) > 0 &&
		messages[0].Role == chat.RoleSystem &&
		strings.Contains(messages[0].Content, promptSentinel)
}

// systemPrompt assembles the instruction prompt: tool list, optional
// guidance and workspace context, the JSON reply contract, and the
// approval note matching the current mode.
func (k *Kernel) systemPrompt(tools []tool.Spec, ec tool.ExecContext, messages []chat.Message) string {
	var descriptions []string
	for _, t := range tools {
		descriptions = append(descriptions, "- "+t.Name+": "+t.Description)
	}

	approvalNote := " For file edits or running commands, use edit_file or run_terminal; the user will approve before they run."
	if ec.Autonomous {
		approvalNote = " Autonomous mode: edit_file and run_terminal will run immediately without asking."
	}

	guidanceBlock := k.guidanceBlock(ec)
	workspaceBlock := k.workspaceContextBlock(ec, messages)

	return `You are a helpful coding and product assistant. You have access to these tools:

` + strings.Join(descriptions, "\n") + `
` + guidanceBlock + workspaceBlock + `

Reply with JSON only. Either:
1) To call a tool: {"thought": "brief reasoning", "tool": "tool_name", "args": {...}}
   Use "messages" for the current conversation when a tool needs it (list of {"role": "user"|"system", "content": "..."}).
2) To reply to the user and finish: {"thought": "brief reasoning", "reply": "your reply text"}

Be concise.` + approvalNote
}
