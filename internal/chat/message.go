// Package chat defines the conversation message type shared by the kernel,
// the tools, and the builder service.
package chat

// Roles used in the transcript. Role is free text on the wire; these three
// are the conventional values.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry in a conversation transcript. Transcripts are ordered
// and append-only within a single loop invocation; a message has no identity
// beyond its position.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastUserContent returns the content of the most recent non-empty user
// message, or "" if there is none.
func LastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser && messages[i].Content != "" {
			return messages[i].Content
		}
	}
	return ""
}
