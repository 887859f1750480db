// Package builder turns a conversation about a web app into a structured
// project spec and then into generated HTML/CSS/JS. Every step degrades to
// a deterministic fallback when no model is available, so the pipeline
// always produces something usable.
package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/extract"
	"github.com/DJMcClellan1966/AI-Agent/internal/provider"
)

// Spec is the structured description of the app to generate.
type Spec struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Features     []string `json:"features"`
	Persistence  string   `json:"persistence"`
	Theme        string   `json:"theme"`
	UIComplexity string   `json:"ui_complexity"`
}

// Service implements the conversation-to-code pipeline.
// Provider may be nil; every method then uses its template fallback.
type Service struct {
	Provider provider.Provider
	Log      *slog.Logger
}

func New(p provider.Provider, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{Provider: p, Log: log}
}

// ConversationToSpec asks the model to distill the conversation into a Spec.
// Unparseable or missing model output falls back to keyword detection.
func (s *Service) ConversationToSpec(ctx context.Context, messages []chat.Message) Spec {
	if s.Provider == nil {
		return defaultSpec(messages)
	}

	prompt := fmt.Sprintf(`You are a product analyst. Based on this conversation about building a web app, extract a project spec.

Conversation:
%s

Reply with ONLY a JSON object (no markdown, no explanation) with exactly these keys:
- "name": short app name (e.g. "ReadingTracker")
- "type": one of "dashboard", "tracker", "notes", "todo", "library", "app"
- "features": list of feature keywords, e.g. ["tracking", "list management", "reminders", "search", "visualization", "theming", "export", "categorization", "streaks"]
- "persistence": "localStorage" or "session" or "none"
- "theme": "light" or "dark" or "system"
- "ui_complexity": "minimal" or "rich"

JSON:`, conversationText(messages))

	raw, err := s.Provider.Generate(ctx, prompt, 600)
	if err != nil || raw == "" {
		if err != nil {
			s.Log.Warn("spec generation failed, using defaults", "error", err)
		}
		return defaultSpec(messages)
	}

	jsonStr := extract.Object(strings.TrimSpace(raw))
	if jsonStr == "" {
		return defaultSpec(messages)
	}

	var spec Spec
	if err := json.Unmarshal([]byte(jsonStr), &spec); err != nil {
		s.Log.Warn("could not parse spec JSON, using defaults", "error", err)
		return defaultSpec(messages)
	}
	return fillSpecDefaults(spec)
}

// SuggestQuestions proposes short follow-up questions to clarify the app
// idea. At most max questions are returned.
func (s *Service) SuggestQuestions(ctx context.Context, messages []chat.Message, max int) []string {
	if len(messages) == 0 {
		return clip([]string{
			"What's the core problem this app solves for you?",
			"Who will use it, just you or others too?",
		}, max)
	}

	if s.Provider != nil {
		prompt := fmt.Sprintf(`You are a product analyst helping someone describe a web app idea. Based on this short conversation, suggest exactly %d short follow-up questions to clarify what they want. Questions should be practical (e.g. who will use it, persistence, must-have feature). Reply with ONLY a JSON array of strings, e.g. ["Question one?", "Question two?"]. No other text.

Conversation:
%s

JSON array of %d questions:`, max, conversationText(messages), max)

		raw, err := s.Provider.Generate(ctx, prompt, 200)
		if err == nil && raw != "" {
			if jsonStr := extract.Array(raw); jsonStr != "" {
				var arr []string
				if json.Unmarshal([]byte(jsonStr), &arr) == nil {
					var out []string
					for _, q := range arr {
						if q != "" {
							out = append(out, q)
						}
					}
					if len(out) > 0 {
						return clip(out, max)
					}
				}
			}
		}
	}

	allText := strings.ToLower(joinContents(messages))
	for _, tmpl := range questionTemplates {
		if len(tmpl.keywords) == 0 || containsAny(allText, tmpl.keywords) {
			return clip(tmpl.questions, max)
		}
	}
	return clip(questionTemplates[len(questionTemplates)-1].questions, max)
}

// Summary condenses the conversation for storage, capped at maxLen runes.
func Summary(messages []chat.Message, maxLen int) string {
	if len(messages) == 0 {
		return ""
	}
	var parts []string
	for _, m := range messages[:minInt(5, len(messages))] {
		parts = append(parts, truncate(m.Content, 200))
	}
	return truncate(strings.Join(parts, " | "), maxLen)
}

func conversationText(messages []chat.Message) string {
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

func joinContents(messages []chat.Message) string {
	var parts []string
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, " ")
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func clip(qs []string, max int) []string {
	if max > 0 && len(qs) > max {
		return qs[:max]
	}
	return qs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
