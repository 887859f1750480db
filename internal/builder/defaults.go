package builder

import (
	"strings"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
)

var typeHints = []struct {
	keywords []string
	appType  string
}{
	{[]string{"dashboard", "overview", "summary", "day at a glance"}, "dashboard"},
	{[]string{"tracker", "tracking", "log", "habit", "streak"}, "tracker"},
	{[]string{"note", "notes", "writing", "memo"}, "notes"},
	{[]string{"todo", "task", "checklist", "to-do"}, "todo"},
	{[]string{"reading", "book", "library"}, "library"},
}

var featureHints = []struct {
	keywords []string
	feature  string
}{
	{[]string{"track", "tracking", "monitor"}, "tracking"},
	{[]string{"list", "collection", "organize"}, "list management"},
	{[]string{"remind", "notification", "alert"}, "reminders"},
	{[]string{"search", "find", "filter"}, "search"},
	{[]string{"chart", "graph", "visual", "stats"}, "visualization"},
	{[]string{"dark", "theme", "light mode"}, "theming"},
	{[]string{"export", "download", "backup"}, "export"},
	{[]string{"tag", "category", "label"}, "categorization"},
	{[]string{"streak", "habit", "daily"}, "streaks"},
}

var questionTemplates = []struct {
	keywords  []string
	questions []string
}{
	{
		[]string{"dashboard", "tracker", "notes", "todo", "habit", "reading", "list"},
		[]string{
			"What's the core problem this solves for you?",
			"Who will use this, just you or others too?",
			"Should it remember things between sessions (persistent) or session-only?",
		},
	},
	{
		nil, // default
		[]string{
			"What's the one thing it must do well?",
			"Minimal and focused UI, or rich with more features?",
			"Light mode, dark mode, or follow system preference?",
		},
	},
}

// defaultSpec derives a Spec from conversation keywords when the model is
// unavailable or returned garbage.
func defaultSpec(messages []chat.Message) Spec {
	allText := strings.ToLower(joinContents(messages))

	name := "MyApp"
	if len(messages) > 0 {
		first := truncate(messages[0].Content, 80)
		var words []string
		for _, w := range strings.Fields(first) {
			if len(w) > 2 {
				words = append(words, w)
			}
			if len(words) == 2 {
				break
			}
		}
		if len(words) > 0 {
			var b strings.Builder
			for _, w := range words {
				b.WriteString(strings.ToUpper(w[:1]))
				b.WriteString(strings.ToLower(w[1:]))
			}
			name = b.String()
		}
	}

	appType := "app"
	for _, hint := range typeHints {
		if containsAny(allText, hint.keywords) {
			appType = hint.appType
			break
		}
	}

	var features []string
	for _, hint := range featureHints {
		if containsAny(allText, hint.keywords) {
			features = append(features, hint.feature)
		}
	}
	if len(features) == 0 {
		features = []string{"list management", "tracking"}
	}

	theme := "dark"
	switch {
	case strings.Contains(allText, "light mode") || strings.Contains(allText, "light theme"):
		theme = "light"
	case strings.Contains(allText, "system") || strings.Contains(allText, "preference"):
		theme = "system"
	}

	return Spec{
		Name:         name,
		Type:         appType,
		Features:     features,
		Persistence:  "localStorage",
		Theme:        theme,
		UIComplexity: "minimal",
	}
}

// fillSpecDefaults replaces zero-value fields on a model-produced Spec.
func fillSpecDefaults(spec Spec) Spec {
	if spec.Name == "" {
		spec.Name = "MyApp"
	}
	if spec.Type == "" {
		spec.Type = "app"
	}
	if spec.Persistence == "" {
		spec.Persistence = "localStorage"
	}
	if spec.Theme == "" {
		spec.Theme = "dark"
	}
	if spec.UIComplexity == "" {
		spec.UIComplexity = "minimal"
	}
	return spec
}
