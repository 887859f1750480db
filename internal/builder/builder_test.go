package builder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
)

// scriptedProvider returns canned responses in order.
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

func userMessages(contents ...string) []chat.Message {
	var out []chat.Message
	for _, c := range contents {
		out = append(out, chat.Message{Role: chat.RoleUser, Content: c})
	}
	return out
}

func TestConversationToSpecParsesModelOutput(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"```json\n{\"name\": \"ReadingTracker\", \"type\": \"tracker\", \"features\": [\"tracking\"], \"persistence\": \"localStorage\", \"theme\": \"dark\", \"ui_complexity\": \"minimal\"}\n```",
	}}
	s := New(p, nil)

	spec := s.ConversationToSpec(context.Background(), userMessages("I want to track my reading"))
	assert.Equal(t, "ReadingTracker", spec.Name)
	assert.Equal(t, "tracker", spec.Type)
	assert.Equal(t, []string{"tracking"}, spec.Features)
}

func TestConversationToSpecFallsBackOnError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("boom")}
	s := New(p, nil)

	spec := s.ConversationToSpec(context.Background(), userMessages("an app to track my daily habits"))
	assert.Equal(t, "tracker", spec.Type)
	assert.Contains(t, spec.Features, "tracking")
}

func TestConversationToSpecFallsBackOnGarbage(t *testing.T) {
	p := &scriptedProvider{responses: []string{"not json at all"}}
	s := New(p, nil)

	spec := s.ConversationToSpec(context.Background(), userMessages("notes app for quick memos"))
	assert.Equal(t, "notes", spec.Type)
}

func TestDefaultSpecNameFromFirstMessage(t *testing.T) {
	spec := defaultSpec(userMessages("reading tracker please"))
	assert.Equal(t, "ReadingTracker", spec.Name)
}

func TestDefaultSpecThemeDetection(t *testing.T) {
	spec := defaultSpec(userMessages("todo list with light mode"))
	assert.Equal(t, "light", spec.Theme)

	spec = defaultSpec(userMessages("todo list, follow system preference"))
	assert.Equal(t, "system", spec.Theme)
}

func TestSpecToCodeParsesMarkedBlocks(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"===INDEX.HTML===\n<!DOCTYPE html><html></html>\n===STYLES.CSS===\nbody { color: red; }\n===APP.JS===\nconsole.log('hi');\n===END===",
	}}
	s := New(p, nil)

	files := s.SpecToCode(context.Background(), Spec{Name: "Demo"})
	require.Len(t, files, 3)
	assert.Equal(t, "<!DOCTYPE html><html></html>", files["index.html"])
	assert.Equal(t, "body { color: red; }", files["styles.css"])
	assert.Equal(t, "console.log('hi');", files["app.js"])
}

func TestSpecToCodeTemplateFallback(t *testing.T) {
	s := New(nil, nil)

	files := s.SpecToCode(context.Background(), Spec{
		Name:     "HabitLog",
		Type:     "tracker",
		Features: []string{"tracking", "visualization"},
	})
	require.Len(t, files, 3)
	assert.Contains(t, files["index.html"], "<title>HabitLog</title>")
	assert.Contains(t, files["index.html"], "totalCount")
	assert.Contains(t, files["app.js"], "habitlog_data")
	assert.Contains(t, files["styles.css"], "--accent")
}

func TestSpecToCodeTemplateOmitsStatsWithoutVisualization(t *testing.T) {
	s := New(nil, nil)

	files := s.SpecToCode(context.Background(), Spec{Name: "Plain", Features: []string{"search"}})
	assert.NotContains(t, files["index.html"], "totalCount")
}

func TestSuggestQuestionsFromModel(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`["Who is it for?", "Persistent or session-only?", "Extra question?"]`,
	}}
	s := New(p, nil)

	qs := s.SuggestQuestions(context.Background(), userMessages("a notes app"), 2)
	assert.Equal(t, []string{"Who is it for?", "Persistent or session-only?"}, qs)
}

func TestSuggestQuestionsTemplateFallback(t *testing.T) {
	s := New(nil, nil)

	qs := s.SuggestQuestions(context.Background(), userMessages("a habit tracker"), 2)
	require.Len(t, qs, 2)
	assert.Contains(t, qs[0], "core problem")
}

func TestSuggestQuestionsEmptyConversation(t *testing.T) {
	s := New(nil, nil)

	qs := s.SuggestQuestions(context.Background(), nil, 2)
	require.Len(t, qs, 2)
}

func TestSummary(t *testing.T) {
	assert.Empty(t, Summary(nil, 500))

	long := strings.Repeat("x", 300)
	got := Summary(userMessages(long, "short"), 500)
	assert.Contains(t, got, " | short")
	assert.LessOrEqual(t, len(got), 500)
}
