package tool

import (
	"context"
	"fmt"

	"github.com/DJMcClellan1966/AI-Agent/internal/builder"
	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/extract"
)

type messagesArgs struct {
	Messages []chat.Message `mapstructure:"messages"`
}

func (tb *Toolbox) suggestQuestions(ctx context.Context, args map[string]any) Result {
	var a messagesArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	qs := tb.Builder.SuggestQuestions(ctx, a.Messages, 2)
	return textResult(jsonText(map[string]any{"questions": qs}))
}

func (tb *Toolbox) generateApp(ctx context.Context, args map[string]any) Result {
	var a messagesArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	spec := tb.Builder.ConversationToSpec(ctx, a.Messages)
	files := tb.Builder.SpecToCode(ctx, spec)
	summary := builder.Summary(a.Messages, 500)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	return textResult(jsonText(map[string]any{
		"spec":    spec,
		"files":   names,
		"summary": summary,
		"message": fmt.Sprintf("Generated app '%s' with %d files.", spec.Name, len(files)),
	}))
}

type suggestFixArgs struct {
	Error string `mapstructure:"error"`
	Code  string `mapstructure:"code"`
}

// suggestFix asks the model for a corrected snippet given an error message
// and optional code context. The fix is whatever fenced code block the
// model returns.
func (tb *Toolbox) suggestFix(ctx context.Context, args map[string]any) Result {
	var a suggestFixArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	if a.Error == "" {
		return textResult(errorText("error is required."))
	}
	if tb.Provider == nil {
		return textResult(jsonText(map[string]string{
			"error":         "No model configured; cannot suggest a fix.",
			"suggested_fix": "",
		}))
	}

	prompt := fmt.Sprintf(`You are a debugging assistant. Given this error and code, reply with the corrected code in a single fenced code block. No explanation.

Error:
%s
`, a.Error)
	if a.Code != "" {
		prompt += fmt.Sprintf("\nCode:\n%s\n", a.Code)
	}

	raw, err := tb.Provider.Generate(ctx, prompt, 600)
	if err != nil {
		return textResult(jsonText(map[string]string{
			"error":         err.Error(),
			"suggested_fix": "",
		}))
	}
	fix := extract.CodeBlock(raw)
	return textResult(jsonText(map[string]string{
		"error_message": a.Error,
		"suggested_fix": fix,
	}))
}
