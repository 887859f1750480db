// Package extract pulls structured fragments out of free-form model output.
// Models are not guaranteed to emit pure JSON, so these are tolerant
// single-pass scanners, not parsers: they find the first balanced span and
// leave validation to encoding/json.
package extract

import "strings"

// Object returns the first balanced {...} span in raw, tolerant of markdown
// fences and surrounding prose. Falls back to first-{ .. last-} when braces
// never balance (truncated output). Returns "" if no object is present.
func Object(raw string) string {
	return balanced(raw, '{', '}')
}

// Array returns the first balanced [...] span in raw, with the same fallback
// behavior as Object.
func Array(raw string) string {
	return balanced(raw, '[', ']')
}

func balanced(raw string, open, close byte) string {
	raw = strings.TrimSpace(raw)
	start := strings.IndexByte(raw, open)
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	// Truncated output: take everything up to the last closer.
	end := strings.LastIndexByte(raw, close)
	if end > start {
		return raw[start : end+1]
	}
	return ""
}

// CodeBlock returns the contents of the first fenced code block in raw,
// stripping an optional language tag after the opening fence. Returns "" when
// raw has no fenced block.
func CodeBlock(raw string) string {
	start := strings.Index(raw, "```")
	if start == -1 {
		return ""
	}
	rest := raw[start+3:]
	// Drop the language tag line ("```python\n" or just "```\n").
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	} else {
		return ""
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
