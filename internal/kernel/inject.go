package kernel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool"
)

// workspaceContextBlock builds a short orientation block for the system
// prompt: top-level entries plus a quick keyword search seeded from the
// last user message. No embeddings, just enough for the model to aim its
// first tool call.
func (k *Kernel) workspaceContextBlock(ec tool.ExecContext, messages []chat.Message) string {
	root := strings.TrimSpace(ec.WorkspaceRoot)
	if root == "" {
		return ""
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return ""
	}

	lines := []string{"\nWorkspace context (workspace_root is set):"}
	if entries, err := os.ReadDir(root); err == nil {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		if max := k.Config.Tools.MaxContextEntries; len(names) > max {
			names = names[:max]
		}
		lines = append(lines, "Top-level files/dirs: "+strings.Join(names, ", "))
	} else {
		lines = append(lines, "(could not list workspace)")
	}

	if !ec.NoSearchContext {
		if hits := k.keywordHits(ec, messages); len(hits) > 0 {
			lines = append(lines, hits...)
		}
	}

	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// keywordHits runs up to MaxContextSearches quick searches using words from
// the last user message and stops at the first search that finds anything.
func (k *Kernel) keywordHits(ec tool.ExecContext, messages []chat.Message) []string {
	lastUser := chat.LastUserContent(messages)
	if lastUser == "" {
		return nil
	}

	var words []string
	for _, w := range strings.Fields(strings.ReplaceAll(lastUser, ",", " ")) {
		if len(w) > 3 {
			words = append(words, w)
		}
		if len(words) == 5 {
			break
		}
	}

	maxSearches := k.Config.Tools.MaxContextSearches
	if len(words) < maxSearches {
		maxSearches = len(words)
	}

	var lines []string
	for _, w := range words[:maxSearches] {
		matches := k.Toolbox.Search(ec, w, ".")
		if len(matches) == 0 {
			continue
		}
		if max := k.Config.Tools.MaxContextSearchHits; len(matches) > max {
			matches = matches[:max]
		}
		for _, hit := range matches {
			lines = append(lines, fmt.Sprintf("  %s:%d %s", hit.Path, hit.Line, clip(hit.Content, 80)))
		}
		break
	}
	return lines
}

// guidanceBlock fetches avoid/encourage patterns from a guidance endpoint
// when one is configured. Best effort with a short timeout; any failure
// means no block.
func (k *Kernel) guidanceBlock(ec tool.ExecContext) string {
	if ec.GuidanceDisabled {
		return ""
	}
	url := strings.TrimSpace(ec.GuidanceURL)
	if url == "" {
		url = strings.TrimSpace(k.Config.Agent.GuidanceURL)
	}
	if url == "" {
		return ""
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(strings.TrimRight(url, "/") + "/guidance")
	if err != nil {
		k.Log.Debug("guidance fetch failed", "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Avoid     []json.RawMessage `json:"avoid"`
		Encourage []json.RawMessage `json:"encourage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		k.Log.Debug("guidance decode failed", "error", err)
		return ""
	}

	avoid := guidanceItems(payload.Avoid, 5)
	encourage := guidanceItems(payload.Encourage, 5)
	if len(avoid) == 0 && len(encourage) == 0 {
		return ""
	}

	lines := []string{"\nCode quality guidance:"}
	if len(avoid) > 0 {
		lines = append(lines, "Avoid: "+strings.Join(avoid, "; "))
	}
	if len(encourage) > 0 {
		lines = append(lines, "Encourage: "+strings.Join(encourage, "; "))
	}
	return strings.Join(lines, "\n")
}

// guidanceItems accepts both plain strings and {"pattern": "..."} objects.
func guidanceItems(raw []json.RawMessage, max int) []string {
	var out []string
	for _, r := range raw {
		if len(out) == max {
			break
		}
		var s string
		if json.Unmarshal(r, &s) == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Pattern string `json:"pattern"`
		}
		if json.Unmarshal(r, &obj) == nil && obj.Pattern != "" {
			out = append(out, obj.Pattern)
		}
	}
	return out
}
