// Package gitutil provides gitignore-aware filtering for workspace scans.
package gitutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher reports whether workspace-relative paths are gitignored.
// The directory listing, search, and context-injection tools use it so
// that node_modules and friends never reach the model.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads .gitignore from workspaceRoot. A missing or
// unreadable .gitignore yields a matcher that never ignores; the tools
// should degrade to unfiltered listings rather than fail.
func NewIgnoreMatcher(workspaceRoot string) *IgnoreMatcher {
	data, err := os.ReadFile(filepath.Join(workspaceRoot, ".gitignore"))
	if err != nil {
		return &IgnoreMatcher{matcher: nil}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if p := gitignore.ParsePattern(line, nil); p != nil {
			patterns = append(patterns, p)
		}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// ShouldIgnore checks relativePath against the loaded patterns.
// isDir matters for directory-only patterns like "build/".
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(splitPath(relativePath), isDir)
}

// splitPath splits a path into the segment form go-git's matcher expects,
// normalizing separators and dropping empty and "." segments.
func splitPath(path string) []string {
	normalized := filepath.ToSlash(path)
	parts := strings.Split(normalized, "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
