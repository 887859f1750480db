package tool

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DJMcClellan1966/AI-Agent/internal/tool/gitutil"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool/pathutil"
)

const workspaceNotConfigured = "Workspace not configured. Pass a workspace root."
const pathOutsideWorkspace = "Path outside workspace."

// textExtensions are the file suffixes search_files will scan. Extensionless
// files (Makefile, Dockerfile) are scanned too.
var textExtensions = []string{
	".go", ".py", ".js", ".ts", ".tsx", ".jsx", ".html", ".css", ".json",
	".md", ".txt", ".yml", ".yaml", ".toml", ".sh", ".bat", ".env",
}

type pathArgs struct {
	Path string `mapstructure:"path"`
}

func (tb *Toolbox) readFile(ec ExecContext, args map[string]any) Result {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	if ec.WorkspaceRoot == "" {
		return textResult(errorText(workspaceNotConfigured))
	}
	full, err := pathutil.Resolve(ec.WorkspaceRoot, a.Path)
	if err != nil {
		return textResult(errorText(pathOutsideWorkspace))
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return textResult(errorText(err.Error()))
	}
	return textResult(jsonText(map[string]string{
		"path":    a.Path,
		"content": string(data),
	}))
}

func (tb *Toolbox) listDir(ec ExecContext, args map[string]any) Result {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	if a.Path == "" {
		a.Path = "."
	}
	if ec.WorkspaceRoot == "" {
		return textResult(errorText(workspaceNotConfigured))
	}
	full, err := pathutil.Resolve(ec.WorkspaceRoot, a.Path)
	if err != nil {
		return textResult(errorText(pathOutsideWorkspace))
	}
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return textResult(errorText(err.Error()))
	}
	entries := []string{}
	for _, e := range dirEntries {
		entries = append(entries, e.Name())
	}
	return textResult(jsonText(map[string]any{
		"path":    a.Path,
		"entries": entries,
	}))
}

type searchArgs struct {
	Pattern string `mapstructure:"pattern"`
	Query   string `mapstructure:"query"`
	Path    string `mapstructure:"path"`
}

// SearchMatch is one search_files hit. Path is relative to the search
// directory, with forward slashes.
type SearchMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

func (tb *Toolbox) searchFiles(ec ExecContext, args map[string]any) Result {
	var a searchArgs
	if err := decodeArgs(args, &a); err != nil {
		return textResult(errorText(err.Error()))
	}
	pattern := a.Pattern
	if pattern == "" {
		pattern = a.Query
	}
	path := a.Path
	if path == "" {
		path = "."
	}
	if ec.WorkspaceRoot == "" {
		return textResult(errorText(workspaceNotConfigured))
	}
	base, err := pathutil.Resolve(ec.WorkspaceRoot, path)
	if err != nil {
		return textResult(errorText(pathOutsideWorkspace))
	}
	if pattern == "" {
		return textResult(errorText("pattern is required."))
	}

	matches := tb.search(ec, base, pattern)
	return textResult(jsonText(map[string]any{
		"pattern": pattern,
		"path":    path,
		"matches": matches,
	}))
}

// Search runs the same literal search as the search_files tool, for callers
// that want matches rather than a transcript string (the context injector).
func (tb *Toolbox) Search(ec ExecContext, pattern, relPath string) []SearchMatch {
	base, err := pathutil.Resolve(ec.WorkspaceRoot, relPath)
	if err != nil {
		return nil
	}
	return tb.search(ec, base, pattern)
}

// search scans text files under base for a literal substring. Gitignored
// paths are skipped, matches are capped, and reported paths are relative
// to base with forward slashes.
func (tb *Toolbox) search(ec ExecContext, base, pattern string) []SearchMatch {
	maxMatches := tb.Config.Tools.MaxSearchMatches
	maxSize := tb.Config.Tools.MaxSearchFileSize
	ignore := gitutil.NewIgnoreMatcher(ec.WorkspaceRoot)

	matches := []SearchMatch{}
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if len(matches) >= maxMatches {
			return filepath.SkipAll
		}
		wsRel := pathutil.Rel(ec.WorkspaceRoot, path)
		if d.IsDir() {
			if d.Name() == ".git" || ignore.ShouldIgnore(wsRel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.ShouldIgnore(wsRel, false) {
			return nil
		}
		if !isTextFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		rel := pathutil.Rel(base, path)
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if strings.Contains(line, pattern) {
				content := truncateText(strings.TrimRight(line, " \t\r\n"), 200)
				matches = append(matches, SearchMatch{Path: rel, Line: lineNo, Content: content})
				if len(matches) >= maxMatches {
					return filepath.SkipAll
				}
			}
		}
		return nil
	})

	return matches
}

func isTextFile(name string) bool {
	if !strings.Contains(name, ".") {
		return true
	}
	for _, ext := range textExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
