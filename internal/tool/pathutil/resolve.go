// Package pathutil confines tool filesystem access to the workspace root.
//
// Only paths supplied by the model are treated as adversarial; workspace
// content itself is trusted. In particular symlinks inside the workspace are
// not resolved, so a symlink pointing outside the root can escape it. That is
// a documented trust boundary, not an oversight.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Resolve joins path with root and returns the cleaned absolute result,
// or an error when root is unusable or the result escapes it.
//
// A leading separator on path is stripped first (the model often emits
// "/src/main.py" meaning workspace-relative). Both "/" and the native
// separator are accepted. The containment check is component-wise: /ws-evil
// is not inside /ws.
func Resolve(root, path string) (string, error) {
	if root == "" {
		return "", ErrNoWorkspace
	}
	if !filepath.IsAbs(root) {
		return "", ErrNoWorkspace
	}

	cleaned := filepath.FromSlash(path)
	cleaned = strings.TrimPrefix(cleaned, string(filepath.Separator))
	cleaned = strings.TrimPrefix(cleaned, "/")

	rootClean := filepath.Clean(root)
	full := filepath.Clean(filepath.Join(rootClean, cleaned))

	if !within(full, rootClean) {
		return "", ErrOutsideWorkspace
	}
	return full, nil
}

// Rel returns full's workspace-relative form with forward slashes, or "."
// for the root itself. full must already be a Resolve result.
func Rel(root, full string) string {
	rootClean := filepath.Clean(root)
	rel, err := filepath.Rel(rootClean, full)
	if err != nil {
		return filepath.ToSlash(full)
	}
	return filepath.ToSlash(rel)
}

// within reports whether path equals root or sits under it, component-wise.
func within(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
