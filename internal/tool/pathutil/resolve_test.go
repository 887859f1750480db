package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelativePath(t *testing.T) {
	got, err := Resolve("/ws", "src/main.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/ws/src/main.py"), got)
}

func TestResolveStripsLeadingSeparator(t *testing.T) {
	got, err := Resolve("/ws", "/src/main.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/ws/src/main.py"), got)
}

func TestResolveDotReturnsRoot(t *testing.T) {
	got, err := Resolve("/ws", ".")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/ws"), got)
}

func TestResolveEmptyPathReturnsRoot(t *testing.T) {
	got, err := Resolve("/ws", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/ws"), got)
}

func TestResolveRejectsTraversal(t *testing.T) {
	_, err := Resolve("/ws", "../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestResolveRejectsNestedTraversal(t *testing.T) {
	_, err := Resolve("/ws", "a/b/../../../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestResolveAllowsInternalDotDot(t *testing.T) {
	got, err := Resolve("/ws", "a/b/../c")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/ws/a/c"), got)
}

func TestResolveRejectsSiblingPrefix(t *testing.T) {
	// /ws-evil shares a string prefix with /ws but is a different directory.
	_, err := Resolve("/ws", "../ws-evil/file")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestResolveEmptyRoot(t *testing.T) {
	_, err := Resolve("", "file.txt")
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestResolveRelativeRoot(t *testing.T) {
	_, err := Resolve("relative/root", "file.txt")
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestRel(t *testing.T) {
	assert.Equal(t, "src/main.py", Rel("/ws", filepath.FromSlash("/ws/src/main.py")))
	assert.Equal(t, ".", Rel("/ws", filepath.FromSlash("/ws")))
}
