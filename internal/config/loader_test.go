package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFS implements FileSystem backed by an in-memory map.
type mockFS struct {
	home    string
	homeErr error
	files   map[string][]byte
	readErr error
}

func (m *mockFS) UserHomeDir() (string, error) {
	if m.homeErr != nil {
		return "", m.homeErr
	}
	return m.home, nil
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func configPath(home string) string {
	return filepath.Join(home, ".config", ConfigDir, ConfigFile)
}

func TestLoad(t *testing.T) {
	t.Run("missing dotfile returns defaults", func(t *testing.T) {
		loader := NewLoaderWithFS(&mockFS{home: "/home/u", files: map[string][]byte{}})
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("home dir failure returns defaults", func(t *testing.T) {
		loader := NewLoaderWithFS(&mockFS{homeErr: errors.New("no home")})
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("dotfile values override defaults", func(t *testing.T) {
		fs := &mockFS{home: "/home/u", files: map[string][]byte{
			configPath("/home/u"): []byte(`{"agent": {"max_turns": 12}, "tools": {"max_search_matches": 7}}`),
		}}
		cfg, err := NewLoaderWithFS(fs).Load()
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Agent.MaxTurns)
		assert.Equal(t, 7, cfg.Tools.MaxSearchMatches)
		// Untouched keys keep defaults.
		assert.Equal(t, DefaultConfig().Tools.ShellTimeoutSeconds, cfg.Tools.ShellTimeoutSeconds)
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		fs := &mockFS{home: "/home/u", files: map[string][]byte{
			configPath("/home/u"): []byte(`{"agent": `),
		}}
		_, err := NewLoaderWithFS(fs).Load()
		assert.Error(t, err)
	})

	t.Run("invalid merged config is an error", func(t *testing.T) {
		fs := &mockFS{home: "/home/u", files: map[string][]byte{
			configPath("/home/u"): []byte(`{"agent": {"max_turns": 0}}`),
		}}
		_, err := NewLoaderWithFS(fs).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent.max_turns")
	})

	t.Run("permission error propagates", func(t *testing.T) {
		fs := &mockFS{home: "/home/u", readErr: os.ErrPermission}
		_, err := NewLoaderWithFS(fs).Load()
		assert.Error(t, err)
	})
}

func TestWorkspaceAllowed(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty allowlist permits anything", func(t *testing.T) {
		assert.True(t, cfg.WorkspaceAllowed("/any/path"))
	})

	t.Run("path under allowed root", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.AllowedRoots = []string{"/srv/workspaces"}
		assert.True(t, cfg.WorkspaceAllowed("/srv/workspaces"))
		assert.True(t, cfg.WorkspaceAllowed("/srv/workspaces/projA"))
	})

	t.Run("path outside allowed root", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.AllowedRoots = []string{"/srv/workspaces"}
		assert.False(t, cfg.WorkspaceAllowed("/srv/other"))
		// Sibling with the allowed root as a naive string prefix.
		assert.False(t, cfg.WorkspaceAllowed("/srv/workspaces-evil"))
	})
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("relative allowed root rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.AllowedRoots = []string{"relative/path"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allowed_roots")
	})

	t.Run("all violations reported", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Agent.Model = ""
		cfg.Tools.MaxPreviewChars = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent.model")
		assert.Contains(t, err.Error(), "tools.max_preview_chars")
	})
}
