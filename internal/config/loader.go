package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// Dotfile location: ~/.config/ai-agent/config.json.
	ConfigDir  = "ai-agent"
	ConfigFile = "config.json"
)

// FileSystem is the slice of os the loader needs, injectable in tests.
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) UserHomeDir() (string, error) { return os.UserHomeDir() }

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Loader merges the user dotfile over the built-in defaults.
type Loader struct {
	fs FileSystem
}

func NewLoader() *Loader {
	return &Loader{fs: osFS{}}
}

func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load returns defaults when the dotfile (or the home directory) is
// missing, and an error only for unreadable files, malformed JSON, or a
// merged config that fails validation.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	data, err := l.fs.ReadFile(filepath.Join(homeDir, ".config", ConfigDir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshaling straight into the defaults struct gives merge semantics
	// for free: keys present in the file win, absent keys keep defaults.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config with the real filesystem.
func Load() (*Config, error) {
	return NewLoader().Load()
}
