// Package config loads and saves .bonsai.toml, the per-repository
// settings file stored at the root of the main working tree.
//
// The file is read fresh by every command that needs it; nothing is
// cached between invocations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

const (
	// FileName is the config file name at the repository root.
	FileName = ".bonsai.toml"

	// CurrentVersion is the schema version written by `bonsai init`.
	CurrentVersion = "1"

	// DefaultWorktreeDir is where new worktrees go unless configured otherwise.
	DefaultWorktreeDir = ".bonsai"
)

// Config is the decoded form of .bonsai.toml.
type Config struct {
	Version  string
	Defaults Defaults
	Hooks    Hooks
}

// Defaults holds settings applied when a command flag is not given.
type Defaults struct {
	// WorktreeDir is relative to the repository root unless absolute.
	WorktreeDir string
}

// Hooks groups the hook lists by trigger.
type Hooks struct {
	// PostCreate runs in order after `bonsai add` creates a worktree.
	PostCreate []Hook
}

// Default returns the configuration written by `bonsai init`.
func Default() *Config {
	return &Config{
		Version:  CurrentVersion,
		Defaults: Defaults{WorktreeDir: DefaultWorktreeDir},
	}
}

// Path returns the config file location for the repository at root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Exists reports whether root already has a config file.
func Exists(root string) bool {
	_, err := os.Stat(Path(root))
	return err == nil
}

// KnownVersion reports whether the file was written for the schema this
// build understands. Other versions are still read as far as the fields
// match.
func (c *Config) KnownVersion() bool {
	return c.Version == CurrentVersion
}

// ManagedDir returns the absolute directory that holds bonsai-created
// worktrees.
func (c *Config) ManagedDir(root string) string {
	dir := c.Defaults.WorktreeDir
	if dir == "" {
		dir = DefaultWorktreeDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// Load reads the config of the repository at root. A missing file means
// the repository was never initialized; any parse or validation failure
// is reported as a config error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.ErrNotInitialized
		}
		return nil, model.WrapCLIError(model.KindIO, fmt.Sprintf("failed to read %s", FileName), err)
	}
	return Parse(data)
}

// Parse decodes and validates config file contents.
func Parse(data []byte) (*Config, error) {
	var raw fileFormat
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, model.WrapCLIError(model.KindConfig, "config error", err)
	}

	cfg := &Config{
		Version:  raw.Version,
		Defaults: Defaults{WorktreeDir: raw.Defaults.WorktreeDir},
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Defaults.WorktreeDir == "" {
		cfg.Defaults.WorktreeDir = DefaultWorktreeDir
	}

	for i, spec := range raw.Hooks.PostCreate {
		hook, err := spec.toHook()
		if err != nil {
			return nil, model.WrapCLIError(model.KindConfig,
				fmt.Sprintf("config error: hooks.post_create[%d]", i), err)
		}
		cfg.Hooks.PostCreate = append(cfg.Hooks.PostCreate, hook)
	}

	return cfg, nil
}

// Save writes cfg to root, replacing any existing file.
func Save(root string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(Path(root), data, 0644); err != nil {
		return model.WrapCLIError(model.KindIO, fmt.Sprintf("failed to write %s", FileName), err)
	}
	return nil
}

// Marshal encodes cfg in the on-disk format.
func (c *Config) Marshal() ([]byte, error) {
	raw := fileFormat{
		Version:  c.Version,
		Defaults: defaultsFormat{WorktreeDir: c.Defaults.WorktreeDir},
	}
	for _, h := range c.Hooks.PostCreate {
		raw.Hooks.PostCreate = append(raw.Hooks.PostCreate, fromHook(h))
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, model.WrapCLIError(model.KindConfig, "config error", err)
	}
	return buf.Bytes(), nil
}

// fileFormat mirrors the TOML layout:
//
//	version = "1"
//
//	[defaults]
//	worktree_dir = ".bonsai"
//
//	[[hooks.post_create]]
//	type = "copy"
//	from = ".env"
//	to = ".env"
type fileFormat struct {
	Version  string         `toml:"version"`
	Defaults defaultsFormat `toml:"defaults"`
	Hooks    hooksFormat    `toml:"hooks"`
}

type defaultsFormat struct {
	WorktreeDir string `toml:"worktree_dir"`
}

type hooksFormat struct {
	PostCreate []hookSpec `toml:"post_create,omitempty"`
}
