package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

func TestParseFull(t *testing.T) {
	input := `
version = "1"

[defaults]
worktree_dir = "trees"

[[hooks.post_create]]
type = "copy"
from = ".env"
to = ".env"

[[hooks.post_create]]
type = "symlink"
from = "node_modules"
to = "node_modules"

[[hooks.post_create]]
type = "command"
command = "npm install"
[hooks.post_create.env]
NODE_ENV = "development"
`

	cfg, err := Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "trees", cfg.Defaults.WorktreeDir)
	require.Len(t, cfg.Hooks.PostCreate, 3)
	assert.Equal(t, CopyHook{From: ".env", To: ".env"}, cfg.Hooks.PostCreate[0])
	assert.Equal(t, SymlinkHook{From: "node_modules", To: "node_modules"}, cfg.Hooks.PostCreate[1])
	assert.Equal(t, CommandHook{
		Command: "npm install",
		Env:     map[string]string{"NODE_ENV": "development"},
	}, cfg.Hooks.PostCreate[2])
}

// TestParseDefaults fills in what a minimal file leaves out.
func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultWorktreeDir, cfg.Defaults.WorktreeDir)
	assert.Empty(t, cfg.Hooks.PostCreate)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"invalid toml", "version = ", "config error"},
		{"unknown hook type", "[[hooks.post_create]]\ntype = \"teleport\"", "unknown hook type"},
		{"missing type", "[[hooks.post_create]]\nfrom = \"a\"", "missing \"type\""},
		{"copy without to", "[[hooks.post_create]]\ntype = \"copy\"\nfrom = \"a\"", "requires both"},
		{"command without command", "[[hooks.post_create]]\ntype = \"command\"", "requires \"command\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadMissingIsNotInitialized(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotInitialized)
}

// TestSaveLoad writes a config with every hook variant and reads it back.
func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Hooks.PostCreate = []Hook{
		CopyHook{From: ".env", To: ".env"},
		CommandHook{Command: "make setup", Env: map[string]string{"CI": "1"}},
	}

	require.NoError(t, Save(root, cfg))
	assert.True(t, Exists(root))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultFileIsReadable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, Default()))

	data, err := os.ReadFile(filepath.Join(root, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "1"`)
	assert.Contains(t, string(data), `worktree_dir = ".bonsai"`)
}

func TestManagedDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/repo", ".bonsai"), cfg.ManagedDir("/repo"))

	cfg.Defaults.WorktreeDir = "/srv/trees"
	assert.Equal(t, "/srv/trees", cfg.ManagedDir("/repo"))

	cfg.Defaults.WorktreeDir = ""
	assert.Equal(t, filepath.Join("/repo", ".bonsai"), cfg.ManagedDir("/repo"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "copy a -> b", Describe(CopyHook{From: "a", To: "b"}))
	assert.Equal(t, "symlink a -> b", Describe(SymlinkHook{From: "a", To: "b"}))
	assert.Equal(t, `command "make"`, Describe(CommandHook{Command: "make"}))
}

func TestParseOtherVersion(t *testing.T) {
	cfg, err := Parse([]byte("version = \"2\"\n\n[defaults]\nworktree_dir = \"trees\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "2", cfg.Version)
	assert.False(t, cfg.KnownVersion())
	assert.Equal(t, "trees", cfg.Defaults.WorktreeDir)

	cfg, err = Parse([]byte(""))
	require.NoError(t, err)
	assert.True(t, cfg.KnownVersion())
}
