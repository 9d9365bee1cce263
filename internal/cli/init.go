package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/config"
	"github.com/mmr-tortoise/bonsai/internal/model"
)

type initFlags struct {
	// force overwrites an existing .bonsai.toml.
	force bool
}

// NewInitCommand creates the "init" command.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up bonsai in the current repository",
		Long: `Create .bonsai.toml at the repository root, create the managed worktree
directory, and add it to .gitignore.

Examples:
  bonsai init
  bonsai init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runInit(s, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(s *session, flags *initFlags) error {
	root := s.root()
	if config.Exists(root) && !flags.force {
		return model.ErrAlreadyInitialized
	}

	cfg := config.Default()
	managed := cfg.ManagedDir(root)
	ignoreEntry := cfg.Defaults.WorktreeDir + "/"

	if s.dryRun {
		s.log.Warn("dry-run", "mkdir", managed)
		s.log.Warn("dry-run", "write", config.Path(root))
		s.log.Warn("dry-run", "gitignore", ignoreEntry)
		return nil
	}

	if err := os.MkdirAll(managed, 0755); err != nil {
		return model.WrapCLIError(model.KindIO, fmt.Sprintf("failed to create %s", managed), err)
	}
	if err := config.Save(root, cfg); err != nil {
		return err
	}
	if err := ensureIgnored(filepath.Join(root, ".gitignore"), ignoreEntry); err != nil {
		return err
	}

	s.success("Initialized", "bonsai in %s", s.errUI.Path.Render(root))
	return nil
}

// ensureIgnored appends entry to the .gitignore at path unless a line
// already matches it. A missing trailing newline is added first so the
// entry lands on its own line.
func ensureIgnored(path, entry string) error {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return model.WrapCLIError(model.KindIO, "failed to read .gitignore", err)
	}

	text := string(content)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += entry + "\n"

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return model.WrapCLIError(model.KindIO, "failed to update .gitignore", err)
	}
	return nil
}
