package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// NewRenameCommand creates the "rename" command.
func NewRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <worktree> <new-branch>",
		Short: "Rename a worktree's branch",
		Long: `Rename the branch checked out in a worktree. A worktree inside the
managed directory is moved so its directory name follows the new branch;
worktrees elsewhere stay where they are.

Examples:
  bonsai rename feature/old feature/new`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runRename(cmd.Context(), s, args[0], args[1])
		},
	}
}

func runRename(ctx context.Context, s *session, token, newBranch string) error {
	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if wt.IsMain {
		return model.NewMainWorktree("rename")
	}
	if wt.Branch == nil {
		return model.NewBranchNotFound(token)
	}
	oldBranch := *wt.Branch

	if !s.dryRun {
		exists, err := s.git.BranchExists(ctx, newBranch)
		if err != nil {
			return err
		}
		if exists {
			return model.NewBranchExists(newBranch)
		}
	}

	newPath, err := renamedPath(s, wt, newBranch)
	if err != nil {
		return err
	}

	if err := s.git.RenameBranch(ctx, oldBranch, newBranch); err != nil {
		return err
	}
	s.success("Renamed", "%s -> %s", s.errUI.Branch.Render(oldBranch), s.errUI.Branch.Render(newBranch))

	if newPath == "" {
		return nil
	}
	if err := s.git.Move(ctx, wt.Path, newPath); err != nil {
		return fmt.Errorf("branch was renamed to '%s' but moving the worktree failed: %w", newBranch, err)
	}
	s.success("Moved", "worktree to %s", s.errUI.Path.Render(newPath))
	return nil
}

// renamedPath returns where the worktree moves after the rename, or "" when
// it stays. Only worktrees inside the managed directory follow the branch
// name, and without a config there is no managed directory.
func renamedPath(s *session, wt model.Worktree, newBranch string) (string, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		s.log.Debug("not moving worktree", "reason", err)
		return "", nil
	}
	managed := cfg.ManagedDir(s.root())
	if !worktree.IsWithin(wt.Path, managed) {
		return "", nil
	}

	newPath := filepath.Join(managed, worktree.DirName(newBranch))
	if newPath == wt.Path {
		return "", nil
	}
	if _, err := os.Lstat(newPath); err == nil {
		return "", model.NewWorktreeExists(newPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", model.WrapCLIError(model.KindIO, "failed to check "+newPath, err)
	}
	return newPath, nil
}
