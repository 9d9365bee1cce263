package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// withBranch also deletes the worktree's branch.
	withBranch bool

	// force removes a dirty worktree and deletes an unmerged branch.
	force bool
}

// NewRemoveCommand creates the "remove" command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:     "remove <worktree>",
		Aliases: []string{"rm"},
		Short:   "Remove a worktree",
		Long: `Remove a worktree by branch or directory name.

A worktree with uncommitted changes is refused unless --force is given.
With --with-branch the branch is deleted too (git branch -d, or -D with
--force).

Examples:
  bonsai remove feature/login
  bonsai remove feature-login --with-branch
  bonsai remove spike --force`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runRemove(cmd.Context(), s, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.withBranch, "with-branch", false, "Also delete the branch")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}

func runRemove(ctx context.Context, s *session, token string, flags *removeFlags) error {
	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if wt.IsMain {
		return model.NewMainWorktree("remove")
	}

	// git refuses too, but its message does not mention --force. A
	// worktree whose directory is already gone has nothing to lose and
	// git removes it without complaint.
	if !flags.force && !missingDir(wt) {
		summary, err := s.git.Status(ctx, wt.Path)
		if err != nil {
			return err
		}
		if !summary.IsClean() {
			return model.NewDirtyWorktree(wt.Path)
		}
	}

	if err := s.git.Remove(ctx, wt.Path, flags.force); err != nil {
		return err
	}
	s.success("Removed", "worktree at %s", s.errUI.Path.Render(wt.Path))

	if !flags.withBranch || wt.Branch == nil {
		return nil
	}
	branch := *wt.Branch
	if err := s.git.DeleteBranch(ctx, branch, flags.force); err != nil {
		return fmt.Errorf("worktree was removed but deleting branch '%s' failed: %w", branch, err)
	}
	s.success("Deleted", "branch %s", s.errUI.Branch.Render(branch))
	return nil
}

// missingDir reports whether the worktree's directory no longer exists.
func missingDir(wt model.Worktree) bool {
	if wt.IsPrunable {
		return true
	}
	_, err := os.Stat(wt.Path)
	return errors.Is(err, fs.ErrNotExist)
}
