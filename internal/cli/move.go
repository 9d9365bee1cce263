package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// NewMoveCommand creates the "move" command.
func NewMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "move <worktree> <new-path>",
		Aliases: []string{"mv"},
		Short:   "Move a worktree to a new location",
		Long: `Move a worktree directory with git worktree move. Relative paths are
resolved against the current directory.

Examples:
  bonsai move feature/login ../login
  bonsai move spike /tmp/spike`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runMove(cmd.Context(), s, args[0], args[1])
		},
	}
}

func runMove(ctx context.Context, s *session, token, newPath string) error {
	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if wt.IsMain {
		return model.NewMainWorktree("move")
	}

	target := s.absPath(newPath)
	if _, err := os.Stat(target); err == nil {
		return model.NewWorktreeExists(target)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return model.WrapCLIError(model.KindIO, "failed to check "+target, err)
	}

	if err := s.git.Move(ctx, wt.Path, target); err != nil {
		return err
	}
	s.success("Moved", "worktree from %s to %s", s.errUI.Path.Render(wt.Path), s.errUI.Path.Render(target))
	return nil
}
