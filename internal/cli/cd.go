package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// NewCdCommand creates the "cd" command. A process cannot change its
// parent shell's directory, so cd only prints the path; the wrapper from
// `bonsai shell-init` does the actual cd.
func NewCdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cd <worktree|@>",
		Short: "Print the path of a worktree",
		Long: `Print the path of a worktree. "@" is the main worktree.

With the shell integration loaded (see "bonsai shell-init"), this changes
the current directory.

Examples:
  bonsai cd feature/login
  cd "$(bonsai cd @)"`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runCd(cmd.Context(), s, args[0])
		},
	}
}

func runCd(ctx context.Context, s *session, token string) error {
	if token == worktree.MainToken {
		fmt.Fprintln(s.out, s.root())
		return nil
	}

	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, wt.Path)
	return nil
}
