package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type lockFlags struct {
	// reason is stored by git and shown by list and status.
	reason string
}

// NewLockCommand creates the "lock" command.
func NewLockCommand() *cobra.Command {
	flags := &lockFlags{}

	cmd := &cobra.Command{
		Use:   "lock <worktree>",
		Short: "Protect a worktree from pruning",
		Long: `Lock a worktree so git worktree prune and remove leave it alone, for
example while it lives on a removable drive.

Examples:
  bonsai lock feature/login --reason "on usb drive"`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runLock(cmd.Context(), s, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.reason, "reason", "r", "", "Reason for locking")

	return cmd
}

// NewUnlockCommand creates the "unlock" command.
func NewUnlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "unlock <worktree>",
		Short:             "Unlock a locked worktree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runUnlock(cmd.Context(), s, args[0])
		},
	}
}

func runLock(ctx context.Context, s *session, token string, flags *lockFlags) error {
	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if err := s.git.Lock(ctx, wt.Path, flags.reason); err != nil {
		return err
	}

	suffix := ""
	if flags.reason != "" {
		suffix = fmt.Sprintf(" (%s)", flags.reason)
	}
	s.success("Locked", "worktree %s%s", s.errUI.Branch.Render(wt.BranchName()), suffix)
	return nil
}

func runUnlock(ctx context.Context, s *session, token string) error {
	wt, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if err := s.git.Unlock(ctx, wt.Path); err != nil {
		return err
	}
	s.success("Unlocked", "worktree %s", s.errUI.Branch.Render(wt.BranchName()))
	return nil
}
