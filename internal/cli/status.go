package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

type statusFlags struct {
	format string
}

// NewStatusCommand creates the "status" command.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status [worktree]",
		Short: "Show the state of one or all worktrees",
		Long: `Show branch, path, local changes, last commit date, and lock state for a
worktree, or for every worktree when none is named.

Examples:
  bonsai status
  bonsai status feature/login
  bonsai status --format yaml`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runStatus(cmd.Context(), s, token, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "o", formatText, "Output format: text, json, yaml")

	return cmd
}

func runStatus(ctx context.Context, s *session, token string, flags *statusFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	worktrees, err := s.git.List(ctx)
	if err != nil {
		return err
	}

	targets := worktrees
	if token != "" {
		wt, err := worktree.Resolve(token, worktrees)
		if err != nil {
			return err
		}
		targets = []model.Worktree{wt}
	}

	current, hasCurrent := worktree.Current(s.cwd, worktrees)
	records := make([]worktreeRecord, 0, len(targets))
	for _, wt := range targets {
		rec := worktreeRecord{
			Worktree:   wt,
			Name:       wt.Name(),
			Current:    hasCurrent && wt.Path == current.Path,
			Display:    "?",
			LastCommit: "unknown",
		}
		// A worktree whose directory is gone still gets reported.
		if summary, err := s.git.Status(ctx, wt.Path); err == nil {
			rec.Status = &summary
			rec.Display = summary.ShortDisplay()
		}
		if when, err := s.git.LastCommit(ctx, wt.Path); err == nil && when != "" {
			rec.LastCommit = when
		}
		records = append(records, rec)
	}

	if flags.format != formatText {
		return writeStructured(s.out, flags.format, records)
	}

	ui := s.outUI
	for _, rec := range records {
		fmt.Fprintln(s.out, ui.Branch.Bold(true).Render(rec.BranchName()))
		fmt.Fprintf(s.out, "  Path: %s\n", ui.Path.Render(rec.Path))
		fmt.Fprintf(s.out, "  Status: %s\n", ui.statusStyle(rec.Display).Render(rec.Display))
		fmt.Fprintf(s.out, "  Last commit: %s\n", rec.LastCommit)
		if rec.IsLocked {
			reason := ""
			if rec.LockReason != nil {
				reason = fmt.Sprintf(" (%s)", *rec.LockReason)
			}
			fmt.Fprintf(s.out, "  %s%s\n", ui.Locked.Render("Locked"), reason)
		}
		fmt.Fprintln(s.out)
	}
	return nil
}
