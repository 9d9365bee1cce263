package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// autoBase is the --merged value when the flag is given without a base.
// Git forbids ":" in ref names, so no branch can collide with it.
const autoBase = ":auto"

// pruneFlags holds the flag values for the prune command.
type pruneFlags struct {
	// merged selects worktrees whose branch is merged into this base.
	// Empty means the flag was not given; autoBase means main, else master.
	merged string

	// staleDays selects worktrees whose last commit is older than this
	// many days. Zero disables the check.
	staleDays int

	// withBranch deletes the branches of removed worktrees.
	withBranch bool

	// interactive lets the user pick from the selection.
	interactive bool

	// yes skips the confirmation prompt.
	yes bool
}

// NewPruneCommand creates the "prune" command.
func NewPruneCommand() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune [base]",
		Short: "Clean up stale and finished worktrees",
		Long: `Run git worktree prune, then optionally remove worktrees whose branch is
merged (--merged) or whose last commit is old (--stale).

--merged compares against main, or master when main does not exist. Give
a base as --merged=<branch> or as the positional argument.

Examples:
  bonsai prune
  bonsai prune --merged --with-branch
  bonsai prune --merged=develop -y
  bonsai prune --stale 30 --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if flags.merged != autoBase {
					return model.NewCLIError(model.KindGeneral, "a base branch argument requires --merged")
				}
				flags.merged = args[0]
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runPrune(cmd.Context(), s, flags)
		},
	}

	cmd.Flags().StringVar(&flags.merged, "merged", "", "Remove worktrees merged into `base` (default: main or master)")
	cmd.Flags().Lookup("merged").NoOptDefVal = autoBase
	cmd.Flags().IntVar(&flags.staleDays, "stale", 0, "Remove worktrees with no commits in this many `days`")
	cmd.Flags().BoolVar(&flags.withBranch, "with-branch", false, "Also delete the branches of removed worktrees")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Choose which worktrees to remove")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("interactive", "yes")

	return cmd
}

func runPrune(ctx context.Context, s *session, flags *pruneFlags) error {
	if flags.staleDays < 0 {
		return model.NewCLIError(model.KindGeneral, "--stale must be a positive number of days")
	}

	if err := s.git.Prune(ctx); err != nil {
		return err
	}

	targets, err := pruneTargets(ctx, s, flags)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		s.note("Nothing to prune.")
		return nil
	}

	if flags.interactive {
		targets, err = chooseTargets(s, targets)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			s.note("Nothing selected.")
			return nil
		}
	} else {
		fmt.Fprintln(s.errOut, "Worktrees to remove:")
		for _, wt := range targets {
			fmt.Fprintf(s.errOut, "  - %s (%s)\n", s.errUI.Branch.Render(wt.BranchName()), s.errUI.Path.Render(wt.Path))
		}
		if !flags.yes {
			ok, err := s.confirm("Proceed?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(s.errOut, "Aborted.")
				return nil
			}
		}
	}

	// A failed removal stops the loop: something unexpected is in the
	// way. A failed branch delete (usually "not fully merged") does not.
	var branchErrs []error
	for _, wt := range targets {
		if err := s.git.Remove(ctx, wt.Path, false); err != nil {
			return err
		}
		s.success("Removed", "worktree at %s", s.errUI.Path.Render(wt.Path))

		if !flags.withBranch || wt.Branch == nil {
			continue
		}
		if err := s.git.DeleteBranch(ctx, *wt.Branch, false); err != nil {
			s.log.Warn("could not delete branch", "branch", *wt.Branch, "err", err)
			branchErrs = append(branchErrs, fmt.Errorf("delete branch '%s': %w", *wt.Branch, err))
			continue
		}
		s.success("Deleted", "branch %s", s.errUI.Branch.Render(*wt.Branch))
	}

	return errors.Join(branchErrs...)
}

// pruneTargets applies --merged and --stale to the listing. The result
// keeps listing order and holds each worktree once. Locked worktrees are
// never selected.
func pruneTargets(ctx context.Context, s *session, flags *pruneFlags) ([]model.Worktree, error) {
	if flags.merged == "" && flags.staleDays == 0 {
		return nil, nil
	}

	worktrees, err := s.git.List(ctx)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool)

	if flags.merged != "" {
		base := flags.merged
		if base == autoBase {
			base, err = defaultBase(ctx, s)
			if err != nil {
				return nil, err
			}
		}
		merged, err := s.git.MergedBranches(ctx, base)
		if err != nil {
			return nil, err
		}
		for _, wt := range worktrees {
			if wt.IsMain || wt.IsLocked || wt.Branch == nil || *wt.Branch == base {
				continue
			}
			if merged[*wt.Branch] {
				selected[wt.Path] = true
			}
		}
	}

	if flags.staleDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -flags.staleDays)
		for _, wt := range worktrees {
			if wt.IsMain || wt.IsLocked {
				continue
			}
			when, err := s.git.LastCommitTime(ctx, wt.Path)
			if err != nil {
				s.log.Debug("skipping stale check", "path", wt.Path, "err", err)
				continue
			}
			if when.Before(cutoff) {
				selected[wt.Path] = true
			}
		}
	}

	var targets []model.Worktree
	for _, wt := range worktrees {
		if selected[wt.Path] {
			targets = append(targets, wt)
		}
	}
	return targets, nil
}

// defaultBase is main when that branch exists, otherwise master.
func defaultBase(ctx context.Context, s *session) (string, error) {
	exists, err := s.git.BranchExists(ctx, "main")
	if err != nil {
		return "", err
	}
	if exists {
		return "main", nil
	}
	return "master", nil
}

// chooseTargets shows a multi-select with every candidate preselected.
func chooseTargets(s *session, candidates []model.Worktree) ([]model.Worktree, error) {
	in, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return nil, model.NewCLIError(model.KindGeneral, "--interactive requires a terminal")
	}

	options := make([]huh.Option[string], 0, len(candidates))
	for _, wt := range candidates {
		label := fmt.Sprintf("%s (%s)", wt.BranchName(), s.displayPath(wt))
		options = append(options, huh.NewOption(label, wt.Path).Selected(true))
	}

	var chosen []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Worktrees to remove").
			Options(options...).
			Value(&chosen),
	)).WithInput(s.in).WithOutput(s.errOut)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, model.WrapCLIError(model.KindIO, "selection failed", err)
	}

	picked := make(map[string]bool, len(chosen))
	for _, p := range chosen {
		picked[p] = true
	}
	var targets []model.Worktree
	for _, wt := range candidates {
		if picked[wt.Path] {
			targets = append(targets, wt)
		}
	}
	return targets, nil
}
