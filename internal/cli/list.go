package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// porcelain prints "branch<TAB>path<TAB>short-head" lines for scripts.
	porcelain bool

	// status adds a STATUS column (one git status call per worktree).
	status bool

	// namesOnly prints one branch name per line, used by shell completion.
	namesOnly bool

	// format is text, json, or yaml.
	format string
}

// NewListCommand creates the "list" command.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List worktrees",
		Long: `List all worktrees of the repository, main first. The worktree containing
the current directory is marked with "*".

Examples:
  bonsai list
  bonsai list --status
  bonsai list --names-only
  bonsai list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), s, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.porcelain, "porcelain", false, "Machine-readable tab-separated output")
	cmd.Flags().BoolVarP(&flags.status, "status", "s", false, "Show working tree status")
	cmd.Flags().BoolVar(&flags.namesOnly, "names-only", false, "Print branch names only")
	cmd.Flags().StringVarP(&flags.format, "format", "o", formatText, "Output format: text, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("porcelain", "names-only", "format")

	return cmd
}

func runList(ctx context.Context, s *session, flags *listFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	worktrees, err := s.git.List(ctx)
	if err != nil {
		return err
	}

	switch {
	case flags.namesOnly:
		for _, wt := range worktrees {
			fmt.Fprintln(s.out, wt.BranchName())
		}
		return nil

	case flags.porcelain:
		for _, wt := range worktrees {
			fmt.Fprintf(s.out, "%s\t%s\t%s\n", wt.BranchName(), wt.Path, wt.ShortHead())
		}
		return nil

	case flags.format != formatText:
		records := make([]worktreeRecord, 0, len(worktrees))
		current, hasCurrent := worktree.Current(s.cwd, worktrees)
		for _, wt := range worktrees {
			rec := worktreeRecord{
				Worktree: wt,
				Name:     wt.Name(),
				Current:  hasCurrent && wt.Path == current.Path,
			}
			if flags.status {
				if summary, err := s.git.Status(ctx, wt.Path); err == nil {
					rec.Status = &summary
					rec.Display = summary.ShortDisplay()
				}
			}
			records = append(records, rec)
		}
		return writeStructured(s.out, flags.format, records)
	}

	printListTable(ctx, s, worktrees, flags.status)
	return nil
}

type listRow struct {
	current bool
	branch  string
	path    string
	status  string
}

// printListTable renders
//
//	  BRANCH         PATH                   STATUS
//	──────────────────────────────────────────────
//	* main           /home/me/repo          clean
//	  feature/login  .bonsai/feature-login  2M 1?
//
// Widths are computed on the plain text before styling, since escape
// codes would otherwise count toward the padding.
func printListTable(ctx context.Context, s *session, worktrees []model.Worktree, withStatus bool) {
	current, hasCurrent := worktree.Current(s.cwd, worktrees)

	rows := make([]listRow, 0, len(worktrees))
	branchWidth, pathWidth := len("BRANCH"), len("PATH")
	for _, wt := range worktrees {
		row := listRow{
			current: hasCurrent && wt.Path == current.Path,
			branch:  wt.BranchName(),
			path:    s.displayPath(wt),
		}
		if withStatus {
			row.status = "?"
			if summary, err := s.git.Status(ctx, wt.Path); err == nil {
				row.status = summary.ShortDisplay()
			}
		}
		branchWidth = max(branchWidth, len(row.branch))
		pathWidth = max(pathWidth, len(row.path))
		rows = append(rows, row)
	}

	ui := s.outUI
	header := fmt.Sprintf("  %-*s  PATH", branchWidth, "BRANCH")
	if withStatus {
		header = fmt.Sprintf("  %-*s  %-*s  STATUS", branchWidth, "BRANCH", pathWidth, "PATH")
	}
	fmt.Fprintln(s.out, ui.Header.Render(header))
	fmt.Fprintln(s.out, ui.Faint.Render(strings.Repeat("─", len(header))))

	for _, row := range rows {
		marker := " "
		if row.current {
			marker = ui.Current.Render("*")
		}
		branch := ui.Branch.Render(fmt.Sprintf("%-*s", branchWidth, row.branch))
		if !withStatus {
			fmt.Fprintf(s.out, "%s %s  %s\n", marker, branch, ui.Path.Render(row.path))
			continue
		}
		path := ui.Path.Render(fmt.Sprintf("%-*s", pathWidth, row.path))
		fmt.Fprintf(s.out, "%s %s  %s  %s\n", marker, branch, path, ui.statusStyle(row.status).Render(row.status))
	}
}
