package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/hooks"
	"github.com/mmr-tortoise/bonsai/internal/model"
	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// addFlags holds the flag values for the add command.
type addFlags struct {
	// create makes a new branch instead of checking out an existing one.
	create bool

	// base is the start point of a new branch, or the commit for --detach.
	base string

	// path overrides the worktree location entirely.
	path string

	// name overrides the directory name under the managed directory.
	name string

	// detach checks out without a branch.
	detach bool

	// noHooks skips the post-create hooks.
	noHooks bool
}

// NewAddCommand creates the "add" command.
func NewAddCommand() *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add <branch>",
		Short: "Create a worktree for a branch",
		Long: `Create a worktree under the managed directory and run post-create hooks.

The directory name is the branch with "/" replaced by "-", so
"feature/login" goes to .bonsai/feature-login.

Examples:
  bonsai add -c feature/login
  bonsai add -c hotfix --base v1.2.0
  bonsai add review --path ../review
  bonsai add --detach v1.2.0 --name release`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runAdd(cmd.Context(), s, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.create, "create", "c", false, "Create a new branch")
	cmd.Flags().StringVarP(&flags.base, "base", "b", "", "Start point for the new branch (default: HEAD)")
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "Custom worktree path")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Directory name under the managed directory")
	cmd.Flags().BoolVarP(&flags.detach, "detach", "d", false, "Check out without a branch")
	cmd.Flags().BoolVar(&flags.noHooks, "no-hooks", false, "Skip post-create hooks")
	cmd.MarkFlagsMutuallyExclusive("create", "detach")
	cmd.MarkFlagsMutuallyExclusive("path", "name")

	return cmd
}

// runAdd validates everything before the single mutating git command:
// the target directory must not exist, and the branch must exist or not
// depending on --create.
func runAdd(ctx context.Context, s *session, branch string, flags *addFlags) error {
	if flags.create && flags.detach {
		return model.NewCLIError(model.KindGeneral, "--create and --detach cannot be used together")
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	target := flags.path
	if target != "" {
		target = s.absPath(target)
	} else {
		dirName := flags.name
		if dirName == "" {
			dirName = branch
		}
		target = filepath.Join(cfg.ManagedDir(s.root()), worktree.DirName(dirName))
	}

	if _, err := os.Stat(target); err == nil {
		return model.NewWorktreeExists(target)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return model.WrapCLIError(model.KindIO, fmt.Sprintf("failed to check %s", target), err)
	}

	if err := checkBranch(ctx, s, branch, flags); err != nil {
		return err
	}

	opts := worktree.AddOptions{CreateBranch: flags.create, Base: flags.base, Detach: flags.detach}
	if err := s.git.Add(ctx, target, branch, opts); err != nil {
		return err
	}
	s.success("Created", "worktree at %s", s.errUI.Path.Render(target))

	if flags.noHooks || len(cfg.Hooks.PostCreate) == 0 {
		return nil
	}

	hookTarget := hooks.Target{Root: s.root(), Worktree: target}
	if !flags.detach {
		hookTarget.Branch = branch
	}
	runner := &hooks.Runner{Logger: s.log, DryRun: s.dryRun, Stdout: s.errOut, Stderr: s.errOut}
	if err := runner.Run(ctx, cfg.Hooks.PostCreate, hookTarget); err != nil {
		return fmt.Errorf("%w (worktree at %s was created and left in place)", err, target)
	}
	return nil
}

func checkBranch(ctx context.Context, s *session, branch string, flags *addFlags) error {
	if s.dryRun {
		// Every query answers "success" in dry-run, so the result
		// would be meaningless.
		s.log.Warn("dry-run: skipping branch check", "branch", branch)
		return nil
	}

	switch {
	case flags.create:
		exists, err := s.git.BranchExists(ctx, branch)
		if err != nil {
			return err
		}
		if exists {
			return model.NewBranchExists(branch)
		}
	case !flags.detach:
		exists, err := s.git.BranchExists(ctx, branch)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewBranchNotFound(branch)
		}
	}
	return nil
}
