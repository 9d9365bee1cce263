package worktree

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// Manager runs worktree and branch commands against one repository.
//
// Commands that act on the repository as a whole run with the main root
// as working directory. Per-worktree queries (status, last commit) pass
// `-C <path>` so they see that worktree's HEAD and index.
type Manager struct {
	exec Executor
	root string
}

// NewManager creates a Manager for the repository whose main working
// tree is root.
func NewManager(exec Executor, root string) *Manager {
	return &Manager{exec: exec, root: root}
}

// Root returns the main working tree path.
func (m *Manager) Root() string {
	return m.root
}

// List returns all worktrees, main first.
func (m *Manager) List(ctx context.Context) ([]model.Worktree, error) {
	output, err := m.git(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParsePorcelain(output), nil
}

// AddOptions selects the form of `git worktree add`.
type AddOptions struct {
	// CreateBranch creates Branch with -b, starting from Base.
	CreateBranch bool

	// Base is the start point for a new branch, or the commit to check
	// out with Detach. Empty means HEAD.
	Base string

	// Detach checks out Base (or Branch when Base is empty) without a branch.
	Detach bool
}

// Add runs one of
//
//	git worktree add -b <branch> <path> [<base>]
//	git worktree add --detach <path> <ref>
//	git worktree add <path> <branch>
//
// depending on opts. Preconditions (path free, branch present or absent)
// are checked by the caller before calling Add.
func (m *Manager) Add(ctx context.Context, path, branch string, opts AddOptions) error {
	args := []string{"worktree", "add"}
	switch {
	case opts.CreateBranch:
		args = append(args, "-b", branch, path)
		if opts.Base != "" {
			args = append(args, opts.Base)
		}
	case opts.Detach:
		ref := opts.Base
		if ref == "" {
			ref = branch
		}
		args = append(args, "--detach", path)
		if ref != "" {
			args = append(args, ref)
		}
	default:
		args = append(args, path, branch)
	}

	_, err := m.git(ctx, args...)
	return err
}

// Remove runs `git worktree remove [--force] <path>`. Without force, git
// itself refuses to remove a worktree with local modifications.
func (m *Manager) Remove(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := m.git(ctx, args...)
	return err
}

// Move runs `git worktree move <from> <to>`.
func (m *Manager) Move(ctx context.Context, from, to string) error {
	_, err := m.git(ctx, "worktree", "move", from, to)
	return err
}

// Lock runs `git worktree lock [--reason <reason>] <path>`.
func (m *Manager) Lock(ctx context.Context, path, reason string) error {
	args := []string{"worktree", "lock"}
	if reason != "" {
		args = append(args, "--reason", reason)
	}
	args = append(args, path)

	_, err := m.git(ctx, args...)
	return err
}

// Unlock runs `git worktree unlock <path>`.
func (m *Manager) Unlock(ctx context.Context, path string) error {
	_, err := m.git(ctx, "worktree", "unlock", path)
	return err
}

// Prune runs `git worktree prune`, dropping administrative entries whose
// directories no longer exist.
func (m *Manager) Prune(ctx context.Context) error {
	_, err := m.git(ctx, "worktree", "prune")
	return err
}

// BranchExists reports whether refs/heads/<branch> exists.
//
// The fully qualified ref keeps a tag or remote branch with the same
// short name from being mistaken for a local branch. A failing rev-parse
// is the normal "does not exist" answer, not an error; only failures of
// another kind (git missing, not a repository) are returned.
func (m *Manager) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := m.git(ctx, "rev-parse", "--verify", "--quiet", headsPrefix+branch)
	if err == nil {
		return true, nil
	}

	var cmdErr *model.CommandError
	if errors.As(err, &cmdErr) && isMissingRef(cmdErr) {
		return false, nil
	}
	return false, err
}

// isMissingRef distinguishes "ref not found" from a broken invocation.
// With --quiet git prints nothing for a missing ref and exits 1.
func isMissingRef(err *model.CommandError) bool {
	var exitErr interface{ ExitCode() int }
	if errors.As(err.Err, &exitErr) {
		return exitErr.ExitCode() == 1
	}
	return false
}

// DeleteBranch runs `git branch -d <branch>`, or -D when force is set.
func (m *Manager) DeleteBranch(ctx context.Context, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := m.git(ctx, "branch", flag, branch)
	return err
}

// RenameBranch runs `git branch -m <from> <to>`.
func (m *Manager) RenameBranch(ctx context.Context, from, to string) error {
	_, err := m.git(ctx, "branch", "-m", from, to)
	return err
}

// MergedBranches lists local branches merged into base.
//
// The %(refname:short) format prints bare names. The default format
// prefixes the current branch with "* " and branches checked out in other
// worktrees with "+ ", which would never match a worktree's branch.
func (m *Manager) MergedBranches(ctx context.Context, base string) (map[string]bool, error) {
	output, err := m.git(ctx, "branch", "--merged", base, "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}

	merged := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			merged[name] = true
		}
	}
	return merged, nil
}

// Status summarizes local changes in the worktree at path.
func (m *Manager) Status(ctx context.Context, path string) (model.StatusSummary, error) {
	output, err := m.git(ctx, "-C", path, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return model.StatusSummary{}, err
	}
	return ParseStatus(output), nil
}

// LastCommit returns the relative committer date of HEAD in path,
// e.g. "3 days ago".
func (m *Manager) LastCommit(ctx context.Context, path string) (string, error) {
	return m.git(ctx, "-C", path, "log", "-1", "--format=%cr")
}

// LastCommitTime returns the committer date of HEAD in path.
func (m *Manager) LastCommitTime(ctx context.Context, path string) (time.Time, error) {
	output, err := m.git(ctx, "-C", path, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, err
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return time.Time{}, model.WrapCLIError(model.KindCommandFailed, "unexpected git log output "+strconv.Quote(output), err)
	}
	return time.Unix(secs, 0), nil
}

func (m *Manager) git(ctx context.Context, args ...string) (string, error) {
	return m.exec.Run(ctx, m.root, args...)
}
