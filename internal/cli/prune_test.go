package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

func commitIn(t *testing.T, dir, file string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(file), 0644))
	runTestGit(t, dir, "add", file)
	runTestGit(t, dir, "commit", "-m", "add "+file)
}

func TestPrune_Merged(t *testing.T) {
	repo := initRepo(t, "feature/done", "feature/wip")
	commitIn(t, filepath.Join(repo, ".bonsai", "feature-wip"), "wip.txt")

	res := mustRun(t, repo, "prune", "--merged", "-y", "--with-branch")

	assert.Contains(t, res.stderr, "Worktrees to remove:")
	assert.Contains(t, res.stderr, "  - feature/done (")
	assert.NotContains(t, res.stderr, "feature/wip (")
	assert.Contains(t, res.stderr, "Deleted branch feature/done")

	assert.NoDirExists(t, filepath.Join(repo, ".bonsai", "feature-done"))
	assert.DirExists(t, filepath.Join(repo, ".bonsai", "feature-wip"))
	assert.NotContains(t, runTestGit(t, repo, "branch", "--list"), "feature/done")

	res = mustRun(t, repo, "list", "--names-only")
	assert.Equal(t, []string{"main", "feature/wip"}, lines(res.stdout))
}

func TestPrune_MergedIntoExplicitBase(t *testing.T) {
	repo := initRepo(t, "feature/a")
	runTestGit(t, repo, "branch", "develop")
	commitIn(t, filepath.Join(repo, ".bonsai", "feature-a"), "a.txt")
	runTestGit(t, repo, "branch", "-f", "develop", "feature/a")

	res := mustRun(t, repo, "prune", "--merged", "-y")
	assert.Contains(t, res.stderr, "Nothing to prune.")

	mustRun(t, repo, "prune", "--merged=develop", "-y")
	assert.NoDirExists(t, filepath.Join(repo, ".bonsai", "feature-a"))
}

func TestPrune_BranchNamedAuto(t *testing.T) {
	repo := initRepo(t, "feature/a")
	commitIn(t, filepath.Join(repo, ".bonsai", "feature-a"), "a.txt")
	runTestGit(t, repo, "branch", "auto", "feature/a")

	res := mustRun(t, repo, "prune", "--merged", "-y")
	assert.Contains(t, res.stderr, "Nothing to prune.")

	mustRun(t, repo, "prune", "--merged=auto", "-y")
	assert.NoDirExists(t, filepath.Join(repo, ".bonsai", "feature-a"))
}

func TestPrune_PositionalBase(t *testing.T) {
	repo := initRepo(t, "feature/a")

	res := runBonsai(t, repo, "", "prune", "main")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "requires --merged")

	mustRun(t, repo, "prune", "--merged", "main", "-y")
	assert.NoDirExists(t, filepath.Join(repo, ".bonsai", "feature-a"))
}

func TestPrune_SkipsLocked(t *testing.T) {
	repo := initRepo(t, "feature/kept")
	mustRun(t, repo, "lock", "feature/kept")

	res := mustRun(t, repo, "prune", "--merged", "-y")

	assert.Contains(t, res.stderr, "Nothing to prune.")
	assert.DirExists(t, filepath.Join(repo, ".bonsai", "feature-kept"))
}

func TestPrune_Confirmation(t *testing.T) {
	repo := initRepo(t, "feature/done")
	wtPath := filepath.Join(repo, ".bonsai", "feature-done")

	res := runBonsai(t, repo, "n\n", "prune", "--merged")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Proceed? [y/N]")
	assert.Contains(t, res.stderr, "Aborted.")
	assert.DirExists(t, wtPath)

	res = runBonsai(t, repo, "", "prune", "--merged")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Aborted.", "end of input means no")
	assert.DirExists(t, wtPath)

	res = runBonsai(t, repo, "YES\n", "prune", "--merged")
	require.NoError(t, res.err)
	assert.NoDirExists(t, wtPath)
}

func TestPrune_Plain(t *testing.T) {
	repo := initRepo(t, "feature/gone")
	wtPath := filepath.Join(repo, ".bonsai", "feature-gone")
	require.NoError(t, os.RemoveAll(wtPath))

	res := mustRun(t, repo, "prune")

	assert.Contains(t, res.stderr, "Nothing to prune.")
	res = mustRun(t, repo, "list", "--names-only")
	assert.Equal(t, []string{"main"}, lines(res.stdout))
}

func TestPrune_InteractiveNeedsTerminal(t *testing.T) {
	repo := initRepo(t, "feature/done")

	res := runBonsai(t, repo, "", "prune", "--merged", "--interactive")

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "requires a terminal")
	assert.DirExists(t, filepath.Join(repo, ".bonsai", "feature-done"))
}

func TestPrune_Stale(t *testing.T) {
	root := t.TempDir()
	oldPath := filepath.Join(root, ".bonsai", "old")
	freshPath := filepath.Join(root, ".bonsai", "fresh")
	lockedPath := filepath.Join(root, ".bonsai", "locked")

	listing := strings.Join([]string{
		"worktree " + root, "HEAD 1111111111111111111111111111111111111111", "branch refs/heads/main", "",
		"worktree " + oldPath, "HEAD 2222222222222222222222222222222222222222", "branch refs/heads/old", "",
		"worktree " + freshPath, "HEAD 3333333333333333333333333333333333333333", "branch refs/heads/fresh", "",
		"worktree " + lockedPath, "HEAD 4444444444444444444444444444444444444444", "branch refs/heads/locked", "locked", "",
	}, "\n")

	now := time.Now()
	commitTimes := map[string]time.Time{
		root:       now.AddDate(0, 0, -90),
		oldPath:    now.AddDate(0, 0, -45),
		freshPath:  now.AddDate(0, 0, -2),
		lockedPath: now.AddDate(0, 0, -90),
	}

	fake := &fakeExecutor{respond: func(args []string) (string, error) {
		switch {
		case args[0] == "worktree" && args[1] == "list":
			return listing, nil
		case args[0] == "-C" && args[2] == "log":
			when, ok := commitTimes[args[1]]
			if !ok {
				return "", fmt.Errorf("unexpected path %s", args[1])
			}
			return strconv.FormatInt(when.Unix(), 10), nil
		}
		return "", nil
	}}
	s, _, stderr := newFakeSession(t, root, fake, "")

	err := runPrune(context.Background(), s, &pruneFlags{staleDays: 30, yes: true})
	require.NoError(t, err)

	assert.True(t, fake.ran("worktree", "prune"))
	assert.True(t, fake.ran("worktree", "remove", oldPath))
	assert.False(t, fake.ran("worktree", "remove", freshPath))
	assert.False(t, fake.ran("worktree", "remove", lockedPath))
	assert.False(t, fake.ran("worktree", "remove", root))
	assert.False(t, fake.ran("branch", "-d"))
	assert.Contains(t, stderr.String(), "Removed worktree at "+oldPath)
}

func TestPrune_BranchDeleteFailureContinues(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, ".bonsai", "a")
	second := filepath.Join(root, ".bonsai", "b")
	listing := strings.Join([]string{
		"worktree " + root, "HEAD 1111111111111111111111111111111111111111", "branch refs/heads/main", "",
		"worktree " + first, "HEAD 2222222222222222222222222222222222222222", "branch refs/heads/a", "",
		"worktree " + second, "HEAD 3333333333333333333333333333333333333333", "branch refs/heads/b", "",
	}, "\n")

	fake := &fakeExecutor{respond: func(args []string) (string, error) {
		switch {
		case args[0] == "worktree" && args[1] == "list":
			return listing, nil
		case args[0] == "branch" && args[1] == "--merged":
			return "main\na\nb", nil
		case args[0] == "branch" && args[1] == "-d" && args[2] == "a":
			return "", &model.CommandError{Command: "git branch -d a", Stderr: "error: not fully merged"}
		}
		return "", nil
	}}
	s, _, stderr := newFakeSession(t, root, fake, "")

	err := runPrune(context.Background(), s, &pruneFlags{merged: "main", withBranch: true, yes: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCommandFailed)
	assert.Contains(t, err.Error(), "delete branch 'a'")
	assert.True(t, fake.ran("worktree", "remove", second))
	assert.True(t, fake.ran("branch", "-d", "b"))
	assert.Contains(t, stderr.String(), "Deleted branch b")
}

func TestPrune_AutoBaseFallsBackToMaster(t *testing.T) {
	root := t.TempDir()
	fake := &fakeExecutor{respond: func(args []string) (string, error) {
		switch {
		case args[0] == "worktree" && args[1] == "list":
			return "worktree " + root + "\nHEAD 1111111111111111111111111111111111111111\nbranch refs/heads/master\n", nil
		case args[0] == "rev-parse":
			return "", &model.CommandError{Command: "git rev-parse", Err: exitError{code: 1}}
		}
		return "", nil
	}}
	s, _, _ := newFakeSession(t, root, fake, "")

	require.NoError(t, runPrune(context.Background(), s, &pruneFlags{merged: autoBase, yes: true}))

	assert.True(t, fake.ran("branch", "--merged", "master"))
}
