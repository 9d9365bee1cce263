package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// setupTestRepo creates a repository on branch "main" with one commit and
// returns its symlink-free path.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs git in dir and fails the test on a non-zero exit.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// chdir changes the working directory to dir for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()

	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("chdir: restoring working directory: " + err.Error())
		}
	})
}

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// runBonsai runs the full command tree in dir with stdin as input.
func runBonsai(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	chdir(t, dir)
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(resetGlobals)

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun is runBonsai that fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) result {
	t.Helper()
	res := runBonsai(t, dir, "", args...)
	require.NoError(t, res.err, "bonsai %v\nstderr: %s", args, res.stderr)
	return res
}

func resetGlobals() {
	dryRun, verbose, noColor = false, false, false
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// fakeExecutor records every git invocation and answers from respond.
// A nil respond answers every command with empty output.
type fakeExecutor struct {
	calls   [][]string
	respond func(args []string) (string, error)
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if f.respond == nil {
		return "", nil
	}
	return f.respond(args)
}

// ran reports whether any recorded call starts with prefix.
func (f *fakeExecutor) ran(prefix ...string) bool {
	for _, call := range f.calls {
		if len(call) < len(prefix) {
			continue
		}
		match := true
		for i := range prefix {
			if call[i] != prefix[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// exitError satisfies the ExitCode interface os/exec errors have.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

// newFakeSession builds a session on root whose git calls go to exec.
func newFakeSession(t *testing.T, root string, exec worktree.Executor, stdin string) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	resetGlobals()

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	logger := log.NewWithOptions(&stderr, log.Options{})
	repo := worktree.Repo{TopLevel: root, MainRoot: root}
	return newSessionWith(cmd, repo, exec, logger), &stdout, &stderr
}
