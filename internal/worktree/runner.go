package worktree

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// Executor runs git. Every git invocation in bonsai goes through an
// Executor so that preview and trace behavior live in one place.
//
// Run executes `git <args...>` with dir as the working directory and
// returns stdout with trailing whitespace removed. A non-zero exit is
// reported as *model.CommandError.
type Executor interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner is the Executor backed by the git binary on PATH.
type GitRunner struct {
	// DryRun prints each command instead of running it. Run then returns
	// an empty string and no error, for reads as well as writes.
	DryRun bool

	// Verbose logs each command before it runs.
	Verbose bool

	// Logger receives the dry-run and trace lines. A nil Logger falls back
	// to the charmbracelet/log default logger.
	Logger *log.Logger

	// Binary overrides the git executable. Empty means "git".
	Binary string
}

// NewGitRunner returns a GitRunner that logs through logger.
func NewGitRunner(logger *log.Logger, dryRun, verbose bool) *GitRunner {
	return &GitRunner{DryRun: dryRun, Verbose: verbose, Logger: logger}
}

// Run implements Executor.
func (r *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	commandLine := binary + " " + strings.Join(args, " ")

	if r.DryRun {
		r.logger().Warn("dry-run", "cmd", commandLine)
		return "", nil
	}
	if r.Verbose {
		r.logger().Debug("exec", "cmd", commandLine, "dir", dir)
	}

	// #nosec G204 -- arguments are assembled by bonsai, git is not run through a shell
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrText := strings.TrimSpace(stderr.String())
		if stderrText == "" {
			// The process never started (missing binary, bad dir), so the
			// exec error is the only diagnostic there is.
			stderrText = err.Error()
		}
		return "", &model.CommandError{Command: commandLine, Stderr: stderrText, Err: err}
	}

	// Callers compare output against exact strings, so the trailing
	// newline must go.
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

func (r *GitRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
