package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/config"
	"github.com/mmr-tortoise/bonsai/internal/model"
	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// session is everything one command invocation works with: the
// repository, the git manager, and the I/O streams. It is built fresh for
// every command and holds no state across invocations.
type session struct {
	repo worktree.Repo
	cwd  string
	git  *worktree.Manager
	log  *log.Logger

	in     io.Reader
	out    io.Writer // data: paths, tables, JSON
	errOut io.Writer // messages and prompts

	outUI *styles
	errUI *styles

	dryRun bool
}

// newSession discovers the repository around the working directory and
// wires the git runner with the global flags.
func newSession(cmd *cobra.Command) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.KindIO, "failed to get working directory", err)
	}
	if resolved, err := filepath.EvalSymlinks(cwd); err == nil {
		cwd = resolved
	}

	repo, err := worktree.Discover(cwd)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr())
	runner := worktree.NewGitRunner(logger, dryRun, verbose)

	s := newSessionWith(cmd, repo, runner, logger)
	s.cwd = cwd
	return s, nil
}

// newSessionWith assembles a session around an existing Executor.
func newSessionWith(cmd *cobra.Command, repo worktree.Repo, exec worktree.Executor, logger *log.Logger) *session {
	return &session{
		repo:   repo,
		cwd:    repo.TopLevel,
		git:    worktree.NewManager(exec, repo.MainRoot),
		log:    logger,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		outUI:  newStyles(cmd.OutOrStdout()),
		errUI:  newStyles(cmd.ErrOrStderr()),
		dryRun: dryRun,
	}
}

// root is the main working tree, against which config and the managed
// worktree directory are resolved.
func (s *session) root() string {
	return s.repo.MainRoot
}

// resolve lists the worktrees and finds the one token names.
//
// In dry-run mode git is never run, so the listing is empty. The target
// is then predicted from the managed directory so the preview still shows
// the commands that would run.
func (s *session) resolve(ctx context.Context, token string) (model.Worktree, error) {
	worktrees, err := s.git.List(ctx)
	if err != nil {
		return model.Worktree{}, err
	}

	wt, err := worktree.Resolve(token, worktrees)
	if err != nil && s.dryRun && len(worktrees) == 0 {
		return s.predict(token), nil
	}
	return wt, err
}

// loadConfig reads .bonsai.toml of the main worktree.
func (s *session) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.root())
	if err != nil {
		return nil, err
	}
	if !cfg.KnownVersion() {
		s.log.Debug("unknown config version, reading known fields", "version", cfg.Version, "supported", config.CurrentVersion)
	}
	return cfg, nil
}

func (s *session) predict(token string) model.Worktree {
	cfg, err := s.loadConfig()
	if err != nil {
		cfg = config.Default()
	}
	branch := token
	wt := model.Worktree{
		Path:   filepath.Join(cfg.ManagedDir(s.root()), worktree.DirName(token)),
		Branch: &branch,
	}
	s.log.Warn("dry-run: assuming worktree location", "path", wt.Path)
	return wt
}

// absPath makes a user-supplied path absolute against the working directory.
func (s *session) absPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.cwd, p)
}

// displayPath shows non-main worktrees relative to the repository root.
func (s *session) displayPath(wt model.Worktree) string {
	if wt.IsMain {
		return wt.Path
	}
	if rel, err := filepath.Rel(s.root(), wt.Path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return wt.Path
}

// success prints "<Verb> <rest>" to the message stream with a styled verb.
func (s *session) success(verb, format string, args ...any) {
	fmt.Fprintf(s.errOut, "%s %s\n", s.errUI.Success.Render(verb), fmt.Sprintf(format, args...))
}

// note prints a dimmed informational line to the message stream.
func (s *session) note(msg string) {
	fmt.Fprintln(s.errOut, s.errUI.Faint.Render(msg))
}

// confirm asks a yes/no question and reads one line from the input
// stream. Only "y" and "yes" (any case) count as yes; end of input is no.
func (s *session) confirm(question string) (bool, error) {
	fmt.Fprintf(s.errOut, "%s [y/N] ", question)

	scanner := bufio.NewScanner(s.in)
	if scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}
	if err := scanner.Err(); err != nil {
		return false, model.WrapCLIError(model.KindIO, "failed to read answer", err)
	}
	return false, nil
}
