// Package hooks runs the post-create actions configured in .bonsai.toml.
//
// Hooks run in file order. The first failure stops the list; nothing that
// already happened is undone, so the new worktree and the effects of
// earlier hooks stay in place.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/bonsai/internal/config"
	"github.com/mmr-tortoise/bonsai/internal/model"
)

// Target describes the worktree the hooks run for.
type Target struct {
	// Root is the main working tree; hook sources are relative to it.
	Root string

	// Worktree is the new worktree; hook destinations are relative to it.
	Worktree string

	// Branch is empty for a detached worktree.
	Branch string
}

// Runner executes hooks.
type Runner struct {
	Logger *log.Logger

	// DryRun logs each hook instead of running it.
	DryRun bool

	// Stdout and Stderr receive the output of command hooks.
	Stdout io.Writer
	Stderr io.Writer

	// Shell runs command hooks. Empty means "sh".
	Shell string
}

// Run executes hooks in order for target.
func (r *Runner) Run(ctx context.Context, hooks []config.Hook, target Target) error {
	for i, h := range hooks {
		desc := config.Describe(h)
		if r.DryRun {
			r.logger().Warn("dry-run", "hook", desc)
			continue
		}
		r.logger().Info("hook", "n", i+1, "run", desc)

		var err error
		switch h := h.(type) {
		case config.CopyHook:
			err = r.copy(h, target)
		case config.SymlinkHook:
			err = r.symlink(h, target)
		case config.CommandHook:
			err = r.command(ctx, h, target)
		default:
			err = fmt.Errorf("unsupported hook %T", h)
		}
		if err != nil {
			return model.WrapCLIError(model.KindHookFailed, "hook failed: "+desc, err)
		}
	}
	return nil
}

// copy copies a file or directory tree. A missing source is skipped with
// a warning: files like .env are often optional.
func (r *Runner) copy(h config.CopyHook, target Target) error {
	src := resolve(target.Root, h.From)
	dst := resolve(target.Worktree, h.To)

	// Stat, not Lstat: a linked source is copied as its target's content.
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger().Warn("copy source not found, skipping", "from", src)
		return nil
	}
	if err != nil {
		return err
	}

	if info.IsDir() {
		// WalkDir does not descend through a linked root.
		if src, err = filepath.EvalSymlinks(src); err != nil {
			return err
		}
		return copyTree(src, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return copyEntry(src, dst, info)
}

// symlink links To at From. Like copy, a missing source is skipped.
func (r *Runner) symlink(h config.SymlinkHook, target Target) error {
	src := resolve(target.Root, h.From)
	dst := resolve(target.Worktree, h.To)

	if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
		r.logger().Warn("symlink source not found, skipping", "from", src)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.Symlink(src, dst)
}

func (r *Runner) command(ctx context.Context, h config.CommandHook, target Target) error {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	// #nosec G204 -- the command comes from the repository's own config file
	cmd := exec.CommandContext(ctx, shell, "-c", h.Command)
	cmd.Dir = target.Worktree
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = append(os.Environ(),
		"BONSAI_ROOT="+target.Root,
		"BONSAI_WORKTREE="+target.Worktree,
		"BONSAI_BRANCH="+target.Branch,
	)

	// Sorted so the environment is the same on every run.
	keys := make([]string, 0, len(h.Env))
	for k := range h.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Env = append(cmd.Env, k+"="+h.Env[k])
	}

	return cmd.Run()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
