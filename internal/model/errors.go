package model

import (
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the CLI can report.
// The kind decides how callers match an error with errors.Is; the exit
// status is 1 for all of them.
type ErrorKind int

const (
	// KindGeneral is used for failures that fit no other category.
	KindGeneral ErrorKind = iota

	// KindNotRepository means no git repository encloses the working directory.
	KindNotRepository

	// KindNotInitialized means .bonsai.toml is missing at the repository root.
	KindNotInitialized

	// KindAlreadyInitialized means `init` found an existing config without --force.
	KindAlreadyInitialized

	// KindWorktreeExists means the target directory of `add` is already on disk.
	KindWorktreeExists

	// KindWorktreeNotFound means no worktree matched the user's token.
	KindWorktreeNotFound

	// KindBranchNotFound means the named branch does not exist, or the
	// worktree has no branch at all (detached HEAD).
	KindBranchNotFound

	// KindBranchExists means a branch that should be created already exists.
	KindBranchExists

	// KindDirtyWorktree means the worktree has uncommitted changes.
	KindDirtyWorktree

	// KindCommandFailed means an external git command exited non-zero.
	KindCommandFailed

	// KindConfig means the config file could not be parsed or is invalid.
	KindConfig

	// KindHookFailed means a post-create hook failed.
	KindHookFailed

	// KindIO wraps filesystem failures.
	KindIO

	// KindMainWorktree means an operation refused to touch the main worktree.
	KindMainWorktree
)

// String returns a short identifier for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNotRepository:
		return "not-a-repository"
	case KindNotInitialized:
		return "not-initialized"
	case KindAlreadyInitialized:
		return "already-initialized"
	case KindWorktreeExists:
		return "worktree-exists"
	case KindWorktreeNotFound:
		return "worktree-not-found"
	case KindBranchNotFound:
		return "branch-not-found"
	case KindBranchExists:
		return "branch-exists"
	case KindDirtyWorktree:
		return "dirty-worktree"
	case KindCommandFailed:
		return "command-failed"
	case KindConfig:
		return "config-error"
	case KindHookFailed:
		return "hook-failed"
	case KindIO:
		return "io-error"
	case KindMainWorktree:
		return "main-worktree"
	default:
		return "error"
	}
}

// Sentinels for errors.Is. They compare by kind, so
// errors.Is(NewWorktreeNotFound("x"), ErrWorktreeNotFound) is true.
var (
	ErrNotRepository      = &CLIError{Kind: KindNotRepository, Message: "not in a git repository"}
	ErrNotInitialized     = &CLIError{Kind: KindNotInitialized, Message: "bonsai is not initialized (run `bonsai init` first)"}
	ErrAlreadyInitialized = &CLIError{Kind: KindAlreadyInitialized, Message: "already initialized (use --force to reinitialize)"}
	ErrWorktreeExists     = &CLIError{Kind: KindWorktreeExists, Message: "worktree already exists"}
	ErrWorktreeNotFound   = &CLIError{Kind: KindWorktreeNotFound, Message: "worktree not found"}
	ErrBranchNotFound     = &CLIError{Kind: KindBranchNotFound, Message: "branch not found"}
	ErrBranchExists       = &CLIError{Kind: KindBranchExists, Message: "branch already exists"}
	ErrDirtyWorktree      = &CLIError{Kind: KindDirtyWorktree, Message: "worktree has uncommitted changes"}
	ErrCommandFailed      = &CLIError{Kind: KindCommandFailed, Message: "git command failed"}
	ErrConfig             = &CLIError{Kind: KindConfig, Message: "config error"}
	ErrHookFailed         = &CLIError{Kind: KindHookFailed, Message: "hook failed"}
	ErrIO                 = &CLIError{Kind: KindIO, Message: "io error"}
	ErrMainWorktree       = &CLIError{Kind: KindMainWorktree, Message: "cannot modify the main worktree"}
)

// CLIError is the error type returned by every operation of the CLI.
// It carries a kind for matching and a message for the user.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error when present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Is matches any *CLIError of the same kind, which lets the package-level
// sentinels stand in for every error of their category.
func (e *CLIError) Is(target error) bool {
	t, ok := target.(*CLIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewCLIError creates a CLIError of the given kind.
func NewCLIError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Kind: kind, Message: message}
}

// WrapCLIError creates a CLIError of the given kind wrapping err.
func WrapCLIError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Message: message, Err: err}
}

// NewWorktreeExists reports that a worktree or directory already occupies path.
func NewWorktreeExists(path string) *CLIError {
	return NewCLIError(KindWorktreeExists, fmt.Sprintf("worktree '%s' already exists", path))
}

// NewWorktreeNotFound reports that no worktree matches name.
func NewWorktreeNotFound(name string) *CLIError {
	return NewCLIError(KindWorktreeNotFound, fmt.Sprintf("worktree '%s' not found", name))
}

// NewBranchNotFound reports that the local branch name does not exist.
func NewBranchNotFound(name string) *CLIError {
	return NewCLIError(KindBranchNotFound, fmt.Sprintf("branch '%s' not found", name))
}

// NewBranchExists reports that the local branch name is already taken.
func NewBranchExists(name string) *CLIError {
	return NewCLIError(KindBranchExists, fmt.Sprintf("branch '%s' already exists", name))
}

// NewDirtyWorktree reports local changes that block removing the worktree at path.
func NewDirtyWorktree(path string) *CLIError {
	return NewCLIError(KindDirtyWorktree,
		fmt.Sprintf("worktree '%s' has uncommitted changes (use --force to override)", path))
}

// NewMainWorktree reports a refusal to apply verb to the main worktree.
func NewMainWorktree(verb string) *CLIError {
	return NewCLIError(KindMainWorktree, fmt.Sprintf("cannot %s main worktree", verb))
}

// CommandError records a failed external command. The message always
// contains the literal command line and the trimmed stderr, which is
// usually the most useful part of the report.
type CommandError struct {
	// Command is the full command line, e.g. "git worktree add /tmp/x feat".
	Command string

	// Stderr is the trimmed standard error of the process, or the spawn
	// error text when the process could not be started.
	Stderr string

	// Err is the error returned by os/exec.
	Err error
}

// Error renders "git command failed: <command>" with stderr on the next line.
func (e *CommandError) Error() string {
	msg := "git command failed: " + e.Command
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

// Unwrap returns the exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCommandFailed) match command failures.
func (e *CommandError) Is(target error) bool {
	t, ok := target.(*CLIError)
	return ok && t.Kind == KindCommandFailed
}
