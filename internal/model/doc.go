// Package model defines the domain types and the error taxonomy of the
// bonsai CLI.
//
// This package contains pure data structures with no external dependencies.
// Worktree and StatusSummary are transient: they are rebuilt from git output
// on every command and never persisted.
//
// The package also defines CLIError, which carries an ErrorKind so callers
// can match categories with errors.Is, and CommandError, which records a
// failed git invocation together with its stderr.
package model
