// Package worktree is the git integration layer of bonsai.
//
// All git operations are performed by spawning the git binary through an
// Executor, never through a Go git library, so that bonsai behaves exactly
// like the git the user runs in their terminal and so that dry-run and
// verbose handling sit in one place. The one exception is Discover, which
// uses go-git to find the repository without spawning anything.
//
// The package provides:
//   - GitRunner, the Executor backed by os/exec
//   - ParsePorcelain and ParseStatus, pure parsers of git's porcelain output
//   - Resolve and DirName, which map user tokens to worktrees and names to
//     directories
//   - Manager, one typed method per git command bonsai issues
package worktree
