package worktree

import (
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// MainToken is the argument that always means the main worktree.
const MainToken = "@"

// Resolve finds the worktree a user meant by token. A worktree matches
// when its branch equals token or its directory name does.
//
// The first match in listing order wins. When one worktree's branch equals
// another worktree's directory name the earlier one is returned; this is
// a known limitation and callers do not try to detect it.
func Resolve(token string, worktrees []model.Worktree) (model.Worktree, error) {
	for _, wt := range worktrees {
		if wt.Branch != nil && *wt.Branch == token {
			return wt, nil
		}
		if filepath.Base(wt.Path) == token {
			return wt, nil
		}
	}
	return model.Worktree{}, model.NewWorktreeNotFound(token)
}

// DirName converts a branch or user-supplied name to a single directory
// component: "feature/login" becomes "feature-login".
func DirName(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

// Current returns the worktree containing dir, preferring the deepest
// match so a worktree nested under the main checkout wins over the main
// worktree itself.
func Current(dir string, worktrees []model.Worktree) (model.Worktree, bool) {
	var (
		best  model.Worktree
		found bool
	)
	for _, wt := range worktrees {
		if !IsWithin(dir, wt.Path) {
			continue
		}
		if !found || len(wt.Path) > len(best.Path) {
			best, found = wt, true
		}
	}
	return best, found
}

// IsWithin reports whether path equals base or lies below it.
func IsWithin(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
