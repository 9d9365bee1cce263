package model

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DetachedLabel is shown wherever a branch name is expected but the
// worktree has a detached HEAD.
const DetachedLabel = "(detached)"

// Worktree is one entry of `git worktree list --porcelain`.
//
// Records are rebuilt from git output on every listing and are never
// mutated after parsing. Path is the identity of a worktree: git refuses
// to register two worktrees at the same location.
type Worktree struct {
	// Path is the absolute filesystem path of the worktree directory.
	Path string `json:"path" yaml:"path"`

	// Head is the commit id the worktree currently points to.
	Head string `json:"head" yaml:"head"`

	// Branch is the short branch name ("feature/x", not "refs/heads/feature/x").
	// Nil when HEAD is detached. It is never the empty string.
	Branch *string `json:"branch" yaml:"branch"`

	// IsBare is set for the bare repository entry of a bare clone.
	IsBare bool `json:"bare" yaml:"bare"`

	// IsMain marks the first entry of the listing, which git always
	// reports as the main working tree.
	IsMain bool `json:"main" yaml:"main"`

	// IsLocked reports whether `git worktree lock` was applied.
	IsLocked bool `json:"locked" yaml:"locked"`

	// LockReason is only present when the lock carries a reason.
	LockReason *string `json:"lockReason,omitempty" yaml:"lockReason,omitempty"`

	// IsPrunable reports that git considers the administrative entry stale
	// (for example, the directory was deleted by hand).
	IsPrunable bool `json:"prunable" yaml:"prunable"`
}

// BranchName returns the branch or DetachedLabel.
func (w Worktree) BranchName() string {
	if w.Branch == nil {
		return DetachedLabel
	}
	return *w.Branch
}

// HasBranch reports whether the worktree has a branch checked out.
func (w Worktree) HasBranch() bool {
	return w.Branch != nil
}

// Name returns the final path component, which is the directory name a
// user can type to refer to the worktree.
func (w Worktree) Name() string {
	return filepath.Base(w.Path)
}

// ShortHead returns the first eight characters of the commit id.
func (w Worktree) ShortHead() string {
	if len(w.Head) > 8 {
		return w.Head[:8]
	}
	return w.Head
}

// StatusSummary is the decoded form of
// `git status --porcelain=v2 --branch` for one worktree.
type StatusSummary struct {
	Modified  int `json:"modified" yaml:"modified"`
	Added     int `json:"added" yaml:"added"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Untracked int `json:"untracked" yaml:"untracked"`

	// Ahead and Behind count commits relative to the upstream branch.
	// Both stay zero when no upstream is configured.
	Ahead  int `json:"ahead" yaml:"ahead"`
	Behind int `json:"behind" yaml:"behind"`
}

// IsClean reports whether the working tree has no local changes.
// Commits ahead of or behind the upstream do not make a worktree dirty.
func (s StatusSummary) IsClean() bool {
	return s.Modified == 0 && s.Added == 0 && s.Deleted == 0 && s.Untracked == 0
}

// ShortDisplay renders the summary for one table cell, e.g. "2M 1? ⇡3".
// A clean worktree that is in sync with its upstream renders as "clean".
func (s StatusSummary) ShortDisplay() string {
	if s.IsClean() && s.Ahead == 0 && s.Behind == 0 {
		return "clean"
	}

	counters := []struct {
		n      int
		prefix string
		suffix string
	}{
		{s.Modified, "", "M"},
		{s.Added, "", "A"},
		{s.Deleted, "", "D"},
		{s.Untracked, "", "?"},
		{s.Ahead, "⇡", ""},
		{s.Behind, "⇣", ""},
	}

	var parts []string
	for _, c := range counters {
		if c.n > 0 {
			parts = append(parts, c.prefix+strconv.Itoa(c.n)+c.suffix)
		}
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, " ")
}
