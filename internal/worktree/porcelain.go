package worktree

import (
	"strings"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

const headsPrefix = "refs/heads/"

// ParsePorcelain parses the output of `git worktree list --porcelain`.
//
// Blocks are separated by blank lines. Within a block, each line is a
// keyword optionally followed by a space and a value:
//
//	worktree /path/to/main
//	HEAD abc123
//	branch refs/heads/main
//
//	worktree /path/to/feature
//	HEAD def456
//	detached
//	locked moving to external disk
//
// The first block is always the main worktree. Unknown keywords are
// ignored so newer git versions do not break the parser.
func ParsePorcelain(output string) []model.Worktree {
	output = strings.ReplaceAll(output, "\r\n", "\n")

	var worktrees []model.Worktree
	for _, block := range strings.Split(output, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		wt := parseBlock(block)
		wt.IsMain = len(worktrees) == 0
		worktrees = append(worktrees, wt)
	}
	return worktrees
}

func parseBlock(block string) model.Worktree {
	var wt model.Worktree
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}

		key, value, hasValue := strings.Cut(line, " ")
		switch key {
		case "worktree":
			wt.Path = value
		case "HEAD":
			wt.Head = value
		case "branch":
			// Only local branches lose their prefix; anything else is kept
			// verbatim so it is still recognizable.
			branch := strings.TrimPrefix(value, headsPrefix)
			if branch != "" {
				wt.Branch = &branch
			}
		case "bare":
			wt.IsBare = true
		case "locked":
			wt.IsLocked = true
			if hasValue && value != "" {
				reason := value
				wt.LockReason = &reason
			}
		case "prunable":
			wt.IsPrunable = true
		}
	}
	return wt
}
