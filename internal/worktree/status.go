package worktree

import (
	"strconv"
	"strings"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// ParseStatus decodes `git status --porcelain=v2 --branch` output.
//
// Only three kinds of lines matter:
//
//	# branch.ab +3 -1          ahead/behind the upstream
//	1 .M N... 100644 ...       ordinary change, XY is the second field
//	2 R. N... 100644 ...       rename or copy, same XY layout
//	? path                     untracked file
//
// Unmerged ("u") and ignored ("!") entries are not counted.
func ParseStatus(output string) model.StatusSummary {
	var s model.StatusSummary

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		switch {
		case strings.HasPrefix(line, "# branch.ab "):
			fields := strings.Fields(strings.TrimPrefix(line, "# branch.ab "))
			if len(fields) >= 2 {
				s.Ahead = parseCount(fields[0], "+")
				s.Behind = parseCount(fields[1], "-")
			}

		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "):
			fields := strings.Fields(line)
			if len(fields) < 2 || len(fields[1]) < 2 {
				continue
			}
			// X is the staged state, Y the unstaged one. They are counted
			// independently, so "AM" is one added and one modified.
			switch fields[1][0] {
			case 'A':
				s.Added++
			case 'D':
				s.Deleted++
			case 'M', 'R', 'C':
				s.Modified++
			}
			switch fields[1][1] {
			case 'M':
				s.Modified++
			case 'D':
				s.Deleted++
			}

		case strings.HasPrefix(line, "? "):
			s.Untracked++
		}
	}

	return s
}

// parseCount parses "+3" or "-1". Anything unparseable counts as zero.
func parseCount(field, sign string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(field, sign))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
