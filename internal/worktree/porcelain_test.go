package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePorcelain covers a realistic listing with every marker git emits.
func TestParsePorcelain(t *testing.T) {
	output := `worktree /repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /repo/.bonsai/feature-x
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature/x
locked moving to external disk

worktree /repo/.bonsai/detached
HEAD 3333333333333333333333333333333333333333
detached
locked

worktree /tmp/gone
HEAD 4444444444444444444444444444444444444444
branch refs/remotes/origin/gone
prunable gitdir file points to non-existent location
`

	worktrees := ParsePorcelain(output)
	require.Len(t, worktrees, 4)

	main := worktrees[0]
	assert.Equal(t, "/repo", main.Path)
	assert.Equal(t, "1111111111111111111111111111111111111111", main.Head)
	require.NotNil(t, main.Branch)
	assert.Equal(t, "main", *main.Branch)
	assert.True(t, main.IsMain)
	assert.False(t, main.IsLocked)

	feature := worktrees[1]
	assert.False(t, feature.IsMain)
	require.NotNil(t, feature.Branch)
	assert.Equal(t, "feature/x", *feature.Branch)
	assert.True(t, feature.IsLocked)
	require.NotNil(t, feature.LockReason)
	assert.Equal(t, "moving to external disk", *feature.LockReason)

	detached := worktrees[2]
	assert.Nil(t, detached.Branch, "a block without a branch line is detached")
	assert.True(t, detached.IsLocked)
	assert.Nil(t, detached.LockReason, "bare `locked` has no reason")

	gone := worktrees[3]
	require.NotNil(t, gone.Branch)
	assert.Equal(t, "refs/remotes/origin/gone", *gone.Branch, "non-local refs keep their prefix")
	assert.True(t, gone.IsPrunable)
}

// TestParsePorcelainOnlyFirstIsMain checks the main flag across inputs of
// different sizes.
func TestParsePorcelainOnlyFirstIsMain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"single", "worktree /a\nHEAD 1\nbranch refs/heads/main\n", 1},
		{"two", "worktree /a\nHEAD 1\n\nworktree /b\nHEAD 2\n", 2},
		{"three with extra blank lines", "worktree /a\n\n\nworktree /b\n\nworktree /c\n\n", 3},
		{"crlf", "worktree /a\r\nHEAD 1\r\n\r\nworktree /b\r\nHEAD 2\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worktrees := ParsePorcelain(tt.input)
			require.Len(t, worktrees, tt.count)
			for i, wt := range worktrees {
				assert.Equal(t, i == 0, wt.IsMain, "entry %d", i)
			}
		})
	}
}

func TestParsePorcelainBare(t *testing.T) {
	worktrees := ParsePorcelain("worktree /repo.git\nbare\n")
	require.Len(t, worktrees, 1)
	assert.True(t, worktrees[0].IsBare)
	assert.True(t, worktrees[0].IsMain)
	assert.Nil(t, worktrees[0].Branch)
}

// TestParsePorcelainIgnoresUnknownLines keeps the parser working when git
// adds new keywords.
func TestParsePorcelainIgnoresUnknownLines(t *testing.T) {
	output := "worktree /repo\nHEAD abc\nfuture-keyword some value\nbranch refs/heads/main\n"

	worktrees := ParsePorcelain(output)
	require.Len(t, worktrees, 1)
	assert.Equal(t, "main", worktrees[0].BranchName())
	assert.Equal(t, "abc", worktrees[0].Head)
}

func TestParsePorcelainEmpty(t *testing.T) {
	assert.Empty(t, ParsePorcelain(""))
	assert.Empty(t, ParsePorcelain("\n\n"))
}
