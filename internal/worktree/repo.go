package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// Repo describes where the current directory sits inside a repository.
type Repo struct {
	// TopLevel is the root of the working tree containing the start
	// directory. For a linked worktree this is the worktree, not the
	// main checkout.
	TopLevel string

	// MainRoot is the root of the main working tree. Config and the
	// managed worktree directory are always resolved against it.
	MainRoot string
}

// IsLinked reports whether the start directory is inside a linked worktree.
func (r Repo) IsLinked() bool {
	return r.TopLevel != r.MainRoot
}

// Discover locates the repository enclosing dir.
//
// The lookup is done with go-git rather than `git rev-parse`, so it
// spawns no process and works the same in dry-run mode, where the
// Executor never runs anything.
func Discover(dir string) (Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return Repo{}, model.WrapCLIError(model.KindNotRepository, "not in a git repository", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// go-git returns ErrIsBareRepository here.
		return Repo{}, model.WrapCLIError(model.KindNotRepository, "not in a git repository with a working tree", err)
	}

	topLevel := canonical(wt.Filesystem.Root())
	mainRoot, err := mainRootOf(topLevel)
	if err != nil {
		return Repo{}, err
	}

	return Repo{TopLevel: topLevel, MainRoot: mainRoot}, nil
}

// mainRootOf follows the .git file of a linked worktree back to the main
// checkout. A linked worktree has a .git FILE containing
//
//	gitdir: /repo/.git/worktrees/<name>
//
// and that directory holds a "commondir" file pointing at /repo/.git.
// The main checkout has a .git DIRECTORY and is its own main root.
func mainRootOf(topLevel string) (string, error) {
	dotGit := filepath.Join(topLevel, ".git")

	info, err := os.Lstat(dotGit)
	if err != nil {
		return "", model.WrapCLIError(model.KindNotRepository, "not in a git repository", err)
	}
	if info.IsDir() {
		return topLevel, nil
	}

	gitDir, err := readPointer(dotGit, "gitdir:")
	if err != nil {
		return "", err
	}

	commonDir := gitDir
	if _, statErr := os.Stat(filepath.Join(gitDir, "commondir")); statErr == nil {
		commonDir, err = readPointer(filepath.Join(gitDir, "commondir"), "")
		if err != nil {
			return "", err
		}
	}

	// The common dir of a non-bare repository is <main>/.git.
	if filepath.Base(commonDir) != ".git" {
		return "", model.NewCLIError(model.KindNotRepository,
			fmt.Sprintf("cannot locate the main working tree from %s", commonDir))
	}
	return canonical(filepath.Dir(commonDir)), nil
}

// readPointer reads a one-line git pointer file, strips prefix, and
// resolves a relative target against the file's directory.
func readPointer(path, prefix string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", model.WrapCLIError(model.KindIO, fmt.Sprintf("failed to read %s", path), err)
	}

	target := strings.TrimSpace(string(content))
	if prefix != "" {
		if !strings.HasPrefix(target, prefix) {
			return "", model.NewCLIError(model.KindNotRepository, fmt.Sprintf("%s is not a gitdir pointer", path))
		}
		target = strings.TrimSpace(strings.TrimPrefix(target, prefix))
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// canonical resolves symlinks so paths compare equal to what git prints
// (on macOS /tmp is a link to /private/tmp).
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
