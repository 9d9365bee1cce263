package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/worktree"
)

// NewCompletionCommand creates the "completion" command. The scripts are
// generated by cobra from the command tree, and worktree arguments
// complete dynamically through completeWorktrees.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate a shell completion script",
		Long: `Generate a completion script for your shell.

Examples:
  source <(bonsai completion bash)
  bonsai completion zsh > "${fpath[1]}/_bonsai"
  bonsai completion fish | source`,
		Args:                  cobra.ExactArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return unsupportedShell(args[0])
			}
		},
	}
}

// completeWorktrees offers branch names (or directory names for detached
// worktrees) for the first argument of commands that take a worktree.
func completeWorktrees(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	repo, err := worktree.Discover(cwd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Completion must never print dry-run lines or run hooks, so it uses
	// its own quiet runner regardless of flags.
	m := worktree.NewManager(&worktree.GitRunner{Logger: newLogger(cmd.ErrOrStderr())}, repo.MainRoot)
	worktrees, err := m.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := make([]string, 0, len(worktrees)+1)
	if cmd.Name() == "cd" {
		names = append(names, worktree.MainToken)
	}
	for _, wt := range worktrees {
		if wt.Branch != nil {
			names = append(names, *wt.Branch)
		} else {
			names = append(names, wt.Name())
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
