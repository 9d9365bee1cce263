// Package cli implements the cobra-based commands of bonsai.
//
// Each subcommand is defined in its own file within this package. This file
// defines the root command, which holds the global flags and maps errors to
// the process exit status.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Values of the persistent root flags. Binding them in NewRootCommand
// resets them to their defaults on every call.
var (
	// dryRun prints git commands instead of running them.
	dryRun bool

	// verbose logs every git command before it runs.
	verbose bool

	// noColor disables styled output. The NO_COLOR environment variable
	// has the same effect.
	noColor bool
)

// Version, Commit, and Date are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bonsai",
		Short: "A friendlier front end for git worktrees",
		Long: `bonsai keeps git worktrees for a repository under one managed directory,
resolves them by branch or directory name, and runs setup hooks after
creating them.

Run "bonsai init" once in a repository, then "bonsai add -c <branch>".`,

		// Usage on every error hides the actual message.
		SilenceUsage: true,

		// Execute prints errors itself as "Error: <message>".
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print git commands instead of running them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every git command before running it")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewAddCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewCdCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewPruneCommand())
	rootCmd.AddCommand(NewRenameCommand())
	rootCmd.AddCommand(NewMoveCommand())
	rootCmd.AddCommand(NewLockCommand())
	rootCmd.AddCommand(NewUnlockCommand())
	rootCmd.AddCommand(NewCompletionCommand())
	rootCmd.AddCommand(NewShellInitCommand())

	return rootCmd
}

// Execute runs the root command and exits with status 1 on any error.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// printError writes "Error: <message>" to w. The message of a failed git
// command spans two lines: the command, then git's stderr.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
