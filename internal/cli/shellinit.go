package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// NewShellInitCommand creates the "shell-init" command.
func NewShellInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell-init <bash|zsh|fish>",
		Short: "Print shell integration (cd wrapper, bn alias, completion)",
		Long: `Print a script that wraps bonsai in a shell function so "bonsai cd"
changes the current directory, defines "bn" as a short alias, and loads
completion for both.

Add one of these to your shell's startup file:
  eval "$(bonsai shell-init bash)"
  eval "$(bonsai shell-init zsh)"
  bonsai shell-init fish | source`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := shellInitScript(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
}

func unsupportedShell(shell string) error {
	return model.NewCLIError(model.KindGeneral, fmt.Sprintf("unsupported shell: %s", shell))
}

// shellInitScript returns the integration script for shell.
func shellInitScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashInit, nil
	case "zsh":
		return zshInit, nil
	case "fish":
		return fishInit, nil
	default:
		return "", unsupportedShell(shell)
	}
}

const bashInit = `bonsai() {
    if [ "$1" = "cd" ]; then
        shift
        local dir
        dir="$(command bonsai cd "$@")" || return
        [ -n "$dir" ] && builtin cd "$dir"
    else
        command bonsai "$@"
    fi
}

bn() {
    bonsai "$@"
}

source <(command bonsai completion bash)
complete -o default -F __start_bonsai bn
`

const zshInit = `bonsai() {
    if [[ "$1" == "cd" ]]; then
        shift
        local dir
        dir="$(command bonsai cd "$@")" || return
        [[ -n "$dir" ]] && builtin cd "$dir"
    else
        command bonsai "$@"
    fi
}

bn() {
    bonsai "$@"
}

source <(command bonsai completion zsh)
compdef _bonsai bonsai bn
`

const fishInit = `function bonsai
    if test "$argv[1]" = "cd"
        set -l dir (command bonsai cd $argv[2..-1])
        or return
        test -n "$dir"; and builtin cd $dir
    else
        command bonsai $argv
    end
end

function bn --wraps bonsai
    bonsai $argv
end

command bonsai completion fish | source
`
