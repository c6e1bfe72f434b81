package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a completion script for the shells rwpspread
// is usually run from.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for rwpspread.

Bash:
  $ rwpspread completion bash > ~/.local/share/bash-completion/completions/rwpspread

Zsh (with compinit enabled):
  $ rwpspread completion zsh > "${fpath[1]}/_rwpspread"

Fish:
  $ rwpspread completion fish > ~/.config/fish/completions/rwpspread.fish

Start a new shell afterwards.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenBashCompletionV2(out, true)
			}
		},
	}
}
