package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for refit.

To load completions:

Bash:
  $ source <(refit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ refit completion bash > /etc/bash_completion.d/refit
  # macOS:
  $ refit completion bash > $(brew --prefix)/etc/bash_completion.d/refit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ refit completion zsh > "${fpath[1]}/_refit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ refit completion fish | source

  # To load completions for each session, execute once:
  $ refit completion fish > ~/.config/fish/completions/refit.fish

PowerShell:
  PS> refit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> refit completion powershell > refit.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
