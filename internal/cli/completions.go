package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion generate bash|zsh|fish",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"generate", "bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "generate" {
				return fmt.Errorf("unknown completion action %q", args[0])
			}
			out := cmd.OutOrStdout()
			switch args[1] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return fmt.Errorf("unsupported shell %q", args[1])
			}
		},
	}
}
