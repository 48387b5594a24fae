package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Long:      `Generate shell completion scripts for sassbeautify commands and flags.`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

// registerEnumCompletions offers the accepted values of the enum flags.
// The flags must already be defined on rootCmd.
func registerEnumCompletions() {
	for _, name := range []string{"border-zero", "hex-length", "indent-style", "output-format"} {
		values := enumValues[name]
		_ = rootCmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}
}

// enumValues lists the accepted values of the enum flags
var enumValues = map[string][]string{
	"border-zero":   {"zero", "none", "ignore"},
	"hex-length":    {"long", "short", "ignore"},
	"indent-style":  {"kandr", "allman"},
	"output-format": {"text", "json"},
}
