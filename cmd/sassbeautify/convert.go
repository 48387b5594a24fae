package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/sassbeautify"
)

var convertCmd = &cobra.Command{
	Use:   "convert --from <sass|scss|css> <patterns...>",
	Short: "Convert stylesheets from another syntax into their own",
	Long: `Read each matched file as the syntax given by --from and rewrite it in
the syntax of its extension. Use it after pasting indented Sass into an
.scss file, or the other way round.`,
	Example: `  sassbeautify convert --from sass styles/pasted.scss`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("from")
		from, err := sassbeautify.ParseSyntax(name)
		if err != nil {
			return err
		}
		return runBeautify(cmd, args, sassbeautify.Request{Mode: sassbeautify.ModeConvert, From: from})
	},
}

func init() {
	convertCmd.Flags().String("from", "", "Syntax the files are currently written in: sass|scss|css")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.RegisterFlagCompletionFunc("from", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"sass", "scss", "css"}, cobra.ShellCompDirectiveNoFileComp
	})
}
