package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/sassbeautify"
)

var rootCmd = &cobra.Command{
	Use:   "sassbeautify [patterns...]",
	Short: "Beautify Sass, Scss and CSS files with sass-convert",
	Long: `Run sass-convert over stylesheets and clean up after it.
Trailing comments stay on their line, and optional style rules normalize
quotes, hex colors, zero units, braces, leading zeros and blank lines.

Patterns may be files, directories or globs like "styles/**/*.scss".`,
	// Default behavior: run beautify when no subcommand is given.
	// We must call loadConfig here because PreRunE of beautifyCmd
	// is not triggered when delegating via rootCmd.RunE.
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBeautify(cmd, args, sassbeautify.Request{Mode: sassbeautify.ModeBeautify})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	addGlobalFlags(rootCmd.PersistentFlags())
	registerEnumCompletions()

	rootCmd.AddCommand(beautifyCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// addGlobalFlags defines the CLI settings and one flag per config key.
// Defaults match sassbeautify.DefaultOptions; only flags set explicitly
// override the config layers.
func addGlobalFlags(pf *pflag.FlagSet) {
	pf.String("config", projectConfigFile, "Config file path")
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("output-format", "text", "Output format: text|json")
	pf.Int("jobs", 0, "Files beautified in parallel (0 = number of CPUs)")

	// Pipeline rules
	pf.Bool("inline-comments", false, "Keep end-of-line comments on their line")
	pf.Bool("newline-between-selectors", false, "Insert a blank line before rule blocks")
	pf.Bool("use-single-quotes", false, "Use single quotes")
	pf.String("border-zero", "ignore", "Border shorthand: zero|none|ignore")
	pf.Bool("zero-unit", false, "Remove units from zero lengths")
	pf.String("hex-length", "ignore", "Hex colors: long|short|ignore")
	pf.String("indent-style", "kandr", "Brace placement: kandr|allman")
	pf.Bool("leading-zero", false, "Remove the leading zero of fractions")

	// Passed to sass-convert
	pf.String("indent", "4", "Indentation: number of spaces or t for tabs")
	pf.Bool("dasherize", false, "Convert underscores to dashes")
	pf.Bool("old", false, "Output the old-style property syntax (sass only)")
	pf.String("path", "", "PATH used to find and run sass-convert")
	pf.String("gem-path", "", "GEM_PATH for sass-convert")
	pf.String("command", "sass-convert", "Reformatter executable")
	pf.Duration("timeout", 30*time.Second, "Max wait per file for sass-convert (0 = no limit)")
	pf.Bool("beautify-on-save", true, "Beautify on save in watch mode")
}
