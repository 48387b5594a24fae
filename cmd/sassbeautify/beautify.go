package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/sassbeautify"
)

var beautifyCmd = &cobra.Command{
	Use:   "beautify <patterns...>",
	Short: "Beautify stylesheets in place",
	Long: `Reformat each matched .sass, .scss or .css file into its own syntax
and apply the configured style rules. Files that fail to reformat are left
untouched and reported; the exit code is 1 when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBeautify(cmd, args, sassbeautify.Request{Mode: sassbeautify.ModeBeautify})
	},
}

// runBeautify is shared between `sassbeautify beautify` and `sassbeautify convert`.
func runBeautify(cmd *cobra.Command, patterns []string, req sassbeautify.Request) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	run := buildRunSettings()

	logger := newLogger(cmd.ErrOrStderr(), run)
	defer func() { _ = logger.Sync() }()

	b, useColors, err := newBeautifier(cmd, opts, run, logger)
	if err != nil {
		return err
	}

	files, stats, err := sassbeautify.ExpandPatterns(patterns)
	if err != nil {
		return fmt.Errorf("expanding patterns: %w", err)
	}
	logger.Debug("files selected",
		zap.Int("discovered", stats.FilesDiscovered),
		zap.Int("selected", stats.FilesSelected),
		zap.Int("skipped", stats.FilesSkipped))

	result := b.BeautifyFiles(cmd.Context(), files, req, run.Jobs)
	result.Stats = stats

	if !run.Quiet {
		out := cmd.OutOrStdout()
		format := sassbeautify.DetermineOutputFormat(run.OutputFormat)
		sassbeautify.WriteOutput(out, result, format, sassbeautify.NewReporter(out, useColors, run.Verbose))
	}

	if err := result.Err(); err != nil {
		logger.Debug("batch failed", zap.Error(err))
		return errFilesFailed
	}
	return nil
}

// newBeautifier wires the library to the terminal. Per-file messages are
// only printed for the text format; the JSON report carries them otherwise.
func newBeautifier(cmd *cobra.Command, opts sassbeautify.Options, run runSettings, logger *zap.Logger) (*sassbeautify.Beautifier, bool, error) {
	useColors := sassbeautify.ShouldUseColors(run.Color)

	options := []sassbeautify.Option{sassbeautify.WithLogger(logger)}
	if !run.Quiet && sassbeautify.DetermineOutputFormat(run.OutputFormat) == sassbeautify.OutputText {
		options = append(options, sassbeautify.WithNotifier(
			sassbeautify.NewConsoleNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColors)))
	}

	b, err := sassbeautify.New(opts, options...)
	if err != nil {
		return nil, false, err
	}
	return b, useColors, nil
}
