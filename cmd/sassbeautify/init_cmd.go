package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .sassbeautify.yaml config file",
	Long: `Create a .sassbeautify.yaml configuration file in the current directory
with the default settings. With --global the file is written to the user
config directory instead and applies to every project.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		global, _ := cmd.Flags().GetBool("global")

		path := projectConfigFile
		if global {
			var err error
			if path, err = globalConfigPath(); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

const defaultConfig = `# sassbeautify configuration
# Precedence: flags > SASSBEAUTIFY_* env > .sassbeautify.yaml > global config > defaults

# Keep end-of-line comments on their line
inlineComments: false
# Blank line before nested and sibling rule blocks
newlineBetweenSelectors: false
useSingleQuotes: false
borderZero: ignore       # zero | none | ignore
zeroUnit: false          # 0px -> 0
hexLength: ignore        # long | short | ignore
indentStyle: kandr       # kandr | allman
leadingZero: false       # 0.5 -> .5

# sass-convert
indent: "4"              # number of spaces, or t for tabs
dasherize: false
old: false               # old-style property syntax, sass output only
path: ""                 # PATH used to find sass-convert and ruby
gemPath: ""              # GEM_PATH for sass-convert
command: sass-convert
timeout: 30s

# CLI
beautifyOnSave: true     # used by watch
outputFormat: text       # text | json
jobs: 0                  # 0 = number of CPUs
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
	initCmd.Flags().Bool("global", false, "Write the per-user config file")
}
