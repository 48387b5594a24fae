package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/sassbeautify"
)

const (
	projectConfigFile = ".sassbeautify.yaml"
	envPrefix         = "SASSBEAUTIFY_"
)

var k = koanf.New(".")

// userConfigDir is replaced in tests
var userConfigDir = os.UserConfigDir

// globalConfigPath returns the per-user config file location
func globalConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, "sassbeautify", "config.yaml"), nil
}

// loadConfig loads configuration with precedence:
// flags > env > project file > global file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = projectConfigFile
	}

	// An explicitly named config file has to exist
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads the global file, the project file and the
// environment. This is separated from loadConfig to allow testing without a
// cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Global config file
	if globalPath, err := globalConfigPath(); err == nil {
		if err := loadFile(globalPath); err != nil {
			return err
		}
	}

	// 2. Project config file
	if err := loadFile(configPath); err != nil {
		return err
	}

	// 3. Environment variables (SASSBEAUTIFY_* prefix)
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// SASSBEAUTIFY_HEX_LENGTH -> hex-length
		// SASSBEAUTIFY_INLINE_COMMENTS -> inline-comments
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"_", "-",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// loadFile merges a YAML file into k when it exists
func loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

// buildOptions constructs the library's Options from koanf state. Flags and
// environment variables use kebab-case keys, config files the camelCase
// names of the options.
func buildOptions() (sassbeautify.Options, error) {
	d := sassbeautify.DefaultOptions()

	opts := sassbeautify.Options{
		InlineComments:          getBoolWithFallback("inline-comments", "inlineComments", d.InlineComments),
		NewlineBetweenSelectors: getBoolWithFallback("newline-between-selectors", "newlineBetweenSelectors", d.NewlineBetweenSelectors),
		UseSingleQuotes:         getBoolWithFallback("use-single-quotes", "useSingleQuotes", d.UseSingleQuotes),
		BorderZero:              sassbeautify.BorderZero(getStringWithFallback("border-zero", "borderZero", string(d.BorderZero))),
		ZeroUnit:                getBoolWithFallback("zero-unit", "zeroUnit", d.ZeroUnit),
		HexLength:               sassbeautify.HexLength(getStringWithFallback("hex-length", "hexLength", string(d.HexLength))),
		IndentStyle:             sassbeautify.IndentStyle(getStringWithFallback("indent-style", "indentStyle", string(d.IndentStyle))),
		LeadingZero:             getBoolWithFallback("leading-zero", "leadingZero", d.LeadingZero),
		Indent:                  getStringWithFallback("indent", "indent", d.Indent),
		Dasherize:               getBoolWithFallback("dasherize", "dasherize", d.Dasherize),
		Old:                     getBoolWithFallback("old", "old", d.Old),
		Path:                    getStringWithFallback("path", "path", d.Path),
		GemPath:                 getStringWithFallback("gem-path", "gemPath", d.GemPath),
		Command:                 getStringWithFallback("command", "command", d.Command),
		BeautifyOnSave:          getBoolWithFallback("beautify-on-save", "beautifyOnSave", d.BeautifyOnSave),
		Timeout:                 getDurationWithFallback("timeout", "timeout", d.Timeout),
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

// runSettings are the CLI-only settings
type runSettings struct {
	Verbose      bool
	Quiet        bool
	Color        bool
	OutputFormat string
	Jobs         int
}

func buildRunSettings() runSettings {
	return runSettings{
		Verbose:      getBoolWithFallback("verbose", "verbose", false),
		Quiet:        getBoolWithFallback("quiet", "quiet", false),
		Color:        getBoolWithFallback("color", "color", false),
		OutputFormat: getStringWithFallback("output-format", "outputFormat", string(sassbeautify.OutputText)),
		Jobs:         getIntWithFallback("jobs", "jobs", 0),
	}
}

// effectiveConfig renders the merged configuration with the config file
// key names, ready to be written as YAML.
func effectiveConfig(opts sassbeautify.Options, run runSettings) ([]byte, error) {
	out := koanf.New(".")
	values := []struct {
		key string
		val interface{}
	}{
		{"inlineComments", opts.InlineComments},
		{"newlineBetweenSelectors", opts.NewlineBetweenSelectors},
		{"useSingleQuotes", opts.UseSingleQuotes},
		{"borderZero", string(opts.BorderZero)},
		{"zeroUnit", opts.ZeroUnit},
		{"hexLength", string(opts.HexLength)},
		{"indentStyle", string(opts.IndentStyle)},
		{"leadingZero", opts.LeadingZero},
		{"indent", opts.Indent},
		{"dasherize", opts.Dasherize},
		{"old", opts.Old},
		{"path", opts.Path},
		{"gemPath", opts.GemPath},
		{"command", opts.Command},
		{"beautifyOnSave", opts.BeautifyOnSave},
		{"timeout", opts.Timeout.String()},
		{"outputFormat", run.OutputFormat},
		{"jobs", run.Jobs},
	}
	for _, v := range values {
		if err := out.Set(v.key, v.val); err != nil {
			return nil, fmt.Errorf("setting %s: %w", v.key, err)
		}
	}
	return out.Marshal(yaml.Parser())
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
// Values are Go durations such as "30s" or "1m".
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
