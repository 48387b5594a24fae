package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/sassbeautify"
)

// resetKoanf creates a fresh koanf instance and an empty user config
// directory for each test. It returns that directory.
func resetKoanf(t *testing.T) string {
	t.Helper()
	k = koanf.New(".")

	dir := t.TempDir()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = orig })
	return dir
}

// resetFlags restores the defaults of the global flags now and after the
// test. Flag state survives between rootCmd.Execute calls otherwise.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset()
	t.Cleanup(reset)
}

// writeGlobalConfig writes the per-user config file below dir
func writeGlobalConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "sassbeautify", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeConfig writes a project config file and returns its path
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".sassbeautify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// flagCommand returns a fresh command carrying the global flags, parsed
// from args
func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addGlobalFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, `
inlineComments: true
newlineBetweenSelectors: true
useSingleQuotes: true
borderZero: none
zeroUnit: true
hexLength: short
indentStyle: allman
leadingZero: true
indent: t
dasherize: true
old: true
path: /opt/ruby/bin
gemPath: /opt/gems
command: /usr/local/bin/sass-convert
beautifyOnSave: false
timeout: 1m
`)
	require.NoError(t, loadConfigFromPath(configPath))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.Options{
		InlineComments:          true,
		NewlineBetweenSelectors: true,
		UseSingleQuotes:         true,
		BorderZero:              sassbeautify.BorderZeroNone,
		ZeroUnit:                true,
		HexLength:               sassbeautify.HexLengthShort,
		IndentStyle:             sassbeautify.IndentAllman,
		LeadingZero:             true,
		Indent:                  "t",
		Dasherize:               true,
		Old:                     true,
		Path:                    "/opt/ruby/bin",
		GemPath:                 "/opt/gems",
		Command:                 "/usr/local/bin/sass-convert",
		BeautifyOnSave:          false,
		Timeout:                 time.Minute,
	}, opts)
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf(t)

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.sassbeautify.yaml"))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.DefaultOptions(), opts)

	run := buildRunSettings()
	assert.Equal(t, runSettings{OutputFormat: "text"}, run)
}

func TestProjectConfigOverridesGlobal(t *testing.T) {
	dir := resetKoanf(t)

	writeGlobalConfig(t, dir, `
hexLength: short
indentStyle: allman
`)
	configPath := writeConfig(t, `
hexLength: long
`)
	require.NoError(t, loadConfigFromPath(configPath))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.HexLengthLong, opts.HexLength, "project wins")
	assert.Equal(t, sassbeautify.IndentAllman, opts.IndentStyle, "global still applies")
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, `
hexLength: short
inlineComments: false
timeout: 1m
`)

	// Set env vars that should override config file
	t.Setenv("SASSBEAUTIFY_HEX_LENGTH", "long")
	t.Setenv("SASSBEAUTIFY_INLINE_COMMENTS", "true")
	t.Setenv("SASSBEAUTIFY_TIMEOUT", "5s")
	t.Setenv("SASSBEAUTIFY_JOBS", "3")

	require.NoError(t, loadConfigFromPath(configPath))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.HexLengthLong, opts.HexLength)
	assert.True(t, opts.InlineComments)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, 3, buildRunSettings().Jobs)
}

func TestFlagsOverrideEnvAndFile(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, `
zeroUnit: true
indentStyle: allman
`)
	t.Setenv("SASSBEAUTIFY_HEX_LENGTH", "long")

	cmd := flagCommand(t, "--config", configPath, "--hex-length", "short", "--indent-style", "kandr", "-v")
	require.NoError(t, loadConfig(cmd))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.HexLengthShort, opts.HexLength, "flag beats env")
	assert.Equal(t, sassbeautify.IndentKandR, opts.IndentStyle, "flag beats file")
	assert.True(t, opts.ZeroUnit, "unset flag defaults do not override the file")
	assert.True(t, buildRunSettings().Verbose)
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	resetKoanf(t)

	cmd := flagCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	err := loadConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, "hexLength: [short\n")
	err := loadConfigFromPath(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config file")
}

func TestBuildOptions_Invalid(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, "borderZero: thin\n")
	require.NoError(t, loadConfigFromPath(configPath))

	_, err := buildOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid borderZero "thin"`)
}

func TestEffectiveConfig_RoundTrip(t *testing.T) {
	resetKoanf(t)

	opts := sassbeautify.DefaultOptions()
	opts.HexLength = sassbeautify.HexLengthShort
	opts.InlineComments = true

	data, err := effectiveConfig(opts, runSettings{OutputFormat: "json", Jobs: 2})
	require.NoError(t, err)
	assert.Contains(t, string(data), "hexLength: short\n")
	assert.Contains(t, string(data), "timeout: 30s\n")

	// The printed configuration is a valid config file
	configPath := writeConfig(t, string(data))
	require.NoError(t, loadConfigFromPath(configPath))

	got, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, opts, got)
	assert.Equal(t, runSettings{OutputFormat: "json", Jobs: 2}, buildRunSettings())
}

func TestDefaultConfigMatchesDefaults(t *testing.T) {
	resetKoanf(t)

	configPath := writeConfig(t, defaultConfig)
	require.NoError(t, loadConfigFromPath(configPath))

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, sassbeautify.DefaultOptions(), opts)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created
	data, err := os.ReadFile(".sassbeautify.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "inlineComments: false")
	assert.Contains(t, string(data), "hexLength: ignore")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// Create existing file
	require.NoError(t, os.WriteFile(".sassbeautify.yaml", []byte("existing"), 0o644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// Create existing file
	require.NoError(t, os.WriteFile(".sassbeautify.yaml", []byte("existing"), 0o644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".sassbeautify.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "indentStyle: kandr")
}

func TestInitCommand_Global(t *testing.T) {
	configDir := resetKoanf(t)
	t.Chdir(t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--global"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(configDir, "sassbeautify", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig, string(data))

	_, err = os.Stat(".sassbeautify.yaml")
	assert.True(t, os.IsNotExist(err), "no project file is written")
}

func TestConfigCommand(t *testing.T) {
	resetKoanf(t)
	resetFlags(t)
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".sassbeautify.yaml", []byte("hexLength: long\n"), 0o644))

	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })

	cmd.SetArgs([]string{"config"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "hexLength: long\n")
	assert.Contains(t, out.String(), "command: sass-convert\n")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })

	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "sassbeautify dev\n", out.String())
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf(t)

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "configKey", "default"))

	require.NoError(t, k.Set("configKey", "from-file"))
	assert.Equal(t, "from-file", getStringWithFallback("flag-key", "configKey", "default"))

	require.NoError(t, k.Set("flag-key", "from-flag"))
	assert.Equal(t, "from-flag", getStringWithFallback("flag-key", "configKey", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf(t)

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "configKey", false))
	assert.True(t, getBoolWithFallback("flag-key", "configKey", true))

	require.NoError(t, k.Set("flag-key", false))
	assert.False(t, getBoolWithFallback("flag-key", "configKey", true), "explicit false wins")
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf(t)

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "configKey", 42))
}

func TestGetDurationWithFallback(t *testing.T) {
	resetKoanf(t)

	assert.Equal(t, time.Second, getDurationWithFallback("flag-key", "configKey", time.Second))

	require.NoError(t, k.Set("configKey", "250ms"))
	assert.Equal(t, 250*time.Millisecond, getDurationWithFallback("flag-key", "configKey", time.Second))
}
