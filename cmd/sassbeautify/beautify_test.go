package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/sassbeautify"
)

// canonicalScript stands in for sass-convert and always prints the same
// stylesheet
const canonicalScript = `#!/bin/sh
cat >/dev/null
printf 'a {\n  color: #aabbcc;\n}\n'
`

const failScript = `#!/bin/sh
echo "Error: Invalid CSS after \"a\"" >&2
exit 65
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestBeautifyCommand(t *testing.T) {
	resetKoanf(t)
	resetFlags(t)
	t.Chdir(t.TempDir())

	bin := t.TempDir()
	ok := writeScript(t, bin, "sass-convert-ok", canonicalScript)
	fail := writeScript(t, bin, "sass-convert-fail", failScript)

	require.NoError(t, os.MkdirAll("styles", 0o755))
	path := filepath.Join("styles", "site.scss")
	require.NoError(t, os.WriteFile(path, []byte("a{color:#aabbcc}"), 0o644))

	var out, errOut bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})

	cmd.SetArgs([]string{"beautify", "styles", "--command", ok, "--hex-length", "short", "--output-format", "json"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a {\n  color: #abc;\n}\n", string(data))

	var report sassbeautify.JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 1, report.Summary.Processed)
	assert.Equal(t, 1, report.Summary.Changed)
	assert.Equal(t, 0, report.Summary.Failed)

	// A failing reformatter leaves the file alone and fails the run
	resetKoanf(t)
	out.Reset()
	require.NoError(t, os.WriteFile(path, []byte("a{"), 0o644))

	cmd.SetArgs([]string{"beautify", "styles", "--command", fail, "--output-format", "json"})
	err = cmd.Execute()
	require.ErrorIs(t, err, errFilesFailed)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a{", string(data))

	report = sassbeautify.JSONOutput{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Files, 1)
	assert.Contains(t, report.Files[0].Error, "Invalid CSS")
}

func TestConvertCommand_RejectsUnknownSyntax(t *testing.T) {
	resetKoanf(t)
	resetFlags(t)
	t.Chdir(t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"convert", "--from", "less", "a.scss"})
	err := cmd.Execute()
	require.ErrorIs(t, err, sassbeautify.ErrUnsupportedType)
}
