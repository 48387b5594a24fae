// Package sassconvert runs the external sass-convert tool.
package sassconvert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultCommand is the reformatter looked up on PATH when none is configured.
const DefaultCommand = "sass-convert"

// SpawnFailed is the exit code reported when the process could not run at all.
const SpawnFailed = -1

// FormatOptions controls one reformatter invocation
type FormatOptions struct {
	Command   string // Executable, DefaultCommand when empty
	From      string // "sass" | "scss"
	To        string // "sass" | "scss"
	Indent    string // Spaces count or "t" for tabs
	Dasherize bool   // Convert underscores to dashes
	Old       bool   // Old-style property syntax, only for sass targets
	Path      string // Replaces PATH of the child process when set
	GemPath   string // Replaces GEM_PATH of the child process when set
}

// Result is what the reformatter produced
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the run succeeded and produced output
func (r Result) OK() bool {
	return r.ExitCode == 0 && r.Stdout != ""
}

// Runner invokes sass-convert as a subprocess
type Runner struct{}

// Args builds the sass-convert argument list for opts
func Args(opts FormatOptions) []string {
	indent := opts.Indent
	if indent == "" {
		indent = "4"
	}

	args := []string{
		"--unix-newlines",
		"--stdin",
		"--indent", indent,
		"--from", opts.From,
		"--to", opts.To,
	}
	if opts.Dasherize {
		args = append(args, "--dasherize")
	}
	if opts.Old && opts.To == "sass" {
		args = append(args, "--old")
	}
	return args
}

// Run feeds input to the reformatter and waits for it to exit. It never
// returns an error: failures to start are reported as a Result with
// ExitCode SpawnFailed and the OS error in Stderr.
func (Runner) Run(ctx context.Context, input string, opts FormatOptions) Result {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}

	// The configured PATH must also decide which executable is found
	if opts.Path != "" {
		command = lookPath(command, opts.Path)
	}

	// #nosec G204 - command and flags come from user configuration
	cmd := exec.CommandContext(ctx, command, Args(opts)...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = environ(os.Environ(), opts)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{
			ExitCode: SpawnFailed,
			Stdout:   stdout.String(),
			Stderr:   fmt.Sprintf("%s: %v", command, ctxErr),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}
	}

	// Not found, permission denied, ...
	return Result{ExitCode: SpawnFailed, Stderr: err.Error()}
}

// Start runs the reformatter on its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func (r Runner) Start(ctx context.Context, input string, opts FormatOptions) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- r.Run(ctx, input, opts)
	}()
	return done
}

// lookPath resolves a bare command name against the directories of path.
// The name is returned as-is when it holds a separator or is not found.
func lookPath(command, path string) string {
	if strings.ContainsRune(command, filepath.Separator) || strings.Contains(command, "/") {
		return command
	}
	for _, dir := range filepath.SplitList(path) {
		candidate := filepath.Join(dir, command)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() && (runtime.GOOS == "windows" || info.Mode()&0o111 != 0) {
			return candidate
		}
	}
	return command
}

// environ returns base with PATH and GEM_PATH replaced by the configured
// values, when present.
func environ(base []string, opts FormatOptions) []string {
	overrides := map[string]string{}
	if opts.Path != "" {
		overrides["PATH"] = opts.Path
	}
	if opts.GemPath != "" {
		overrides["GEM_PATH"] = opts.GemPath
	}
	if len(overrides) == 0 {
		return base
	}

	env := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[name]; ok {
			continue
		}
		env = append(env, kv)
	}
	for _, name := range []string{"PATH", "GEM_PATH"} {
		if v, ok := overrides[name]; ok {
			env = append(env, name+"="+v)
		}
	}
	return env
}
