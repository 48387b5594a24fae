package sassbeautify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Console styles, one per kind of mark the reporter prints
var (
	okMark     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
	failMark   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	lostMark   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "172", Dark: "214"})
	pathStyle  = lipgloss.NewStyle().Underline(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// paint renders text with style when colors are on
func paint(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// ConsoleNotifier writes status messages to one stream and errors to
// another. It is safe for concurrent use by a batch run.
type ConsoleNotifier struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	useColors bool
}

// NewConsoleNotifier creates a notifier for a terminal
func NewConsoleNotifier(out, errOut io.Writer, useColors bool) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, errOut: errOut, useColors: useColors}
}

// Status implements Notifier
func (n *ConsoleNotifier) Status(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", paint(okMark, "✓", n.useColors), msg)
}

// Error implements Notifier
func (n *ConsoleNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.errOut, "%s %s\n", paint(failMark, "✗", n.useColors), msg)
}

// Reporter prints batch summaries
type Reporter struct {
	w         io.Writer
	useColors bool
	verbose   bool
}

// NewReporter creates a new reporter
func NewReporter(w io.Writer, useColors, verbose bool) *Reporter {
	return &Reporter{w: w, useColors: useColors, verbose: verbose}
}

// UseColors returns whether the reporter renders colors
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintFiles lists lost comments per file and, when verbose, the unchanged
// files
func (r *Reporter) PrintFiles(result BatchResult) {
	for _, res := range result.Results {
		if len(res.LostComments) > 0 {
			fmt.Fprintf(r.w, "%s %s\n",
				paint(lostMark, "!", r.useColors),
				paint(pathStyle, res.Path, r.useColors))
			for _, c := range res.LostComments {
				fmt.Fprintf(r.w, "    comment lost: %s\n", c)
			}
		}
		if r.verbose && !res.Changed {
			fmt.Fprintf(r.w, "%s\n", paint(mutedStyle, "  unchanged "+res.Path, r.useColors))
		}
	}
}

// PrintSummary prints the final counts
func (r *Reporter) PrintSummary(result BatchResult) {
	total := len(result.Results) + len(result.Failures)
	if total == 0 {
		fmt.Fprintln(r.w, paint(mutedStyle, "No stylesheets matched", r.useColors))
		return
	}

	changed := result.Changed()
	line := fmt.Sprintf("%d %s, %d changed, %d unchanged",
		total, pluralize("file", total), changed, len(result.Results)-changed)
	if n := len(result.Failures); n > 0 {
		line += ", " + paint(failMark, fmt.Sprintf("%d failed", n), r.useColors)
	}
	if r.verbose {
		line += " " + paint(mutedStyle, "("+result.Duration.Round(time.Millisecond).String()+")", r.useColors)
	}
	fmt.Fprintln(r.w, line)
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
