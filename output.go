package sassbeautify

import (
	"io"
	"os"
)

// OutputFormat selects how batch results are written
type OutputFormat string

const (
	// OutputText prints a human readable summary
	OutputText OutputFormat = "text"
	// OutputJSON prints a machine readable report
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from the flag value.
// Unknown values fall back to text.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// WriteOutput writes the batch result in the specified format
func WriteOutput(w io.Writer, result BatchResult, format OutputFormat, reporter *Reporter) {
	switch format {
	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	default:
		reporter.PrintFiles(result)
		reporter.PrintSummary(result)
	}
}
