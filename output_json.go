package sassbeautify

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Files     []JSONFile  `json:"files"`
}

// JSONSummary contains high-level counts
type JSONSummary struct {
	FilesDiscovered int   `json:"files_discovered"`
	FilesSkipped    int   `json:"files_skipped"`
	Processed       int   `json:"processed"`
	Changed         int   `json:"changed"`
	Unchanged       int   `json:"unchanged"`
	Failed          int   `json:"failed"`
	DurationMS      int64 `json:"duration_ms"`
}

// JSONFile is the outcome for one file
type JSONFile struct {
	Path         string   `json:"path"`
	Syntax       string   `json:"syntax,omitempty"`
	From         string   `json:"from,omitempty"`
	Changed      bool     `json:"changed"`
	LostComments []string `json:"lost_comments,omitempty"`
	DurationMS   int64    `json:"duration_ms,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// WriteJSON writes the batch result as JSON
func WriteJSON(w io.Writer, result BatchResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts BatchResult to JSONOutput
func buildJSONOutput(result BatchResult) JSONOutput {
	files := make([]JSONFile, 0, len(result.Results)+len(result.Failures))
	for _, res := range result.Results {
		files = append(files, JSONFile{
			Path:         res.Path,
			Syntax:       string(res.Syntax),
			From:         string(res.From),
			Changed:      res.Changed,
			LostComments: res.LostComments,
			DurationMS:   res.Duration.Milliseconds(),
		})
	}
	for _, f := range result.Failures {
		files = append(files, JSONFile{
			Path:  f.Path,
			Error: errorMessage(f.Err),
		})
	}

	changed := result.Changed()
	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesSkipped:    result.Stats.FilesSkipped,
			Processed:       len(result.Results) + len(result.Failures),
			Changed:         changed,
			Unchanged:       len(result.Results) - changed,
			Failed:          len(result.Failures),
			DurationMS:      result.Duration.Milliseconds(),
		},
		Files: files,
	}
}
