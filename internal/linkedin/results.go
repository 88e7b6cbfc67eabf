package linkedin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResultsFileName names the summary file after the session start time.
func ResultsFileName(s *Summary) string {
	return "session_results_" + s.SessionDate.Format("20060102_150405") + ".json"
}

// SaveResults writes s as indented JSON into dir (the working directory when
// empty) and returns the file path.
func SaveResults(dir string, s *Summary) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session results: %w", err)
	}
	path := filepath.Join(dir, ResultsFileName(s))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write session results: %w", err)
	}
	return path, nil
}
