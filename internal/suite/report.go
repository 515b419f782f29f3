package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report records the outcome of one suite run.
type Report struct {
	RunID      string       `json:"run_id"`
	Cluster    string       `json:"cluster"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Passed     bool         `json:"passed"`
	FailedStep string       `json:"failed_step,omitempty"`
	Steps      []StepReport `json:"steps"`
}

// StepReport records one step's outcome.
type StepReport struct {
	Name     string `json:"name"`
	Cmd      string `json:"cmd,omitempty"`
	Expected int    `json:"expected"`
	// ExitCode is nil when the step never produced one (skipped, or
	// the process could not be run at all).
	ExitCode   *int   `json:"exit_code,omitempty"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	OutputTail string `json:"output_tail,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Write serializes the report as JSON into dir, named after the run ID.
// It returns the written file's path.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", r.RunID))
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
