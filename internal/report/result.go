// Package report holds the value types and rendering for a diagnostic
// run: individual check outcomes, the aggregate report, console output,
// and the JSON report file.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldeng/clusterdoc/internal/diagnostics"
)

// Status classifies one check outcome.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusInfo  Status = "info" // informational, no pass/fail judgement
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Result is the outcome of one check.
type Result struct {
	CheckID     string            `json:"check_id"`
	Description string            `json:"description"`
	Status      Status            `json:"status"`
	Info        map[string]string `json:"info,omitempty"`
	Err         string            `json:"error,omitempty"`
}

// Summary counts results by status.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Info    int `json:"info"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// Report is the aggregate outcome of one diagnostic run.
type Report struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Mode        string               `json:"mode"`
	Targets     []string             `json:"targets"`
	Host        diagnostics.Snapshot `json:"host"`
	Results     []Result             `json:"results"`
	Summary     Summary              `json:"summary"`
}

// New creates an empty report for a run against the given targets.
func New(mode string, targets []string) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Mode:        mode,
		Targets:     targets,
		Host:        diagnostics.Collect(),
	}
}

// Add appends a result and updates the summary.
func (r *Report) Add(result Result) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case StatusPass:
		r.Summary.Passed++
	case StatusFail:
		r.Summary.Failed++
	case StatusInfo:
		r.Summary.Info++
	case StatusError:
		r.Summary.Errors++
	case StatusSkip:
		r.Summary.Skipped++
	}
}

// Healthy reports whether the run completed without failures or errors.
func (r *Report) Healthy() bool {
	return r.Summary.Failed == 0 && r.Summary.Errors == 0
}
