package models

import "time"

// Outcome is the state of a submission attempt or of a whole link.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// SubmissionAttempt is the per-link retry state. A fresh value is created
// for every link and dropped once the link is done.
type SubmissionAttempt struct {
	URL     string
	Number  int
	Outcome Outcome
}

// SubmissionResult is what is kept about a link once its retry loop ends.
type SubmissionResult struct {
	ID         int64     `db:"id" json:"-"`
	RunID      string    `db:"run_id" json:"run_id"`
	URL        string    `db:"url" json:"url"`
	Attempts   int       `db:"attempts" json:"attempts"`
	Outcome    Outcome   `db:"outcome" json:"outcome"`
	LastError  string    `db:"last_error" json:"last_error,omitempty"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// RunSummary aggregates the results of one run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	FinishedAt time.Time `json:"finished_at"`
}

// Summarize counts results per outcome.
func Summarize(runID string, results []SubmissionResult) RunSummary {
	sum := RunSummary{RunID: runID, Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeSuccess:
			sum.Succeeded++
		case OutcomeFailed:
			sum.Failed++
		}
		if r.FinishedAt.After(sum.FinishedAt) {
			sum.FinishedAt = r.FinishedAt
		}
	}
	return sum
}

// OutcomeFilters holds the query parameters for listing stored results.
type OutcomeFilters struct {
	RunID   string
	Outcome Outcome
	// For Pagination
	Limit  int
	Offset int
}
