package entity

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusNotFound  JobStatus = "not_found"
)

// SummarizationJob is stored as JSON under job:<id>. Texts stay in the queue
// message, not in the record.
type SummarizationJob struct {
	Id          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Model       string     `json:"model,omitempty"`
	Batch       bool       `json:"batch"`
	TextCount   int        `json:"text_count"`
	Summary     string     `json:"summary,omitempty"`
	Summaries   []string   `json:"summaries,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
