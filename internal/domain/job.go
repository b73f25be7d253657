package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one unit of asynchronous pipeline work. Records live in the
// in-process registry for the lifetime of the server; they are created by
// the submit boundary and mutated only by the executor that owns them.
type Job struct {
	ID         string
	Status     JobStatus
	Progress   int
	Message    string
	ResultURL  string
	ResultURLs map[string]string
	Error      string
	AuditRef   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// JobUpdate carries a partial mutation; nil fields are left untouched.
type JobUpdate struct {
	Status     *JobStatus
	Progress   *int
	Message    *string
	ResultURL  *string
	ResultURLs map[string]string
	Error      *string
	AuditRef   *string
}
