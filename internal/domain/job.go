package domain

import "time"

// JobStatus enumerates podcast job lifecycle states.
type JobStatus string

const (
	// JobStatusProcessing is the single in-flight state. Jobs are created
	// directly in this state; admission and creation are the same event.
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one request to produce a generated baby-podcast video. The job id
// doubles as the idempotency and correlation key for the whole lifecycle:
// it is handed to the rendering worker at dispatch time and expected back
// on the completion callback.
type Job struct {
	ID           string
	UserID       string
	Appearance   Appearance
	Content      Content
	Resolution   Resolution
	AspectRatio  AspectRatio
	CreditsSpent int
	Status       JobStatus
	VideoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
