// Package jobs defines the unit-of-work contracts for inbound message
// processing. Each (sender, body, timestamp) event becomes one job; the host
// queue may run jobs concurrently and out of arrival order.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeProcessMessage represents one inbound message to push through
	// the ledger pipeline.
	JobTypeProcessMessage JobType = "process_message"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ProcessMessageJob carries one inbound message event through the queue.
type ProcessMessageJob struct {
	JobID string `json:"job_id"`

	// Sender, Body and ReceivedAt are the raw event triple.
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`

	// Source labels the event origin: "sms", "notification" or "backup".
	Source string `json:"source"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds the failure detail of the last attempt.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is the generic interface over queued work.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ProcessMessageJob) GetID() string        { return j.JobID }
func (j *ProcessMessageJob) GetType() JobType     { return JobTypeProcessMessage }
func (j *ProcessMessageJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues message jobs. Implementations may be in-memory or
// backed by an external queue.
type Publisher interface {
	PublishProcessMessage(ctx context.Context, job *ProcessMessageJob) error
	Close() error
}

// Consumer pulls jobs off the queue and hands them to a handler.
type Consumer interface {
	// Start begins consuming; the handler is invoked once per job, possibly
	// concurrently across jobs.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the attempt failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state across attempts.
type JobStore interface {
	SaveJob(ctx context.Context, job *ProcessMessageJob) error
	GetJob(ctx context.Context, jobID string) (*ProcessMessageJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ProcessMessageJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	Sender string
	Status JobStatus
	Limit  int
	Offset int
}
