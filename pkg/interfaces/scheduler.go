package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrJobNotFound reports missing jobs when looking them up by ID or key.
var ErrJobNotFound = errors.New("scheduler: job not found")

// Scheduler coordinates delayed execution of jobs such as publishing a
// scheduled edition once its publication time arrives.
type Scheduler interface {
	// Enqueue registers a job for future execution. A job with the same
	// key replaces the earlier entry, keeping scheduling idempotent.
	Enqueue(ctx context.Context, spec JobSpec) (*Job, error)
	// Cancel marks the job so it never runs.
	Cancel(ctx context.Context, id string) error
	// CancelByKey cancels the job registered under the supplied key.
	CancelByKey(ctx context.Context, key string) error
	// Get returns the stored job by identifier.
	Get(ctx context.Context, id string) (*Job, error)
	// GetByKey returns the stored job registered under the supplied key.
	GetByKey(ctx context.Context, key string) (*Job, error)
	// ListDue returns pending jobs whose run time is at or before until.
	ListDue(ctx context.Context, until time.Time, limit int) ([]*Job, error)
	// MarkDone records a successful run.
	MarkDone(ctx context.Context, id string) error
	// MarkFailed records a failed attempt, re-queueing the job while
	// attempts remain.
	MarkFailed(ctx context.Context, id string, err error) error
}

// JobStatus describes the lifecycle of a scheduled job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCanceled  JobStatus = "canceled"
	JobStatusFailed    JobStatus = "failed"
)

// JobSpec carries everything needed to enqueue a job.
type JobSpec struct {
	// Key identifies the job for idempotent replacement, e.g. one key per
	// edition so rescheduling moves the existing job.
	Key string
	// Type names the action to perform (e.g. contentblocks.edition.publish).
	Type string
	// RunAt is the earliest instant the job should execute.
	RunAt time.Time
	// Payload carries contextual data required by the worker.
	Payload map[string]any
	// MaxAttempts bounds retries after failures. When zero the scheduler
	// substitutes its configured default limit.
	MaxAttempts int
}

// Job is a stored job entry plus the bookkeeping managed by the scheduler.
type Job struct {
	JobSpec
	ID        string
	Attempt   int
	LastError string
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
