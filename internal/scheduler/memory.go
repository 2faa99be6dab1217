package scheduler

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultRetryLimit = 3

// NewInMemory creates a deterministic scheduler suitable for tests and for
// hosts that sweep due jobs themselves.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	store := &memoryScheduler{
		clock:      time.Now,
		newID:      uuid.NewString,
		retryLimit: defaultRetryLimit,
		byID:       make(map[string]*interfaces.Job),
		byKey:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Option allows customizing the behaviour of the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used when enqueuing jobs.
func WithIDGenerator(generator func() string) Option {
	return func(s *memoryScheduler) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithDefaultMaxAttempts overrides the retry limit applied when the job spec leaves it unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *memoryScheduler) {
		if limit > 0 {
			s.retryLimit = limit
		}
	}
}

type memoryScheduler struct {
	mu         sync.Mutex
	clock      func() time.Time
	newID      func() string
	retryLimit int
	byID       map[string]*interfaces.Job
	byKey      map[string]string
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, errors.New("scheduler: run_at is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-enqueueing the same key replaces the earlier entry so scheduling
	// stays idempotent.
	if spec.Key != "" {
		if staleID, ok := s.byKey[spec.Key]; ok {
			delete(s.byID, staleID)
		}
	}

	now := s.clock()
	job := &interfaces.Job{
		JobSpec:   spec,
		ID:        s.newID(),
		Status:    interfaces.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.Payload = maps.Clone(spec.Payload)
	if job.MaxAttempts == 0 {
		job.MaxAttempts = s.retryLimit
	}

	s.byID[job.ID] = job
	if job.Key != "" {
		s.byKey[job.Key] = job.ID
	}
	return snapshot(job), nil
}

func (s *memoryScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(s.byID[id])
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(s.byID[s.byKey[key]])
}

func (s *memoryScheduler) cancelLocked(job *interfaces.Job) error {
	if job == nil {
		return interfaces.ErrJobNotFound
	}
	job.Status = interfaces.JobStatusCanceled
	job.UpdatedAt = s.clock()
	if job.Key != "" {
		delete(s.byKey, job.Key)
	}
	return nil
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return snapshot(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	if key == "" {
		return nil, interfaces.ErrJobNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[s.byKey[key]]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return snapshot(job), nil
}

func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]*interfaces.Job, 0, len(s.byID))
	for _, job := range s.byID {
		if job.Status == interfaces.JobStatusPending && !job.RunAt.After(until) {
			due = append(due, snapshot(job))
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].RunAt.Before(due[j].RunAt)
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Status = interfaces.JobStatusCompleted
	job.UpdatedAt = s.clock()
	if job.Key != "" {
		delete(s.byKey, job.Key)
	}
	return nil
}

func (s *memoryScheduler) MarkFailed(_ context.Context, id string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Attempt++
	job.UpdatedAt = s.clock()
	job.LastError = ""
	if failure != nil {
		job.LastError = failure.Error()
	}
	if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
		job.Status = interfaces.JobStatusFailed
	} else {
		job.Status = interfaces.JobStatusPending
	}
	return nil
}

func snapshot(job *interfaces.Job) *interfaces.Job {
	copied := *job
	copied.Payload = maps.Clone(job.Payload)
	return &copied
}
