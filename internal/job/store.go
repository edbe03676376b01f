package job

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/speakspace/speakspace-api/internal/domain"
)

// Common errors returned by the Store
var (
	ErrJobNotFound = errors.New("job not found")
)

// Store holds one record per submitted job, keyed by its generated
// identifier. It is the single owner of job state: callers submit and read
// snapshots, while all post-submission mutation happens through the Worker.
// Finished jobs are retained for the process lifetime; the store is
// documented-unbounded.
type Store struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*domain.Job
	logger *slog.Logger
}

// NewStore creates an empty job store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		jobs:   make(map[uuid.UUID]*domain.Job),
		logger: logger.With("component", "job_store"),
	}
}

// Add registers a newly created job. The job must be in the queued state.
func (s *Store) Add(job *domain.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := job.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job

	s.logger.Debug("job added",
		"job_id", job.ID,
		"job_kind", job.Kind,
		"job_count", len(s.jobs))
	return nil
}

// Get returns a snapshot of the job with the given ID.
// Returns ErrJobNotFound if no such job exists. The snapshot is a copy;
// mutating it does not affect the stored job.
func (s *Store) Get(id uuid.UUID) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, ErrJobNotFound
	}

	return snapshot(job), nil
}

// MarkProcessing transitions the job to processing.
// Used exclusively by the Worker.
func (s *Store) MarkProcessing(id uuid.UUID) error {
	return s.mutate(id, func(job *domain.Job) error {
		return job.StartProcessing()
	})
}

// MarkDone transitions the job to done with the extracted items as its result.
// Used exclusively by the Worker.
func (s *Store) MarkDone(id uuid.UUID, items []domain.ActionItem) error {
	return s.mutate(id, func(job *domain.Job) error {
		return job.Complete(items)
	})
}

// MarkFailed transitions the job to failed with the given error message.
// Used exclusively by the Worker.
func (s *Store) MarkFailed(id uuid.UUID, message string) error {
	return s.mutate(id, func(job *domain.Job) error {
		return job.Fail(message)
	})
}

// Len returns the number of jobs currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// mutate applies fn to the stored job under the write lock.
func (s *Store) mutate(id uuid.UUID, fn func(*domain.Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	return fn(job)
}

// snapshot returns a deep enough copy of the job for safe external reads.
func snapshot(job *domain.Job) domain.Job {
	copied := *job
	if job.Result != nil {
		result := *job.Result
		result.Items = append([]domain.ActionItem(nil), job.Result.Items...)
		copied.Result = &result
	}
	return copied
}
