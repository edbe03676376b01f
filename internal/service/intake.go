// Package service provides application-level services that sit between the
// HTTP handlers and the job pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/speakspace/speakspace-api/internal/domain"
	"github.com/speakspace/speakspace-api/internal/job"
)

// Sentinel errors for expected intake failures. The API layer maps these to
// HTTP status codes with errors.Is.
var (
	// ErrEmptyText indicates a text submission with no usable content.
	ErrEmptyText = errors.New("note text is empty")

	// ErrEmptyAudioPath indicates an audio submission without a stored file.
	ErrEmptyAudioPath = errors.New("audio path is empty")
)

// JobStore is the subset of job tracking operations the intake service needs.
type JobStore interface {
	Add(job *domain.Job) error
	Get(id uuid.UUID) (domain.Job, error)
}

// JobQueue is the enqueue side of the work queue.
type JobQueue interface {
	Enqueue(ref job.Ref)
}

// IntakeService accepts raw notes, registers jobs, and hands them to the
// work queue. It never processes anything itself; callers get a job ID back
// immediately and poll for the outcome.
type IntakeService struct {
	store  JobStore
	queue  JobQueue
	logger *slog.Logger
}

// NewIntakeService creates an intake service.
func NewIntakeService(store JobStore, queue JobQueue, logger *slog.Logger) *IntakeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntakeService{
		store:  store,
		queue:  queue,
		logger: logger.With("component", "intake_service"),
	}
}

// SubmitText registers a queued job for a raw text note and enqueues it.
func (s *IntakeService) SubmitText(ctx context.Context, text string) (domain.Job, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Job{}, ErrEmptyText
	}

	j, err := domain.NewTextJob(text)
	if err != nil {
		return domain.Job{}, fmt.Errorf("failed to create text job: %w", err)
	}

	return s.submit(ctx, j)
}

// SubmitAudio registers a queued job for an uploaded audio file and enqueues
// it. The file at audioPath must already be stored; the worker deletes it
// after processing.
func (s *IntakeService) SubmitAudio(ctx context.Context, audioPath string) (domain.Job, error) {
	if strings.TrimSpace(audioPath) == "" {
		return domain.Job{}, ErrEmptyAudioPath
	}

	j, err := domain.NewAudioJob(audioPath)
	if err != nil {
		return domain.Job{}, fmt.Errorf("failed to create audio job: %w", err)
	}

	return s.submit(ctx, j)
}

// GetJob returns a snapshot of the job with the given ID. Returns
// job.ErrJobNotFound when no such job exists.
func (s *IntakeService) GetJob(_ context.Context, id uuid.UUID) (domain.Job, error) {
	return s.store.Get(id)
}

func (s *IntakeService) submit(ctx context.Context, j *domain.Job) (domain.Job, error) {
	if err := s.store.Add(j); err != nil {
		return domain.Job{}, fmt.Errorf("failed to register job: %w", err)
	}

	// Enqueue after registration so the worker can always resolve the ref.
	s.queue.Enqueue(job.RefFor(j))

	s.logger.InfoContext(ctx, "job accepted",
		"job_id", j.ID,
		"kind", j.Kind)

	return *j, nil
}
