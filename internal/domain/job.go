package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a job.
type JobStatus string

// Possible job status values
const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// JobKind identifies the payload variant of a job.
type JobKind string

// Possible job kinds
const (
	JobKindAudio JobKind = "audio"
	JobKindText  JobKind = "text"
)

// Common validation errors for Job
var (
	ErrEmptyJobID        = errors.New("job ID cannot be empty")
	ErrEmptyJobText      = errors.New("job text cannot be empty")
	ErrEmptyJobAudioPath = errors.New("job audio path cannot be empty")
	ErrInvalidJobStatus  = errors.New("invalid job status")
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// JobResult holds the outcome of a successfully processed job: the ordered
// action items extracted from the note plus the completion timestamp.
type JobResult struct {
	Items       []ActionItem `json:"tasks"`
	ProcessedAt time.Time    `json:"processed_at"`
}

// Job represents one submitted unit of work (an uploaded audio note or a raw
// text note) tracked through its lifecycle. Exactly one of Result/Error is
// populated, and only after the job has left the processing state.
type Job struct {
	ID        uuid.UUID  `json:"id"`
	Kind      JobKind    `json:"kind"`
	AudioPath string     `json:"audio_path,omitempty"`
	RawText   string     `json:"raw_text,omitempty"`
	Status    JobStatus  `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Result    *JobResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// NewAudioJob creates a queued job for an uploaded audio artifact.
// Returns an error if validation fails.
func NewAudioJob(audioPath string) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Kind:      JobKindAudio,
		AudioPath: audioPath,
		Status:    JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// NewTextJob creates a queued job for a raw text note.
// Returns an error if validation fails.
func NewTextJob(rawText string) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Kind:      JobKindText,
		RawText:   rawText,
		Status:    JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
// Returns an error if any field fails validation.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	switch j.Kind {
	case JobKindAudio:
		if j.AudioPath == "" {
			return ErrEmptyJobAudioPath
		}
	case JobKindText:
		if j.RawText == "" {
			return ErrEmptyJobText
		}
	default:
		return errors.New("invalid job kind")
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// StartProcessing transitions the job from queued to processing.
// Processing is entered at most once per job.
func (j *Job) StartProcessing() error {
	if j.Status != JobStatusQueued {
		return ErrInvalidTransition
	}
	j.Status = JobStatusProcessing
	return nil
}

// Complete transitions the job from processing to done and records the
// extracted items. Terminal states are final.
func (j *Job) Complete(items []ActionItem) error {
	if j.Status != JobStatusProcessing {
		return ErrInvalidTransition
	}
	j.Status = JobStatusDone
	j.Result = &JobResult{
		Items:       items,
		ProcessedAt: time.Now().UTC(),
	}
	j.Error = ""
	return nil
}

// Fail transitions the job from processing to failed and records a
// human-readable failure description. Terminal states are final.
func (j *Job) Fail(message string) error {
	if j.Status != JobStatusProcessing {
		return ErrInvalidTransition
	}
	j.Status = JobStatusFailed
	j.Error = message
	j.Result = nil
	return nil
}

// IsTerminal reports whether the job has reached a final state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusQueued, JobStatusProcessing, JobStatusDone, JobStatusFailed:
		return true
	default:
		return false
	}
}
