package api

import (
	"time"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// ProcessRequest is the text note intake payload.
type ProcessRequest struct {
	Prompt    string `json:"prompt"     validate:"required"`
	NoteID    string `json:"note_id"    validate:"required"`
	Timestamp string `json:"timestamp"  validate:"required"`
}

// SubmitResponse acknowledges an accepted job.
type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// JobResponse wraps a job snapshot.
type JobResponse struct {
	Job domain.Job `json:"job"`
}

// TaskListResponse wraps the stored action items.
type TaskListResponse struct {
	Tasks []domain.ActionItem `json:"tasks"`
}

// TaskResponse wraps a single action item.
type TaskResponse struct {
	Task domain.ActionItem `json:"task"`
}

// UpdateTaskRequest changes an action item's status.
type UpdateTaskRequest struct {
	Status string `json:"status" validate:"required,oneof=pending done"`
}

// HealthResponse reports liveness plus the server clock.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
