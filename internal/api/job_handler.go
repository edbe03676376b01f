package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/speakspace/speakspace-api/internal/api/shared"
	"github.com/speakspace/speakspace-api/internal/domain"
	"github.com/speakspace/speakspace-api/internal/job"
	"github.com/speakspace/speakspace-api/internal/service"
)

// maxUploadBytes caps the multipart form size for audio uploads.
const maxUploadBytes = 25 << 20 // 25 MiB

// IntakeService defines the note intake operations the handlers need.
type IntakeService interface {
	SubmitText(ctx context.Context, text string) (domain.Job, error)
	SubmitAudio(ctx context.Context, audioPath string) (domain.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error)
}

// JobHandler handles note intake and job status requests.
type JobHandler struct {
	intake    IntakeService
	uploadDir string
	logger    *slog.Logger
}

// NewJobHandler creates a new JobHandler. Uploaded audio is stored under
// uploadDir until the worker has processed it.
func NewJobHandler(intake IntakeService, uploadDir string, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{
		intake:    intake,
		uploadDir: uploadDir,
		logger:    logger.With("component", "job_handler"),
	}
}

// UploadAudio handles POST /upload-audio. It stores the uploaded file under
// the upload dir and submits an audio job. The response is returned before
// any processing happens; clients poll GET /jobs/{id} for the outcome.
func (h *JobHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No audio file")
		return
	}
	defer func() { _ = file.Close() }()

	audioPath, err := h.storeUpload(file, header.Filename)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to store audio", err)
		return
	}

	j, err := h.intake.SubmitAudio(r.Context(), audioPath)
	if err != nil {
		// The stored file will never be picked up; remove it.
		_ = os.Remove(audioPath)
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to queue audio", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitResponse{
		Status:  "success",
		Message: "Audio queued",
		JobID:   j.ID.String(),
	})
}

// Process handles POST /process: the text note intake payload.
func (h *JobHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing fields")
		return
	}

	j, err := h.intake.SubmitText(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Note text is empty")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to queue note", err)
		return
	}

	h.logger.DebugContext(r.Context(), "text note queued",
		"job_id", j.ID,
		"note_id", req.NoteID)

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitResponse{
		Status:  "success",
		Message: "Workflow queued",
		JobID:   j.ID.String(),
	})
}

// GetJob handles GET /jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	j, err := h.intake.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to fetch job", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, JobResponse{Job: j})
}

// storeUpload copies the uploaded file to the upload dir under a fresh
// UUID-based name, keeping the original extension for mime detection.
func (h *JobHandler) storeUpload(src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	return path, nil
}
