package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakspace/speakspace-api/internal/api"
	"github.com/speakspace/speakspace-api/internal/domain"
	"github.com/speakspace/speakspace-api/internal/job"
	"github.com/speakspace/speakspace-api/internal/service"
)

// mockIntake implements api.IntakeService with injectable behavior.
type mockIntake struct {
	SubmitTextFn  func(ctx context.Context, text string) (domain.Job, error)
	SubmitAudioFn func(ctx context.Context, audioPath string) (domain.Job, error)
	GetJobFn      func(ctx context.Context, id uuid.UUID) (domain.Job, error)

	audioPaths []string
}

func (m *mockIntake) SubmitText(ctx context.Context, text string) (domain.Job, error) {
	if m.SubmitTextFn != nil {
		return m.SubmitTextFn(ctx, text)
	}
	j, err := domain.NewTextJob(text)
	if err != nil {
		return domain.Job{}, err
	}
	return *j, nil
}

func (m *mockIntake) SubmitAudio(ctx context.Context, audioPath string) (domain.Job, error) {
	m.audioPaths = append(m.audioPaths, audioPath)
	if m.SubmitAudioFn != nil {
		return m.SubmitAudioFn(ctx, audioPath)
	}
	j, err := domain.NewAudioJob(audioPath)
	if err != nil {
		return domain.Job{}, err
	}
	return *j, nil
}

func (m *mockIntake) GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	if m.GetJobFn != nil {
		return m.GetJobFn(ctx, id)
	}
	return domain.Job{}, job.ErrJobNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, intake *mockIntake) (http.Handler, string) {
	t.Helper()
	uploadDir := t.TempDir()
	jobs := api.NewJobHandler(intake, uploadDir, testLogger())
	items := api.NewItemHandler(&mockItemStore{}, testLogger())
	return api.NewRouter(jobs, items, "test_key_123"), uploadDir
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("X-API-Key", "test_key_123")
	return req
}

func TestProcess(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid payload", func(t *testing.T) {
		t.Parallel()

		intake := &mockIntake{}
		router, _ := newTestRouter(t, intake)

		body := `{"prompt":"call Alice tomorrow","note_id":"n1","timestamp":"2026-08-28T10:00:00Z"}`
		req := authed(httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp api.SubmitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.NotEmpty(t, resp.JobID)
		_, err := uuid.Parse(resp.JobID)
		assert.NoError(t, err, "job_id should be a UUID")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		req := authed(httptest.NewRequest(http.MethodPost, "/process",
			strings.NewReader(`{"prompt":"call Alice"}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		req := authed(httptest.NewRequest(http.MethodPost, "/process",
			strings.NewReader(`{not json`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps empty text to 400", func(t *testing.T) {
		t.Parallel()

		intake := &mockIntake{SubmitTextFn: func(context.Context, string) (domain.Job, error) {
			return domain.Job{}, service.ErrEmptyText
		}}
		router, _ := newTestRouter(t, intake)

		body := `{"prompt":"   ","note_id":"n1","timestamp":"2026-08-28T10:00:00Z"}`
		req := authed(httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		body := `{"prompt":"call Alice","note_id":"n1","timestamp":"2026-08-28T10:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects wrong API key", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		body := `{"prompt":"call Alice","note_id":"n1","timestamp":"2026-08-28T10:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func multipartAudio(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadAudio(t *testing.T) {
	t.Parallel()

	t.Run("stores the file and queues a job", func(t *testing.T) {
		t.Parallel()

		intake := &mockIntake{}
		router, uploadDir := newTestRouter(t, intake)

		body, contentType := multipartAudio(t, "audio", "note.wav", []byte("RIFF fake audio"))
		req := authed(httptest.NewRequest(http.MethodPost, "/upload-audio", body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp api.SubmitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Audio queued", resp.Message)

		require.Len(t, intake.audioPaths, 1)
		storedPath := intake.audioPaths[0]
		assert.Equal(t, uploadDir, filepath.Dir(storedPath))
		assert.Equal(t, ".wav", filepath.Ext(storedPath))

		data, err := os.ReadFile(storedPath)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFF fake audio"), data)
	})

	t.Run("rejects a request with no file", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		body, contentType := multipartAudio(t, "other", "note.wav", []byte("x"))
		req := authed(httptest.NewRequest(http.MethodPost, "/upload-audio", body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("removes the stored file when queueing fails", func(t *testing.T) {
		t.Parallel()

		intake := &mockIntake{SubmitAudioFn: func(context.Context, string) (domain.Job, error) {
			return domain.Job{}, errors.New("queue unavailable")
		}}
		router, _ := newTestRouter(t, intake)

		body, contentType := multipartAudio(t, "audio", "note.mp3", []byte("x"))
		req := authed(httptest.NewRequest(http.MethodPost, "/upload-audio", body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Len(t, intake.audioPaths, 1)
		_, err := os.Stat(intake.audioPaths[0])
		assert.True(t, os.IsNotExist(err), "stored file should be removed")
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		body, contentType := multipartAudio(t, "audio", "note.wav", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload-audio", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetJob(t *testing.T) {
	t.Parallel()

	t.Run("returns the job snapshot", func(t *testing.T) {
		t.Parallel()

		stored, err := domain.NewTextJob("buy milk")
		require.NoError(t, err)

		intake := &mockIntake{GetJobFn: func(_ context.Context, id uuid.UUID) (domain.Job, error) {
			require.Equal(t, stored.ID, id)
			return *stored, nil
		}}
		router, _ := newTestRouter(t, intake)

		req := httptest.NewRequest(http.MethodGet, "/jobs/"+stored.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.JobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, stored.ID, resp.Job.ID)
		assert.Equal(t, domain.JobStatusQueued, resp.Job.Status)
	})

	t.Run("unknown job returns 404", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		req := httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid ID returns 400", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, &mockIntake{})

		req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &mockIntake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Time.IsZero())
}
