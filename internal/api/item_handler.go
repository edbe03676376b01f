package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/speakspace/speakspace-api/internal/api/shared"
	"github.com/speakspace/speakspace-api/internal/domain"
	"github.com/speakspace/speakspace-api/internal/store"
)

// ItemHandler serves stored action items.
type ItemHandler struct {
	items  store.ActionItemStore
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items store.ActionItemStore, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		items:  items,
		logger: logger.With("component", "item_handler"),
	}
}

// ListTasks handles GET /tasks.
func (h *ItemHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	if items == nil {
		items = []domain.ActionItem{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: items})
}

// UpdateTask handles PATCH /tasks/{id}: marking an item done or reopening it.
func (h *ItemHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.items.UpdateStatus(r.Context(), id, domain.ItemStatus(req.Status)); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	h.logger.DebugContext(r.Context(), "task status updated",
		"task_id", id,
		"status", req.Status)

	w.WriteHeader(http.StatusNoContent)
}
