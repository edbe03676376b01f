package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/speakspace/speakspace-api/internal/api/middleware"
	"github.com/speakspace/speakspace-api/internal/api/shared"
)

// NewRouter assembles the HTTP routing table. Intake and task mutation
// routes sit behind the API key; health and read-only job polling do not.
func NewRouter(jobs *JobHandler, items *ItemHandler, apiKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/healthz", handleHealth)
	r.Get("/jobs/{id}", jobs.GetJob)
	r.Get("/tasks", items.ListTasks)

	auth := middleware.NewAPIKeyMiddleware(apiKey)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Post("/upload-audio", jobs.UploadAudio)
		r.Post("/process", jobs.Process)
		r.Patch("/tasks/{id}", items.UpdateTask)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}
