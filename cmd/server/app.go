package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/speakspace/speakspace-api/internal/api"
	"github.com/speakspace/speakspace-api/internal/config"
	"github.com/speakspace/speakspace-api/internal/extract"
	"github.com/speakspace/speakspace-api/internal/job"
	"github.com/speakspace/speakspace-api/internal/platform/gemini"
	"github.com/speakspace/speakspace-api/internal/schedule"
	"github.com/speakspace/speakspace-api/internal/service"
	"github.com/speakspace/speakspace-api/internal/store"
	"github.com/speakspace/speakspace-api/internal/transcribe"
)

// application holds the composed dependencies of the running service.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB // nil when running on the in-memory item store
	worker    *job.Worker
	scheduler *schedule.Scheduler
	router    http.Handler
}

// newApplication wires the full dependency graph: persistence, the
// transcription and extraction chains, the reminder scheduler, the worker,
// and the HTTP layer. Gemini strategies are skipped when no API key is
// configured; the pipeline then runs on local transcription and the
// heuristic extractor alone.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	items, err := app.setupItemStore(ctx)
	if err != nil {
		return nil, err
	}

	jobStore := job.NewStore(logger)
	queue := job.NewQueue()

	app.scheduler = schedule.NewScheduler(schedule.NewLogNotifier(logger), logger)

	transcriber, err := app.setupTranscriber(ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := app.setupExtractor(ctx)
	if err != nil {
		return nil, err
	}

	app.worker = job.NewWorker(
		jobStore,
		queue,
		transcriber,
		extractor,
		items,
		app.scheduler,
		job.WorkerConfig{TickInterval: cfg.Worker.TickInterval()},
		logger,
	)

	intake := service.NewIntakeService(jobStore, queue, logger)
	jobHandler := api.NewJobHandler(intake, cfg.Transcription.UploadDir, logger)
	itemHandler := api.NewItemHandler(items, logger)
	app.router = api.NewRouter(jobHandler, itemHandler, cfg.Auth.APIKey)

	return app, nil
}

// setupItemStore connects to Postgres and applies migrations when a database
// URL is configured, and falls back to the in-memory store otherwise.
func (app *application) setupItemStore(ctx context.Context) (store.ActionItemStore, error) {
	if app.config.Database.URL == "" {
		app.logger.Info("no database configured, using in-memory action item store")
		return store.NewMemoryActionItemStore(app.logger), nil
	}

	db, err := store.Open(ctx, app.config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.db = db
	app.logger.Info("database connected, migrations applied")
	return store.NewPostgresActionItemStore(db, app.logger), nil
}

// setupTranscriber builds the ordered transcription chain: the local command
// first when enabled, then Gemini when an API key is present.
func (app *application) setupTranscriber(ctx context.Context) (job.Transcriber, error) {
	var strategies []transcribe.Transcriber

	tcfg := app.config.Transcription
	if tcfg.LocalEnabled && tcfg.Command != "" {
		strategies = append(strategies,
			transcribe.NewLocalCommandTranscriber(tcfg.Command, tcfg.OutputDir, app.logger))
	}

	if app.config.LLM.GeminiAPIKey != "" {
		remote, err := gemini.NewAudioTranscriber(ctx, app.logger, app.config.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini transcriber: %w", err)
		}
		strategies = append(strategies, remote)
	}

	if len(strategies) == 0 {
		app.logger.Warn("no transcription strategy configured, audio jobs will degrade to the failure sentinel")
	}

	return transcribe.NewChain(app.logger, strategies...), nil
}

// setupExtractor builds the two-tier extraction chain: Gemini structured
// extraction first when configured, the deterministic heuristic always last.
func (app *application) setupExtractor(ctx context.Context) (job.Extractor, error) {
	var strategies []extract.Extractor

	if app.config.LLM.GeminiAPIKey != "" {
		structured, err := gemini.NewStructuredExtractor(ctx, app.logger, app.config.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini extractor: %w", err)
		}
		strategies = append(strategies, structured)
	} else {
		app.logger.Info("no Gemini API key configured, extraction runs on the heuristic parser only")
	}

	strategies = append(strategies, extract.NewHeuristicExtractor(app.logger))

	return extract.NewChain(app.logger, strategies...), nil
}

// cleanup releases resources after the HTTP server has drained.
func (app *application) cleanup() {
	app.worker.Stop()
	app.scheduler.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
