package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// Transcriber resolves an audio artifact into a transcript string.
// Implementations degrade rather than fail: a broken pipeline yields a
// sentinel transcript, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Extractor turns a transcript into a sequence of action items.
type Extractor interface {
	Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error)
}

// ItemSink receives each extracted action item for durable storage.
// Sink failures are logged by the worker, never fatal to the job.
type ItemSink interface {
	Save(ctx context.Context, item domain.ActionItem) error
}

// ReminderArmer arms a one-shot reminder for an action item with a due time.
type ReminderArmer interface {
	ArmForItem(item domain.ActionItem)
}

// WorkerConfig holds configuration for the worker loop.
type WorkerConfig struct {
	// TickInterval is how often the worker checks the queue for a job.
	// At most one job is processed per tick.
	TickInterval time.Duration
}

// DefaultWorkerConfig returns a WorkerConfig with reasonable defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		TickInterval: 700 * time.Millisecond,
	}
}

// Worker is the single-consumer loop driving the pipeline. On each tick it
// pops at most one job reference from the queue and runs it to completion
// before the next job may start, so at most one job is processing at any
// instant and the store needs no per-job locking.
type Worker struct {
	store       *Store
	queue       *Queue
	transcriber Transcriber
	extractor   Extractor
	items       ItemSink
	reminders   ReminderArmer
	config      WorkerConfig
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	logger      *slog.Logger
}

// NewWorker creates a worker loop over the given store and queue.
func NewWorker(
	store *Store,
	queue *Queue,
	transcriber Transcriber,
	extractor Extractor,
	items ItemSink,
	reminders ReminderArmer,
	config WorkerConfig,
	logger *slog.Logger,
) *Worker {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultWorkerConfig().TickInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		store:       store,
		queue:       queue,
		transcriber: transcriber,
		extractor:   extractor,
		items:       items,
		reminders:   reminders,
		config:      config,
		ctx:         ctx,
		cancelFunc:  cancel,
		logger:      logger.With("component", "worker"),
	}
}

// Start launches the tick loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop shuts down the loop and waits for an in-flight job to finish.
// A job already dequeued is not cancellable; it runs to completion.
func (w *Worker) Stop() {
	w.cancelFunc()
	w.wg.Wait()
}

// run drives the fixed-interval tick.
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.TickInterval)
	defer ticker.Stop()

	w.logger.Debug("worker started", "tick_interval", w.config.TickInterval)

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("worker stopped")
			return
		case <-ticker.C:
			w.Tick(w.ctx)
		}
	}
}

// Tick processes at most one queued job. Exposed so the loop can be driven
// manually in tests.
func (w *Worker) Tick(ctx context.Context) {
	ref, ok := w.queue.Dequeue()
	if !ok {
		return
	}
	w.processJob(ctx, ref)
}

// processJob runs one job through the pipeline and records its outcome.
func (w *Worker) processJob(ctx context.Context, ref Ref) {
	logger := w.logger.With("job_id", ref.ID, "job_kind", ref.Kind)

	if err := w.store.MarkProcessing(ref.ID); err != nil {
		logger.Error("failed to mark job processing", "error", err)
		return
	}

	logger.Info("processing job", "queue_depth", w.queue.Len())

	items, err := w.runPipeline(ctx, ref, logger)
	if err != nil {
		logger.Error("job failed", "error", err)
		if markErr := w.store.MarkFailed(ref.ID, err.Error()); markErr != nil {
			logger.Error("failed to mark job failed", "error", markErr)
		}
		return
	}

	for _, item := range items {
		if saveErr := w.items.Save(ctx, item); saveErr != nil {
			// Persistence is best-effort; the job still completes.
			logger.Error("failed to persist action item",
				"error", saveErr,
				"item_id", item.ID)
		}
		w.reminders.ArmForItem(item)
	}

	if markErr := w.store.MarkDone(ref.ID, items); markErr != nil {
		logger.Error("failed to mark job done", "error", markErr)
		return
	}

	logger.Info("job done", "item_count", len(items))
}

// runPipeline resolves the transcript and extracts action items. A returned
// error is fatal to the job; transcription trouble degrades instead.
func (w *Worker) runPipeline(
	ctx context.Context,
	ref Ref,
	logger *slog.Logger,
) (items []domain.ActionItem, err error) {
	// Anything truly unexpected in the pipeline becomes a job failure
	// rather than killing the loop.
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("panic during job processing: %v", r)
		}
	}()

	transcript := ref.RawText
	if ref.Kind == domain.JobKindAudio {
		// The uploaded artifact is released whether or not the job succeeds.
		defer func() {
			if removeErr := os.Remove(ref.AudioPath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warn("failed to remove audio artifact",
					"error", removeErr,
					"audio_path", ref.AudioPath)
			}
		}()

		text, transcribeErr := w.transcriber.Transcribe(ctx, ref.AudioPath)
		if transcribeErr != nil {
			// Degrade, don't fail: extraction still runs on whatever we got.
			logger.Warn("transcription failed, continuing with best-effort transcript",
				"error", transcribeErr,
				"transcript_length", len(text))
		}
		transcript = text
	}

	items, err = w.extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	return items, nil
}
