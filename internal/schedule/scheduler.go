package schedule

import (
	"log/slog"
	"sync"
	"time"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// ReminderState represents the lifecycle of a scheduled reminder.
type ReminderState string

// Possible reminder states. Only armed reminders live in the scheduler's
// active set; fired and cancelled reminders are removed.
const (
	ReminderStateArmed     ReminderState = "armed"
	ReminderStateFired     ReminderState = "fired"
	ReminderStateCancelled ReminderState = "cancelled"
)

// armedReminder is one active timer. The struct pointer doubles as the
// generation token: a firing callback only delivers if its entry is still
// the one registered under the key.
type armedReminder struct {
	key         string
	fireAt      time.Time
	description string
	timer       *time.Timer
}

// Scheduler converts action item due times into keyed one-shot timers.
// Many reminders may be armed at once and fire on their own schedules,
// independent of the worker loop. Re-arming an existing key replaces the
// prior timer (last write wins); timers never stack.
type Scheduler struct {
	mu       sync.Mutex
	armed    map[string]*armedReminder
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler delivering to the given sink.
func NewScheduler(notifier Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		armed:    make(map[string]*armedReminder),
		notifier: notifier,
		logger:   logger.With("component", "reminder_scheduler"),
		now:      time.Now,
	}
}

// ArmForItem arms a reminder for an action item. Items without a due time
// are skipped; the key is derived from the item ID so every call site
// schedules the same item under the same key.
func (s *Scheduler) ArmForItem(item domain.ActionItem) {
	if item.DueAt == nil {
		s.logger.Debug("skipping reminder, no due time",
			"item_id", item.ID,
			"description", item.Description)
		return
	}
	s.Arm(item.ID.String(), *item.DueAt, item.Description)
}

// Arm registers a one-shot reminder under the given key. A fire time that is
// absent from the future (now or past) is silently skipped: a past-due
// reminder is meaningless, not an error. An already-armed key is replaced.
func (s *Scheduler) Arm(key string, fireAt time.Time, description string) {
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		s.logger.Warn("skipping reminder, fire time already passed",
			"key", key,
			"fire_at", fireAt)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.armed[key]; ok {
		prior.timer.Stop()
		s.logger.Debug("replacing armed reminder", "key", key, "prior_fire_at", prior.fireAt)
	}

	reminder := &armedReminder{
		key:         key,
		fireAt:      fireAt,
		description: description,
	}
	reminder.timer = time.AfterFunc(delay, func() {
		s.fire(reminder)
	})
	s.armed[key] = reminder

	s.logger.Info("reminder armed",
		"key", key,
		"fire_at", fireAt,
		"armed_count", len(s.armed))
}

// Cancel transitions an armed reminder to cancelled and prevents firing.
// Cancelling an unknown or already-fired key is a no-op.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder, ok := s.armed[key]
	if !ok {
		return
	}

	reminder.timer.Stop()
	delete(s.armed, key)
	s.logger.Info("reminder cancelled", "key", key, "state", ReminderStateCancelled)
}

// ArmedCount returns the number of currently armed reminders.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// Stop cancels all armed reminders, typically at shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, reminder := range s.armed {
		reminder.timer.Stop()
		delete(s.armed, key)
	}
}

// fire delivers a reminder exactly once and removes it from the active set.
// A reminder replaced or cancelled after its timer fired but before it took
// the lock is dropped.
func (s *Scheduler) fire(reminder *armedReminder) {
	s.mu.Lock()
	current, ok := s.armed[reminder.key]
	if !ok || current != reminder {
		s.mu.Unlock()
		return
	}
	delete(s.armed, reminder.key)
	s.mu.Unlock()

	s.logger.Info("reminder fired",
		"key", reminder.key,
		"fire_at", reminder.fireAt,
		"state", ReminderStateFired)

	s.notifier.Notify(Notification{
		TaskDescription: reminder.description,
		FiredAt:         s.now(),
	})
}
