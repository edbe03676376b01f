package schedule

import (
	"log/slog"
	"time"
)

// Notification is the event handed to the sink when a reminder fires.
type Notification struct {
	TaskDescription string    `json:"task_description"`
	FiredAt         time.Time `json:"fired_at"`
}

// Notifier receives fired-reminder events. Delivery guarantees beyond this
// call are the sink's responsibility.
type Notifier interface {
	Notify(notification Notification)
}

// LogNotifier is the default sink: it logs the fired reminder.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a sink that logs reminder events.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With("component", "reminder_notifier"),
	}
}

// Notify logs the fired reminder.
func (n *LogNotifier) Notify(notification Notification) {
	n.logger.Info("reminder triggered",
		"task_description", notification.TaskDescription,
		"fired_at", notification.FiredAt)
}

var _ Notifier = (*LogNotifier)(nil)
