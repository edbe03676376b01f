// Package schedule turns extracted due times into one-shot timed triggers.
// Reminders are keyed, cancellable while armed, and fire-and-forget: firing
// notifies the configured sink without ever blocking the worker loop.
package schedule
