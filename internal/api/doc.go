// Package api implements the HTTP layer: note intake (text and audio
// upload), job status polling, and the stored task list. Handlers accept
// work and return immediately; the job worker does the actual processing.
package api
