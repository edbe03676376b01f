// Package job manages the asynchronous note-processing pipeline: the job
// store tracking each submission through its lifecycle, the strict-FIFO work
// queue of pending job references, and the single-consumer worker loop that
// drains the queue one job per tick, runs transcription and extraction, and
// arms reminders for the extracted action items.
package job
