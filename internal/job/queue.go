package job

import (
	"sync"

	"github.com/google/uuid"
	"github.com/speakspace/speakspace-api/internal/domain"
)

// Ref is the lightweight queue entry for a pending job: the identifier plus
// the payload the worker needs to process it. The mutable job state itself
// lives only in the Store.
type Ref struct {
	ID        uuid.UUID
	Kind      domain.JobKind
	AudioPath string
	RawText   string
}

// RefFor builds the queue reference for a job.
func RefFor(job *domain.Job) Ref {
	return Ref{
		ID:        job.ID,
		Kind:      job.Kind,
		AudioPath: job.AudioPath,
		RawText:   job.RawText,
	}
}

// Queue is a strict-FIFO backlog of pending job references. It is unbounded:
// sustained overload grows the backlog rather than rejecting submissions.
type Queue struct {
	mu   sync.Mutex
	refs []Ref
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		refs: make([]Ref, 0, 16),
	}
}

// Enqueue appends a job reference to the backlog.
func (q *Queue) Enqueue(ref Ref) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refs = append(q.refs, ref)
}

// Dequeue pops the oldest reference. The second return value is false when
// the queue is empty.
func (q *Queue) Dequeue() (Ref, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.refs) == 0 {
		return Ref{}, false
	}

	ref := q.refs[0]
	q.refs = q.refs[1:]
	return ref, true
}

// Len returns the current backlog depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.refs)
}
