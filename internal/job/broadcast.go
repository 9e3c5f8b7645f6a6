package job

import (
	"log"
	"sync"
)

// ProgressEvent is one fine-grained task transition emitted by a runner,
// independent of the coarser state snapshots held by the registry.
type ProgressEvent struct {
	Kind     Kind
	Status   ResultStatus
	Progress int
	Note     string
	Error    string
}

// Broadcaster holds at most one active callback per job. Delivery is
// best-effort: a panicking callback is swallowed and logged, never
// surfaced to the runner.
type Broadcaster struct {
	mu        sync.Mutex
	callbacks map[string]func(ProgressEvent)
	logger    *log.Logger
}

func NewBroadcaster(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.New(log.Writer(), "[CAST] ", log.LstdFlags)
	}
	return &Broadcaster{
		callbacks: make(map[string]func(ProgressEvent)),
		logger:    logger,
	}
}

// Subscribe registers the callback for a job, replacing any previous one.
func (b *Broadcaster) Subscribe(jobID string, fn func(ProgressEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks[jobID] = fn
}

// Unsubscribe removes the job's callback.
func (b *Broadcaster) Unsubscribe(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.callbacks, jobID)
}

// Publish invokes the job's callback with the event, if one is set.
func (b *Broadcaster) Publish(jobID string, ev ProgressEvent) {
	b.mu.Lock()
	fn := b.callbacks[jobID]
	b.mu.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("progress callback panic for job %s: %v", jobID, r)
		}
	}()
	fn(ev)
}
