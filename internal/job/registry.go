package job

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drugscope/drugscope/internal/metrics"
)

// ErrJobNotFound is returned for operations referencing an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// Registry is the in-process authoritative store of job states. Exactly
// one writer exists per job (its background pipeline execution, through
// Commit); any number of readers may take snapshots concurrently. State
// is replaced as a whole unit per commit so readers never observe a
// partially merged result collection.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]State
	order []string

	pipeline   *Pipeline
	mirror     Mirror
	metrics    *metrics.Metrics
	logger     *log.Logger
	jobTimeout time.Duration
}

func NewRegistry(p *Pipeline, mirror Mirror, m *metrics.Metrics, logger *log.Logger, jobTimeout time.Duration) *Registry {
	if logger == nil {
		logger = log.New(log.Writer(), "[JOBS] ", log.LstdFlags)
	}
	if jobTimeout <= 0 {
		jobTimeout = 15 * time.Minute
	}
	return &Registry{
		jobs:       make(map[string]State),
		pipeline:   p,
		mirror:     mirror,
		metrics:    m,
		logger:     logger,
		jobTimeout: jobTimeout,
	}
}

// Submit creates a fresh job state and schedules the pipeline to run
// detached from the caller.
func (r *Registry) Submit(query string, opts Options) string {
	id := newJobID()
	st := NewState(id, query, opts)

	r.mu.Lock()
	r.jobs[id] = st
	r.order = append(r.order, id)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.JobsSubmitted.Inc()
		r.metrics.ActiveJobs.Inc()
	}
	r.mirrorSave(st)
	r.logger.Printf("job %s submitted: %q", id, query)

	go r.run(id)
	return id
}

func (r *Registry) run(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.jobTimeout)
	defer cancel()
	r.pipeline.Run(ctx, id, r)
}

// Status returns a snapshot of the job's current state.
func (r *Registry) Status(jobID string) (State, bool) {
	r.mu.RLock()
	st, ok := r.jobs[jobID]
	r.mu.RUnlock()
	if !ok {
		return State{}, false
	}
	return st.Clone(), true
}

// List returns snapshots of the most recently created jobs, newest first.
func (r *Registry) List(limit int) []State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.order) {
		limit = len(r.order)
	}
	out := make([]State, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.jobs[r.order[i]].Clone())
	}
	return out
}

// Cancel marks the job cancelled. It returns false only for unknown ids;
// cancelling an already-terminal job is accepted and leaves its status
// untouched. The background pipeline observes the flag at its next step
// boundary; in-flight work is not interrupted.
func (r *Registry) Cancel(jobID string) bool {
	r.mu.Lock()
	cur, ok := r.jobs[jobID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	if cur.Status.Terminal() {
		r.mu.Unlock()
		return true
	}
	cancelled := StatusCancelled
	next := cur.Apply(Update{Status: &cancelled})
	r.jobs[jobID] = next
	r.mu.Unlock()

	r.observeTransition(cur, next, nil)
	r.mirrorSave(next)
	r.logger.Printf("job %s cancelled", jobID)
	return true
}

// Cancelled implements StateHost for the pipeline's step-boundary checks.
func (r *Registry) Cancelled(jobID string) bool {
	r.mu.RLock()
	st, ok := r.jobs[jobID]
	r.mu.RUnlock()
	return ok && st.Status == StatusCancelled
}

// Commit implements StateHost: it merges a step's partial update into
// the job's state under the registry lock and returns the new snapshot.
func (r *Registry) Commit(jobID string, u Update) (State, error) {
	r.mu.Lock()
	cur, ok := r.jobs[jobID]
	if !ok {
		r.mu.Unlock()
		return State{}, ErrJobNotFound
	}
	next := cur.Apply(u)
	r.jobs[jobID] = next
	r.mu.Unlock()

	r.observeTransition(cur, next, u.Results)
	r.mirrorSave(next)
	return next.Clone(), nil
}

func (r *Registry) observeTransition(prev, next State, committed []Result) {
	if r.metrics == nil {
		return
	}
	for _, res := range committed {
		if res.Status == ResultFailed {
			r.metrics.TaskFailures.WithLabelValues(string(res.Kind)).Inc()
		}
	}
	if !prev.Status.Terminal() && next.Status.Terminal() {
		r.metrics.ActiveJobs.Dec()
		r.metrics.JobsFinished.WithLabelValues(string(next.Status)).Inc()
		r.metrics.JobDuration.Observe(next.UpdatedAt.Sub(next.CreatedAt).Seconds())
	}
}

// mirrorSave pushes the snapshot to the persistence mirror. Mirroring is
// best-effort: failures are logged and never affect the job.
func (r *Registry) mirrorSave(st State) {
	if r.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.mirror.Save(ctx, st); err != nil {
		r.logger.Printf("mirror save for job %s failed: %v", st.JobID, err)
	}
}

func newJobID() string {
	u := uuid.New()
	return "job_" + hex.EncodeToString(u[:])[:12]
}
