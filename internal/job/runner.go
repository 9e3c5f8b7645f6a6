package job

import (
	"context"
	"fmt"
	"time"
)

// Runner wraps the execution of one task kind with a uniform lifecycle:
// emit running, invoke the domain provider, record completed or failed.
// Provider errors and panics are caught here and recorded on the result;
// they never propagate to the pipeline.
type Runner struct {
	kind        Kind
	checkpoint  int
	provider    Provider
	broadcaster *Broadcaster
}

func NewRunner(kind Kind, checkpoint int, provider Provider, bc *Broadcaster) *Runner {
	return &Runner{kind: kind, checkpoint: checkpoint, provider: provider, broadcaster: bc}
}

func (r *Runner) Kind() Kind { return r.kind }

// Run executes the task against the given state snapshot and returns a
// single-entry result update. A kind absent from the current plan
// short-circuits: only the step's coarse progress checkpoint advances
// and no result entry is added.
func (r *Runner) Run(ctx context.Context, st State) (Update, error) {
	checkpoint := r.checkpoint
	if !st.PlanIncludes(r.kind) {
		return Update{Progress: &checkpoint}, nil
	}

	r.publish(st.JobID, ResultRunning, 0, "")

	started := time.Now().UTC()
	res := Result{
		Kind:      r.kind,
		Status:    ResultRunning,
		StartedAt: &started,
	}

	payload, err := r.execute(ctx, ProviderRequest{
		Query:        st.Query,
		RefinedQuery: st.RefinedQueries[r.kind],
		Entities:     st.Entities,
		Options:      st.Options,
		Results:      st.Results,
	})

	finished := time.Now().UTC()
	res.CompletedAt = &finished
	if err != nil {
		res.Status = ResultFailed
		res.Error = err.Error()
		r.publish(st.JobID, ResultFailed, res.Progress, res.Error)
	} else {
		res.Status = ResultCompleted
		res.Progress = 100
		res.Data = payload
		r.publish(st.JobID, ResultCompleted, 100, "")
	}

	return Update{Results: []Result{res}, Progress: &checkpoint}, nil
}

// execute calls the provider, converting a panic into an error as a last
// resort so a misbehaving provider still only fails its own task.
func (r *Runner) execute(ctx context.Context, req ProviderRequest) (payload map[string]interface{}, err error) {
	if r.provider == nil {
		return nil, fmt.Errorf("no provider registered for task kind %q", r.kind)
	}
	defer func() {
		if rec := recover(); rec != nil {
			payload = nil
			err = fmt.Errorf("provider for %q panicked: %v", r.kind, rec)
		}
	}()
	return r.provider.Execute(ctx, req)
}

func (r *Runner) publish(jobID string, status ResultStatus, progress int, errMsg string) {
	if r.broadcaster == nil {
		return
	}
	r.broadcaster.Publish(jobID, ProgressEvent{
		Kind:     r.kind,
		Status:   status,
		Progress: progress,
		Note:     Thought(r.kind, status),
		Error:    errMsg,
	})
}
