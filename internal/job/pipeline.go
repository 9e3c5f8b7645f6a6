package job

import (
	"context"
	"fmt"
	"log"
)

// Per-step progress checkpoints. Each step owns a fixed value it advances
// the overall progress to; skipped task steps still advance their slot so
// progress stays monotonic regardless of the plan.
const (
	checkpointClassify = 10
	checkpointRefine   = 12
	checkpointPlan     = 15
)

var analysisCheckpoints = map[Kind]int{
	KindMarket:     27,
	KindPatent:     39,
	KindClinical:   51,
	KindWebIntel:   63,
	KindLiterature: 75,
	KindCompanyRAG: 85,
}

// StateHost is the single-writer commit point for a job's state. The
// registry implements it; the pipeline never touches stored state
// directly.
type StateHost interface {
	// Commit merges the update into the job's state atomically and
	// returns the resulting snapshot.
	Commit(jobID string, u Update) (State, error)
	// Cancelled reports whether the job has been cancelled. Checked at
	// every step boundary; in-flight work is not preempted.
	Cancelled(jobID string) bool
}

type step struct {
	name string
	run  func(ctx context.Context, st State) (Update, error)
}

// Pipeline is the fixed sequence of named steps executed for every job:
// intent classification, query refinement, planning, one runner per
// analysis kind, synthesis. There is no dynamic branching; a task kind
// absent from the plan is a no-op pass-through in its step slot.
type Pipeline struct {
	classifier Classifier
	planner    *Planner
	runners    []*Runner
	report     *Runner
	logger     *log.Logger
}

func NewPipeline(cls Classifier, providers map[Kind]Provider, bc *Broadcaster, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPE] ", log.LstdFlags)
	}
	runners := make([]*Runner, 0, len(AnalysisKinds))
	for _, k := range AnalysisKinds {
		runners = append(runners, NewRunner(k, analysisCheckpoints[k], providers[k], bc))
	}
	return &Pipeline{
		classifier: cls,
		planner:    NewPlanner(),
		runners:    runners,
		report:     NewRunner(KindReport, 100, providers[KindReport], bc),
		logger:     logger,
	}
}

// Run executes every step in order, committing each partial update
// through the host. Task-local failures are absorbed by the runners;
// an error escaping a step here is an orchestration-level failure that
// marks the whole job failed and stops the pipeline.
func (p *Pipeline) Run(ctx context.Context, jobID string, host StateHost) {
	running := StatusRunning
	st, err := host.Commit(jobID, Update{Status: &running})
	if err != nil {
		p.logger.Printf("job %s: initial commit failed: %v", jobID, err)
		return
	}

	for _, s := range p.steps() {
		if host.Cancelled(jobID) {
			p.logger.Printf("job %s: cancelled, stopping before step %s", jobID, s.name)
			return
		}
		u, err := s.run(ctx, st)
		if err != nil {
			p.fail(jobID, host, fmt.Errorf("%s: %w", s.name, err))
			return
		}
		st, err = host.Commit(jobID, u)
		if err != nil {
			p.logger.Printf("job %s: commit after step %s failed: %v", jobID, s.name, err)
			return
		}
	}
	p.logger.Printf("job %s: completed with %d results", jobID, len(st.Results))
}

func (p *Pipeline) steps() []step {
	steps := make([]step, 0, len(p.runners)+4)
	steps = append(steps,
		step{name: "classify_intent", run: p.classifyIntent},
		step{name: "refine_queries", run: p.refineQueries},
		step{name: "plan_tasks", run: p.planTasks},
	)
	for _, r := range p.runners {
		runner := r
		steps = append(steps, step{
			name: fmt.Sprintf("run_%s", runner.Kind()),
			run:  runner.Run,
		})
	}
	steps = append(steps, step{name: "synthesize", run: p.synthesize})
	return steps
}

func (p *Pipeline) classifyIntent(ctx context.Context, st State) (Update, error) {
	cls, err := p.classifier.Classify(ctx, st.Query)
	if err != nil {
		return Update{}, err
	}
	checkpoint := checkpointClassify
	return Update{
		Intent:       &cls.Intent,
		Entities:     cls.Entities,
		CompanyQuery: &cls.CompanyQuery,
		Progress:     &checkpoint,
	}, nil
}

func (p *Pipeline) refineQueries(ctx context.Context, st State) (Update, error) {
	refined, err := p.classifier.Refine(ctx, st.Query, st.Entities)
	if err != nil {
		return Update{}, err
	}
	checkpoint := checkpointRefine
	return Update{RefinedQueries: refined, Progress: &checkpoint}, nil
}

func (p *Pipeline) planTasks(ctx context.Context, st State) (Update, error) {
	plan := p.planner.Plan(st.Intent, st.Options)
	checkpoint := checkpointPlan
	return Update{Plan: plan, Progress: &checkpoint}, nil
}

// synthesize runs the report task and lifts its payload into the
// top-level report and visualization fields, then marks the job
// completed. Synthesis tolerates an empty or partially-failed result
// collection; the report provider degrades to a "no data" report.
func (p *Pipeline) synthesize(ctx context.Context, st State) (Update, error) {
	u, err := p.report.Run(ctx, st)
	if err != nil {
		return Update{}, err
	}
	for _, res := range u.Results {
		if res.Kind != KindReport || res.Status != ResultCompleted {
			continue
		}
		if summary, ok := res.Data["summary"].(string); ok {
			u.Report = &summary
		}
		if mm, ok := res.Data["mind_map_data"].(map[string]interface{}); ok {
			u.MindMap = mm
		}
	}
	completed := StatusCompleted
	hundred := 100
	u.Status = &completed
	u.Progress = &hundred
	return u, nil
}

func (p *Pipeline) fail(jobID string, host StateHost, cause error) {
	p.logger.Printf("job %s: orchestration failure: %v", jobID, cause)
	failed := StatusFailed
	msg := cause.Error()
	if _, err := host.Commit(jobID, Update{Status: &failed, Error: &msg}); err != nil {
		p.logger.Printf("job %s: failure commit failed: %v", jobID, err)
	}
}
