package job

import "context"

// Classification is the outcome of intent analysis for a query.
type Classification struct {
	Intent       string
	Entities     []string
	CompanyQuery bool
}

// Classifier analyzes a raw query before planning. Implementations are
// treated as a black box; the pipeline only consumes the outputs.
type Classifier interface {
	Classify(ctx context.Context, query string) (Classification, error)
	Refine(ctx context.Context, query string, entities []string) (map[Kind]string, error)
}

// ProviderRequest carries everything a domain provider may need for one
// task execution. Results is a snapshot of the collection so far; only
// the synthesis provider reads it.
type ProviderRequest struct {
	Query        string
	RefinedQuery string
	Entities     []string
	Options      Options
	Results      []Result
}

// Provider executes the domain logic for one task kind. A returned error
// marks the task failed; it never aborts the pipeline.
type Provider interface {
	Execute(ctx context.Context, req ProviderRequest) (map[string]interface{}, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error)

func (f ProviderFunc) Execute(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
	return f(ctx, req)
}

// Mirror persists job state snapshots outside the process. Saving is
// best-effort; a failing mirror never affects job execution.
type Mirror interface {
	Save(ctx context.Context, st State) error
}
