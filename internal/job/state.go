package job

import (
	"time"
)

// Kind identifies a category of analysis work within a job.
type Kind string

const (
	KindMarket     Kind = "market"
	KindPatent     Kind = "patent"
	KindClinical   Kind = "clinical"
	KindWebIntel   Kind = "web_intel"
	KindLiterature Kind = "literature"
	KindCompanyRAG Kind = "company_rag"
	KindReport     Kind = "report"
)

// AnalysisKinds lists every analysis kind in fixed pipeline order. The
// report kind is not included; synthesis always runs as the final step.
var AnalysisKinds = []Kind{
	KindMarket,
	KindPatent,
	KindClinical,
	KindWebIntel,
	KindLiterature,
	KindCompanyRAG,
}

// Status is the overall lifecycle status of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final. A terminal job is never
// moved back to a non-terminal status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// ResultStatus is the lifecycle status of a single task's result.
type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultRunning   ResultStatus = "running"
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
)

// Task is one unit of planned work.
type Task struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// Result records the outcome of executing one task kind within a job.
// At most one Result exists per kind (merge upsert invariant).
type Result struct {
	Kind        Kind                   `json:"kind"`
	Status      ResultStatus           `json:"status"`
	Progress    int                    `json:"progress"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Error       string                 `json:"error,omitempty"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// Options are the caller-supplied flags controlling which task kinds run.
type Options struct {
	IncludeMarketData     bool `json:"include_market_data"`
	IncludePatents        bool `json:"include_patents"`
	IncludeClinicalTrials bool `json:"include_clinical_trials"`
	IncludeWebIntel       bool `json:"include_web_intel"`
	IncludeLiterature     bool `json:"include_literature"`
	IncludeCompanyDocs    bool `json:"include_company_docs"`
	CompanyDataOnly       bool `json:"company_data_only"`
}

// DefaultOptions enables the five research analysis kinds. Company
// document lookup is opt-in: it runs only when requested explicitly,
// when the query is classified as a company-data question, or in
// company-data-only mode.
func DefaultOptions() Options {
	return Options{
		IncludeMarketData:     true,
		IncludePatents:        true,
		IncludeClinicalTrials: true,
		IncludeWebIntel:       true,
		IncludeLiterature:     true,
	}
}

// Enabled reports whether the option flag for the given kind is set.
func (o Options) Enabled(k Kind) bool {
	switch k {
	case KindMarket:
		return o.IncludeMarketData
	case KindPatent:
		return o.IncludePatents
	case KindClinical:
		return o.IncludeClinicalTrials
	case KindWebIntel:
		return o.IncludeWebIntel
	case KindLiterature:
		return o.IncludeLiterature
	case KindCompanyRAG:
		return o.IncludeCompanyDocs
	case KindReport:
		return true
	default:
		return false
	}
}

// State is the single mutable record threaded through the pipeline for
// one job. The registry holds the authoritative copy and replaces it as
// a whole unit after each step; everything handed out is a snapshot.
type State struct {
	JobID          string                 `json:"job_id"`
	Query          string                 `json:"query"`
	Options        Options                `json:"options"`
	Intent         string                 `json:"intent,omitempty"`
	Entities       []string               `json:"entities,omitempty"`
	CompanyQuery   bool                   `json:"is_company_query"`
	RefinedQueries map[Kind]string        `json:"refined_queries,omitempty"`
	Plan           []Task                 `json:"plan,omitempty"`
	Results        []Result               `json:"results,omitempty"`
	Report         string                 `json:"report,omitempty"`
	MindMap        map[string]interface{} `json:"mind_map_data,omitempty"`
	Status         Status                 `json:"status"`
	Progress       int                    `json:"progress"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewState creates the initial state for a freshly submitted job.
func NewState(jobID, query string, opts Options) State {
	now := time.Now().UTC()
	return State{
		JobID:     jobID,
		Query:     query,
		Options:   opts,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ResultFor returns the result entry for a kind, if present.
func (s State) ResultFor(k Kind) (Result, bool) {
	for _, r := range s.Results {
		if r.Kind == k {
			return r, true
		}
	}
	return Result{}, false
}

// PlanIncludes reports whether the computed plan contains the kind.
func (s State) PlanIncludes(k Kind) bool {
	for _, t := range s.Plan {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// Clone returns a snapshot safe to hand to concurrent readers. Result
// and plan slices are copied; payload maps are shared but treated as
// immutable once a result is committed.
func (s State) Clone() State {
	out := s
	if s.Entities != nil {
		out.Entities = append([]string(nil), s.Entities...)
	}
	if s.Plan != nil {
		out.Plan = append([]Task(nil), s.Plan...)
	}
	if s.Results != nil {
		out.Results = append([]Result(nil), s.Results...)
	}
	if s.RefinedQueries != nil {
		out.RefinedQueries = make(map[Kind]string, len(s.RefinedQueries))
		for k, v := range s.RefinedQueries {
			out.RefinedQueries[k] = v
		}
	}
	return out
}

// Update is a partial state change produced by one pipeline step.
// Scalar fields overwrite when non-nil; Results are combined with the
// existing collection through MergeResults.
type Update struct {
	Intent         *string
	Entities       []string
	CompanyQuery   *bool
	RefinedQueries map[Kind]string
	Plan           []Task
	Results        []Result
	Report         *string
	MindMap        map[string]interface{}
	Status         *Status
	Progress       *int
	Error          *string
}

// Apply merges an update into the state and returns the new value. Two
// invariants are enforced here rather than trusted to callers: overall
// progress never decreases, and a terminal status is never overwritten.
func (s State) Apply(u Update) State {
	out := s.Clone()
	if u.Intent != nil {
		out.Intent = *u.Intent
	}
	if u.Entities != nil {
		out.Entities = append([]string(nil), u.Entities...)
	}
	if u.CompanyQuery != nil {
		out.CompanyQuery = *u.CompanyQuery
	}
	if u.RefinedQueries != nil {
		out.RefinedQueries = make(map[Kind]string, len(u.RefinedQueries))
		for k, v := range u.RefinedQueries {
			out.RefinedQueries[k] = v
		}
	}
	if u.Plan != nil {
		out.Plan = append([]Task(nil), u.Plan...)
	}
	if len(u.Results) > 0 {
		out.Results = MergeResults(out.Results, u.Results)
	}
	if u.Report != nil {
		out.Report = *u.Report
	}
	if u.MindMap != nil {
		out.MindMap = u.MindMap
	}
	if u.Status != nil && !out.Status.Terminal() {
		out.Status = *u.Status
	}
	if u.Progress != nil && *u.Progress > out.Progress {
		out.Progress = *u.Progress
	}
	if u.Error != nil {
		out.Error = *u.Error
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// MergeResults combines an existing ordered result collection with newly
// produced results. Existing entries keep their original position and are
// replaced in place when a kind reappears; unseen kinds append at the end.
// A new slice is always allocated so snapshots held by readers stay valid.
func MergeResults(existing, incoming []Result) []Result {
	merged := make([]Result, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	index := make(map[Kind]int, len(existing))
	for i, r := range merged {
		index[r.Kind] = i
	}
	for _, r := range incoming {
		if i, ok := index[r.Kind]; ok {
			merged[i] = r
			continue
		}
		index[r.Kind] = len(merged)
		merged = append(merged, r)
	}
	return merged
}
