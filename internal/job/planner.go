package job

import "fmt"

// intentForces maps a classified intent to the task kind it implies.
// A forced kind is planned even when its option flag is off.
var intentForces = map[string]Kind{
	"patent_search":     KindPatent,
	"clinical_analysis": KindClinical,
	"market_analysis":   KindMarket,
	"literature_search": KindLiterature,
	"company_data":      KindCompanyRAG,
}

var taskDescriptions = map[Kind]string{
	KindMarket:     "Gather market intelligence and sales data",
	KindPatent:     "Search patent databases and analyze IP landscape",
	KindClinical:   "Search and analyze clinical trials",
	KindWebIntel:   "Gather news and sentiment data",
	KindLiterature: "Search scientific literature and publications",
	KindCompanyRAG: "Retrieve relevant company documents",
	KindReport:     "Synthesize findings into comprehensive report",
}

// Planner decides the ordered set of tasks to execute for a job.
// Planning is deterministic: identical intent and options always yield
// the same plan.
type Planner struct{}

func NewPlanner() *Planner { return &Planner{} }

// Plan computes the task list. Rules, in priority order: company-data-only
// short-circuits to document lookup plus synthesis; otherwise each kind is
// included iff its flag is on or the intent forces it; synthesis is always
// appended last. No kind appears twice and an empty analysis set is valid.
func (p *Planner) Plan(intent string, opts Options) []Task {
	if opts.CompanyDataOnly {
		return []Task{
			newTask(KindCompanyRAG, 1),
			newTask(KindReport, 3),
		}
	}

	forced, hasForced := intentForces[intent]
	tasks := make([]Task, 0, len(AnalysisKinds)+1)
	for _, k := range AnalysisKinds {
		if opts.Enabled(k) || (hasForced && forced == k) {
			priority := 1
			if k == KindWebIntel {
				priority = 2
			}
			tasks = append(tasks, newTask(k, priority))
		}
	}
	tasks = append(tasks, newTask(KindReport, 3))
	return tasks
}

func newTask(k Kind, priority int) Task {
	return Task{
		ID:          fmt.Sprintf("task_%s", k),
		Kind:        k,
		Description: taskDescriptions[k],
		Priority:    priority,
	}
}
