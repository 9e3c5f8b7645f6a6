// Package provider holds the domain analysis providers behind the task
// runners. The analysis providers serve curated datasets keyed off the
// query; swapping one for a live integration only means replacing its
// Execute body.
package provider

import (
	"strings"

	"github.com/drugscope/drugscope/internal/docindex"
	"github.com/drugscope/drugscope/internal/job"
)

// All builds the full provider set consumed by the pipeline, one per
// task kind.
func All(index *docindex.Index) map[job.Kind]job.Provider {
	return map[job.Kind]job.Provider{
		job.KindMarket:     &Market{},
		job.KindPatent:     &Patent{},
		job.KindClinical:   &Clinical{},
		job.KindWebIntel:   &WebIntel{},
		job.KindLiterature: &Literature{},
		job.KindCompanyRAG: &CompanyRAG{Index: index},
		job.KindReport:     &Report{},
	}
}

// queryText returns the lowercase text a provider matches against,
// preferring the refined query.
func queryText(req job.ProviderRequest) string {
	q := req.RefinedQuery
	if q == "" {
		q = req.Query
	}
	return strings.ToLower(q)
}

func mentionsAny(q string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}
