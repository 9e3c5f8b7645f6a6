// Package classifier provides the keyword-driven intent classifier used
// ahead of planning. It stands in for an LLM-backed classifier behind
// the same interface.
package classifier

import (
	"context"
	"strings"

	"github.com/drugscope/drugscope/internal/job"
)

// Intents recognized by the classifier.
const (
	IntentDrugResearch     = "drug_research"
	IntentPatentSearch     = "patent_search"
	IntentClinicalAnalysis = "clinical_analysis"
	IntentMarketAnalysis   = "market_analysis"
	IntentLiteratureSearch = "literature_search"
	IntentCompanyData      = "company_data"
	IntentComparison       = "comparison"
)

// entityKeywords are the pharma terms extracted as entities when present
// in a query.
var entityKeywords = []string{
	"glp-1", "glp1", "semaglutide", "tirzepatide", "liraglutide",
	"obesity", "diabetes", "wegovy", "ozempic", "mounjaro", "rybelsus",
}

// companyKeywords signal the caller is asking about uploaded company
// material rather than the public record.
var companyKeywords = []string{
	"company data", "our documents", "internal", "uploaded",
	"company files", "our files", "my documents", "proprietary",
	"from our", "in our", "company's", "organization",
}

// Keyword is the heuristic job.Classifier implementation.
type Keyword struct{}

func New() *Keyword { return &Keyword{} }

// Classify derives intent, entities, and the company-query flag from the
// raw query text. The default intent is general drug research; specific
// vocabulary narrows it.
func (k *Keyword) Classify(_ context.Context, query string) (job.Classification, error) {
	q := strings.ToLower(query)

	intent := IntentDrugResearch
	switch {
	case strings.Contains(q, "patent"):
		intent = IntentPatentSearch
	case strings.Contains(q, "clinical") || strings.Contains(q, "trial"):
		intent = IntentClinicalAnalysis
	case strings.Contains(q, "market") || strings.Contains(q, "sales"):
		intent = IntentMarketAnalysis
	case strings.Contains(q, "literature") || strings.Contains(q, "publication") || strings.Contains(q, "paper"):
		intent = IntentLiteratureSearch
	case strings.Contains(q, "compare"):
		intent = IntentComparison
	}

	var entities []string
	for _, kw := range entityKeywords {
		if strings.Contains(q, kw) {
			entities = append(entities, kw)
		}
	}

	companyQuery := IsCompanyQuery(query)
	if companyQuery && intent == IntentDrugResearch {
		intent = IntentCompanyData
	}

	return job.Classification{
		Intent:       intent,
		Entities:     entities,
		CompanyQuery: companyQuery,
	}, nil
}

// Refine produces one search-optimized query per task kind by combining
// the original query with the kind's focus terms and extracted entities.
func (k *Keyword) Refine(_ context.Context, query string, entities []string) (map[job.Kind]string, error) {
	base := strings.TrimSpace(query)
	focus := strings.Join(entities, " ")

	refined := make(map[job.Kind]string, len(job.AnalysisKinds)+1)
	refined[job.KindMarket] = compose(base, "market size sales revenue trends", focus)
	refined[job.KindPatent] = compose(base, "patent filings intellectual property", focus)
	refined[job.KindClinical] = compose(base, "clinical trials phases outcomes", focus)
	refined[job.KindWebIntel] = compose(base, "news sentiment recent developments", focus)
	refined[job.KindLiterature] = compose(base, "scientific literature peer reviewed studies", focus)
	refined[job.KindCompanyRAG] = base
	refined[job.KindReport] = base
	return refined, nil
}

// IsCompanyQuery reports whether the message asks for company-specific
// data.
func IsCompanyQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range companyKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func compose(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
