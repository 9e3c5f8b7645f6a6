package classifier

import (
	"context"
	"testing"

	"github.com/drugscope/drugscope/internal/job"
)

func TestClassifyIntents(t *testing.T) {
	k := New()
	cases := []struct {
		query string
		want  string
	}{
		{"semaglutide patent landscape", IntentPatentSearch},
		{"ongoing clinical trials for tirzepatide", IntentClinicalAnalysis},
		{"GLP-1 market size and sales", IntentMarketAnalysis},
		{"recent literature on obesity drugs", IntentLiteratureSearch},
		{"compare wegovy and mounjaro", IntentComparison},
		{"tell me about semaglutide", IntentDrugResearch},
	}
	for _, tc := range cases {
		got, err := k.Classify(context.Background(), tc.query)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.query, err)
		}
		if got.Intent != tc.want {
			t.Fatalf("Classify(%q) intent = %q, want %q", tc.query, got.Intent, tc.want)
		}
	}
}

func TestClassifyExtractsEntities(t *testing.T) {
	got, err := New().Classify(context.Background(), "Semaglutide and tirzepatide for obesity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]bool{"semaglutide": true, "tirzepatide": true, "obesity": true}
	if len(got.Entities) != len(want) {
		t.Fatalf("entities = %v", got.Entities)
	}
	for _, e := range got.Entities {
		if !want[e] {
			t.Fatalf("unexpected entity %q", e)
		}
	}
}

func TestClassifyCompanyQuery(t *testing.T) {
	got, err := New().Classify(context.Background(), "what do our documents say about GLP-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.CompanyQuery {
		t.Fatalf("expected company query detection")
	}
	if got.Intent != IntentCompanyData {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentCompanyData)
	}
}

func TestClassifyCompanyQueryKeepsSpecificIntent(t *testing.T) {
	got, err := New().Classify(context.Background(), "patents mentioned in our documents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.CompanyQuery {
		t.Fatalf("expected company query detection")
	}
	if got.Intent != IntentPatentSearch {
		t.Fatalf("specific intent must win over company_data, got %q", got.Intent)
	}
}

func TestRefineProducesQueryPerKind(t *testing.T) {
	refined, err := New().Refine(context.Background(), "semaglutide outlook", []string{"semaglutide"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kinds := append(append([]job.Kind{}, job.AnalysisKinds...), job.KindReport)
	for _, k := range kinds {
		q, ok := refined[k]
		if !ok || q == "" {
			t.Fatalf("no refined query for %v", k)
		}
	}
	if refined[job.KindMarket] == refined[job.KindPatent] {
		t.Fatalf("kind focus terms missing: market and patent queries identical")
	}
	if refined[job.KindCompanyRAG] != "semaglutide outlook" {
		t.Fatalf("document retrieval should use the raw query, got %q", refined[job.KindCompanyRAG])
	}
}
