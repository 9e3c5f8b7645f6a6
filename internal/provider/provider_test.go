package provider

import (
	"context"
	"testing"

	"github.com/drugscope/drugscope/internal/docindex"
	"github.com/drugscope/drugscope/internal/job"
)

func glpRequest() job.ProviderRequest {
	return job.ProviderRequest{
		Query:    "GLP-1 agonists for obesity",
		Entities: []string{"glp-1", "obesity"},
		Options:  job.DefaultOptions(),
	}
}

func TestAllCoversEveryKind(t *testing.T) {
	idx, err := docindex.New()
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}
	providers := All(idx)
	kinds := append(append([]job.Kind{}, job.AnalysisKinds...), job.KindReport)
	for _, k := range kinds {
		if providers[k] == nil {
			t.Fatalf("no provider for %v", k)
		}
	}
}

func TestMarketKnownSegment(t *testing.T) {
	data, err := (&Market{}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overview, ok := data["market_overview"].(map[string]interface{})
	if !ok || overview["segment"] != "GLP-1 Receptor Agonists" {
		t.Fatalf("unexpected overview: %+v", data["market_overview"])
	}
	if len(data["top_products"].([]interface{})) != 3 {
		t.Fatalf("expected 3 products")
	}
}

func TestMarketUnknownSegment(t *testing.T) {
	data, err := (&Market{}).Execute(context.Background(), job.ProviderRequest{Query: "something obscure"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data["top_products"].([]interface{})) != 0 {
		t.Fatalf("unknown query should return no products")
	}
}

func TestPatentLandscape(t *testing.T) {
	data, err := (&Patent{}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	patents, ok := data["patents"].([]map[string]interface{})
	if !ok || len(patents) != 3 {
		t.Fatalf("expected 3 patents, got %+v", data["patents"])
	}
	landscape := data["landscape_analysis"].(map[string]interface{})
	if landscape["total_patents"] != 3 {
		t.Fatalf("unexpected landscape: %+v", landscape)
	}
	top := landscape["top_assignees"].([]interface{})
	first := top[0].(map[string]interface{})
	if first["name"] != "Novo Nordisk A/S" || first["patent_count"] != 2 {
		t.Fatalf("assignee concentration wrong: %+v", first)
	}
}

func TestClinicalSummary(t *testing.T) {
	data, err := (&Clinical{}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trials := data["trials"].([]map[string]interface{})
	if len(trials) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(trials))
	}
	summary := data["summary"].(map[string]interface{})
	if summary["total_trials"] != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	byStatus := summary["by_status"].(map[string]interface{})
	if byStatus["Completed"] != 3 {
		t.Fatalf("status counts wrong: %+v", byStatus)
	}
}

func TestClinicalUnknownQuery(t *testing.T) {
	data, err := (&Clinical{}).Execute(context.Background(), job.ProviderRequest{Query: "xyz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary := data["summary"].(map[string]interface{})
	if summary["status"] != "No relevant trials found" {
		t.Fatalf("expected degenerate summary, got %+v", summary)
	}
}

func TestWebIntelPayload(t *testing.T) {
	data, err := (&WebIntel{}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	news := data["news"].([]map[string]interface{})
	if len(news) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(news))
	}
	if len(data["regulatory_updates"].([]map[string]interface{})) != 3 {
		t.Fatalf("expected 3 regulatory updates")
	}
	sent := data["sentiment_analysis"].(map[string]interface{})
	if sent["overall_sentiment"] != "Very Positive" {
		t.Fatalf("unexpected sentiment: %+v", sent)
	}
}

func TestLiteratureTrends(t *testing.T) {
	data, err := (&Literature{}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	papers := data["papers"].([]map[string]interface{})
	if len(papers) != 3 {
		t.Fatalf("expected 3 papers, got %d", len(papers))
	}
	trends := data["publication_trends"].(map[string]interface{})
	if trends["total_papers"] != 3 {
		t.Fatalf("unexpected trends: %+v", trends)
	}
	rep := data["repurposing_opportunities"].(map[string]interface{})
	if len(rep["opportunities"].([]interface{})) != 3 {
		t.Fatalf("expected 3 repurposing opportunities")
	}
}

func TestCompanyRAGWithoutDocuments(t *testing.T) {
	idx, err := docindex.New()
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}
	data, err := (&CompanyRAG{Index: idx}).Execute(context.Background(), glpRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data["has_documents"] != false {
		t.Fatalf("expected has_documents false: %+v", data)
	}
}

func TestCompanyRAGWithDocuments(t *testing.T) {
	idx, err := docindex.New()
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}
	if _, err := idx.Add("pipeline.txt", "Our obesity program evaluates GLP-1 receptor agonists."); err != nil {
		t.Fatalf("adding document: %v", err)
	}
	data, err := (&CompanyRAG{Index: idx}).Execute(context.Background(), job.ProviderRequest{Query: "GLP-1 obesity"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data["has_documents"] != true {
		t.Fatalf("expected has_documents true: %+v", data)
	}
	chunks := data["relevant_chunks"].([]interface{})
	if len(chunks) == 0 {
		t.Fatalf("expected relevant chunks")
	}
	insights := data["synthesized_insights"].(map[string]interface{})
	if insights["relevance_summary"] == "" {
		t.Fatalf("expected synthesized insights")
	}
}
