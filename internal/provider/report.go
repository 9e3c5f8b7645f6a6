package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/drugscope/drugscope/internal/job"
)

// Report synthesizes the completed analysis results into an executive
// summary, a mind-map graph for the UI, and a sectioned report. It
// tolerates an empty or partially-failed result collection.
type Report struct{}

func (r *Report) Execute(_ context.Context, req job.ProviderRequest) (map[string]interface{}, error) {
	data := collectData(req.Results)
	summary := buildSummary(req.Query, data)
	return map[string]interface{}{
		"mind_map_data": buildMindMap(req.Query, data),
		"summary":       summary,
		"report":        compileReport(req.Query, req.Results, summary),
	}, nil
}

// collectData maps each analysis kind to its completed payload. Failed
// and pending results contribute nothing.
func collectData(results []job.Result) map[job.Kind]map[string]interface{} {
	out := make(map[job.Kind]map[string]interface{})
	for _, res := range results {
		if res.Status == job.ResultCompleted && res.Data != nil {
			out[res.Kind] = res.Data
		}
	}
	return out
}

func buildSummary(query string, data map[job.Kind]map[string]interface{}) string {
	var findings []string
	if n := len(items(data[job.KindPatent], "patents")); n > 0 {
		findings = append(findings, fmt.Sprintf("%d patents", n))
	}
	if n := len(items(data[job.KindClinical], "trials")); n > 0 {
		findings = append(findings, fmt.Sprintf("%d clinical trials", n))
	}
	if n := len(items(data[job.KindWebIntel], "news")); n > 0 {
		findings = append(findings, fmt.Sprintf("%d news articles", n))
	}
	if len(items(data[job.KindMarket], "top_products")) > 0 {
		findings = append(findings, "market data")
	}
	if hasDocs, _ := data[job.KindCompanyRAG]["has_documents"].(bool); hasDocs {
		findings = append(findings, "your company documents")
	}

	if len(findings) == 0 {
		return fmt.Sprintf("Research complete for **%s**. The mindmap is ready - click on nodes to explore the findings.", query)
	}
	joined := findings[0]
	if len(findings) > 1 {
		joined = strings.Join(findings[:len(findings)-1], ", ") + " and " + findings[len(findings)-1]
	}
	return fmt.Sprintf("Research complete for **%s**. I found %s. Explore the interactive mindmap to dive into the details.", query, joined)
}

func compileReport(query string, results []job.Result, summary string) map[string]interface{} {
	sections := []interface{}{}
	for _, res := range results {
		if res.Kind == job.KindReport || res.Status != job.ResultCompleted || res.Data == nil {
			continue
		}
		sections = append(sections, map[string]interface{}{
			"title":  string(res.Kind),
			"status": string(res.Status),
			"data":   res.Data,
		})
	}
	return map[string]interface{}{
		"title":             fmt.Sprintf("Drug Discovery Analysis: %s", query),
		"executive_summary": summary,
		"sections":          sections,
		"query":             query,
	}
}

// mapBuilder accumulates nodes and edges with sequential edge ids.
type mapBuilder struct {
	nodes  []interface{}
	edges  []interface{}
	edgeID int
}

func (b *mapBuilder) node(n map[string]interface{}) { b.nodes = append(b.nodes, n) }

func (b *mapBuilder) edge(source, target string) {
	b.edgeID++
	b.edges = append(b.edges, map[string]interface{}{
		"id":     fmt.Sprintf("e%d", b.edgeID),
		"source": source,
		"target": target,
	})
}

const rootID = "root_query"

func buildMindMap(query string, data map[job.Kind]map[string]interface{}) map[string]interface{} {
	b := &mapBuilder{}
	var categories []interface{}

	if id := b.marketCategory(data[job.KindMarket]); id != "" {
		categories = append(categories, id)
	}
	if id := b.patentCategory(data[job.KindPatent]); id != "" {
		categories = append(categories, id)
	}
	if id := b.clinicalCategory(data[job.KindClinical]); id != "" {
		categories = append(categories, id)
	}
	if id := b.newsCategory(data[job.KindWebIntel]); id != "" {
		categories = append(categories, id)
	}
	if id := b.companyCategory(data[job.KindCompanyRAG]); id != "" {
		categories = append(categories, id)
	}

	if len(categories) == 0 {
		b.node(map[string]interface{}{
			"id":       "cat_no_data",
			"label":    "No data found",
			"type":     "molecule",
			"parentId": rootID,
		})
		b.edge(rootID, "cat_no_data")
		categories = append(categories, "cat_no_data")
	}

	root := map[string]interface{}{
		"id":         rootID,
		"label":      truncate(query, 30),
		"type":       "disease",
		"childIds":   categories,
		"isExpanded": true,
	}
	nodes := append([]interface{}{root}, b.nodes...)
	return map[string]interface{}{"nodes": nodes, "edges": b.edges}
}

func (b *mapBuilder) marketCategory(data map[string]interface{}) string {
	products := items(data, "top_products")
	if len(products) == 0 {
		return ""
	}
	catID := "cat_market"
	var childIDs []interface{}
	for i, p := range products {
		if i >= 5 {
			break
		}
		prodID := fmt.Sprintf("prod_market_%d", i)
		childIDs = append(childIDs, prodID)
		b.node(map[string]interface{}{
			"id":       prodID,
			"label":    truncate(field(p, "name"), 25),
			"type":     "product",
			"parentId": catID,
			"data": map[string]interface{}{
				"match_score":  90 - i*5,
				"manufacturer": field(p, "manufacturer"),
				"revenue":      field(p, "revenue_2024"),
				"market_share": field(p, "market_share"),
			},
		})
		b.edge(catID, prodID)
	}
	b.node(map[string]interface{}{
		"id":         catID,
		"label":      fmt.Sprintf("Market (%d)", len(products)),
		"type":       "molecule",
		"parentId":   rootID,
		"childIds":   childIDs,
		"isExpanded": false,
	})
	b.edge(rootID, catID)
	return catID
}

func (b *mapBuilder) patentCategory(data map[string]interface{}) string {
	patents := items(data, "patents")
	if len(patents) == 0 {
		return ""
	}
	catID := "cat_patents"

	byAssignee := make(map[string][]map[string]interface{})
	var order []string
	for _, p := range patents {
		assignee := truncate(fieldOr(p, "assignee", "Unknown"), 20)
		if _, ok := byAssignee[assignee]; !ok {
			order = append(order, assignee)
		}
		byAssignee[assignee] = append(byAssignee[assignee], p)
	}

	var assigneeIDs []interface{}
	for _, assignee := range order {
		group := byAssignee[assignee]
		assigneeID := safeID("assignee", assignee)
		assigneeIDs = append(assigneeIDs, assigneeID)
		var childIDs []interface{}
		for i, p := range group {
			if i >= 3 {
				break
			}
			nodeID := fmt.Sprintf("pat_%s_%d", assigneeID, i)
			childIDs = append(childIDs, nodeID)
			b.node(map[string]interface{}{
				"id":       nodeID,
				"label":    truncate(field(p, "title"), 25),
				"type":     "product",
				"parentId": assigneeID,
				"data": map[string]interface{}{
					"match_score": intFieldOr(p, "relevance_score", 80),
					"patent_id":   field(p, "patent_id"),
					"expiration":  field(p, "expiration_date"),
				},
			})
			b.edge(assigneeID, nodeID)
		}
		b.node(map[string]interface{}{
			"id":         assigneeID,
			"label":      fmt.Sprintf("%s (%d)", assignee, len(group)),
			"type":       "company",
			"parentId":   catID,
			"childIds":   childIDs,
			"isExpanded": false,
			"data":       map[string]interface{}{"patent_count": len(group)},
		})
		b.edge(catID, assigneeID)
	}

	b.node(map[string]interface{}{
		"id":         catID,
		"label":      fmt.Sprintf("Patents (%d)", len(patents)),
		"type":       "molecule",
		"parentId":   rootID,
		"childIds":   assigneeIDs,
		"isExpanded": false,
	})
	b.edge(rootID, catID)
	return catID
}

func (b *mapBuilder) clinicalCategory(data map[string]interface{}) string {
	trials := items(data, "trials")
	if len(trials) == 0 {
		return ""
	}
	catID := "cat_clinical"

	byPhase := make(map[string][]map[string]interface{})
	for _, t := range trials {
		phase := fieldOr(t, "phase", "Unknown Phase")
		byPhase[phase] = append(byPhase[phase], t)
	}
	phaseOrder := []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4", "Unknown Phase"}
	rank := func(p string) int {
		for i, known := range phaseOrder {
			if p == known {
				return i
			}
		}
		return 99
	}
	phases := make([]string, 0, len(byPhase))
	for p := range byPhase {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool { return rank(phases[i]) < rank(phases[j]) })

	var phaseIDs []interface{}
	for _, phase := range phases {
		group := byPhase[phase]
		phaseID := safeID("phase", phase)
		phaseIDs = append(phaseIDs, phaseID)
		var childIDs []interface{}
		for i, t := range group {
			if i >= 3 {
				break
			}
			nodeID := fmt.Sprintf("trial_%s_%d", phaseID, i)
			childIDs = append(childIDs, nodeID)
			status := fieldOr(t, "status", "Unknown")
			score := 70
			switch {
			case strings.Contains(phase, "Phase 3"):
				score = 90
			case strings.Contains(phase, "Phase 2"):
				score = 75
			}
			if status == "Completed" {
				score += 5
			}
			if score > 99 {
				score = 99
			}
			b.node(map[string]interface{}{
				"id":       nodeID,
				"label":    truncate(field(t, "title"), 25),
				"type":     "product",
				"parentId": phaseID,
				"data": map[string]interface{}{
					"match_score": score,
					"nct_id":      field(t, "nct_id"),
					"status":      status,
					"sponsor":     field(t, "sponsor"),
				},
			})
			b.edge(phaseID, nodeID)
		}
		b.node(map[string]interface{}{
			"id":         phaseID,
			"label":      fmt.Sprintf("%s (%d)", phase, len(group)),
			"type":       "category",
			"parentId":   catID,
			"childIds":   childIDs,
			"isExpanded": false,
		})
		b.edge(catID, phaseID)
	}

	b.node(map[string]interface{}{
		"id":         catID,
		"label":      fmt.Sprintf("Clinical Trials (%d)", len(trials)),
		"type":       "molecule",
		"parentId":   rootID,
		"childIds":   phaseIDs,
		"isExpanded": false,
	})
	b.edge(rootID, catID)
	return catID
}

func (b *mapBuilder) newsCategory(data map[string]interface{}) string {
	news := items(data, "news")
	if len(news) == 0 {
		return ""
	}
	catID := "cat_news"

	themes := []struct {
		key, label string
		words      []string
	}{
		{"regulatory", "Regulatory News", []string{"fda", "ema", "approval", "regulatory", "approved"}},
		{"market", "Market Updates", []string{"market", "sales", "revenue", "demand", "supply"}},
		{"research", "Research News", []string{"study", "trial", "research", "clinical", "data"}},
		{"other", "General News", nil},
	}
	classify := func(title string) string {
		title = strings.ToLower(title)
		for _, th := range themes[:3] {
			for _, w := range th.words {
				if strings.Contains(title, w) {
					return th.key
				}
			}
		}
		return "other"
	}
	byTheme := make(map[string][]map[string]interface{})
	for _, article := range news {
		key := classify(field(article, "title"))
		byTheme[key] = append(byTheme[key], article)
	}

	var themeIDs []interface{}
	for _, th := range themes {
		articles := byTheme[th.key]
		if len(articles) == 0 {
			continue
		}
		themeID := safeID("theme", th.key)
		themeIDs = append(themeIDs, themeID)
		var childIDs []interface{}
		for i, article := range articles {
			if i >= 3 {
				break
			}
			nodeID := fmt.Sprintf("news_%s_%d", themeID, i)
			childIDs = append(childIDs, nodeID)
			b.node(map[string]interface{}{
				"id":       nodeID,
				"label":    truncate(field(article, "title"), 25),
				"type":     "product",
				"parentId": themeID,
				"data": map[string]interface{}{
					"match_score": intFieldOr(article, "relevance", 70),
					"source":      field(article, "source"),
					"date":        field(article, "date"),
					"url":         field(article, "url"),
				},
			})
			b.edge(themeID, nodeID)
		}
		b.node(map[string]interface{}{
			"id":         themeID,
			"label":      fmt.Sprintf("%s (%d)", th.label, len(articles)),
			"type":       "category",
			"parentId":   catID,
			"childIds":   childIDs,
			"isExpanded": false,
		})
		b.edge(catID, themeID)
	}

	b.node(map[string]interface{}{
		"id":         catID,
		"label":      fmt.Sprintf("News & Updates (%d)", len(news)),
		"type":       "molecule",
		"parentId":   rootID,
		"childIds":   themeIDs,
		"isExpanded": false,
	})
	b.edge(rootID, catID)
	return catID
}

func (b *mapBuilder) companyCategory(data map[string]interface{}) string {
	if hasDocs, _ := data["has_documents"].(bool); !hasDocs {
		return ""
	}
	documents := items(data, "documents")
	if len(documents) == 0 {
		return ""
	}
	catID := "cat_company"
	var childIDs []interface{}
	for i, doc := range documents {
		if i >= 5 {
			break
		}
		nodeID := fmt.Sprintf("doc_%d", i)
		childIDs = append(childIDs, nodeID)
		chunks, _ := doc["chunks"].([]interface{})
		b.node(map[string]interface{}{
			"id":       nodeID,
			"label":    truncate(fieldOr(doc, "filename", fmt.Sprintf("Document %d", i+1)), 25),
			"type":     "product",
			"parentId": catID,
			"data": map[string]interface{}{
				"doc_id": field(doc, "doc_id"),
				"chunks": len(chunks),
			},
		})
		b.edge(catID, nodeID)
	}
	b.node(map[string]interface{}{
		"id":         catID,
		"label":      fmt.Sprintf("Company Docs (%d)", len(documents)),
		"type":       "molecule",
		"parentId":   rootID,
		"childIds":   childIDs,
		"isExpanded": false,
	})
	b.edge(rootID, catID)
	return catID
}

// items extracts a list-of-objects field, accepting both the concrete
// and the decoded-JSON element types.
func items(data map[string]interface{}, key string) []map[string]interface{} {
	if data == nil {
		return nil
	}
	var out []map[string]interface{}
	switch v := data[key].(type) {
	case []map[string]interface{}:
		out = v
	case []interface{}:
		for _, e := range v {
			if m, ok := e.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func field(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func fieldOr(m map[string]interface{}, key, fallback string) string {
	if s := field(m, key); s != "" {
		return s
	}
	return fallback
}

func intFieldOr(m map[string]interface{}, key string, fallback int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func safeID(prefix, name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	if len(name) > 20 {
		name = name[:20]
	}
	return prefix + "_" + name
}
