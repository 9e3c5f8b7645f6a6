package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/drugscope/drugscope/internal/docindex"
	"github.com/drugscope/drugscope/internal/job"
)

// CompanyRAG retrieves relevant sections from uploaded company
// documents through the full-text index.
type CompanyRAG struct {
	Index *docindex.Index
}

func (c *CompanyRAG) Execute(_ context.Context, req job.ProviderRequest) (map[string]interface{}, error) {
	if c.Index == nil || !c.Index.HasDocuments() {
		return noDocuments(), nil
	}

	snippets, err := c.Index.Search(req.Query, 10)
	if err != nil {
		return nil, fmt.Errorf("document search: %w", err)
	}
	if len(snippets) == 0 {
		return noDocuments(), nil
	}

	byDoc := make(map[string]map[string]interface{})
	var docOrder []string
	for _, s := range snippets {
		doc, ok := byDoc[s.DocID]
		if !ok {
			doc = map[string]interface{}{
				"doc_id":   s.DocID,
				"filename": s.Filename,
				"chunks":   []interface{}{},
			}
			byDoc[s.DocID] = doc
			docOrder = append(docOrder, s.DocID)
		}
		doc["chunks"] = append(doc["chunks"].([]interface{}), map[string]interface{}{
			"text":  s.Text,
			"score": s.Score,
		})
	}
	documents := make([]interface{}, 0, len(docOrder))
	for _, id := range docOrder {
		documents = append(documents, byDoc[id])
	}

	top := snippets
	if len(top) > 5 {
		top = top[:5]
	}
	chunks := make([]interface{}, 0, len(top))
	for _, s := range top {
		chunks = append(chunks, map[string]interface{}{
			"text":     s.Text,
			"filename": s.Filename,
			"score":    s.Score,
		})
	}

	return map[string]interface{}{
		"has_documents":        true,
		"document_count":       len(documents),
		"documents":            documents,
		"relevant_chunks":      chunks,
		"synthesized_insights": synthesizeInsights(req.Query, snippets),
	}, nil
}

func noDocuments() map[string]interface{} {
	return map[string]interface{}{
		"has_documents":        false,
		"message":              "No relevant company documents found. Please upload documents for company-specific analysis.",
		"relevant_chunks":      []interface{}{},
		"synthesized_insights": nil,
	}
}

func synthesizeInsights(query string, snippets []docindex.Snippet) map[string]interface{} {
	var total float64
	seen := make(map[string]bool)
	var filenames []interface{}
	for _, s := range snippets {
		total += s.Score
		if !seen[s.Filename] {
			seen[s.Filename] = true
			filenames = append(filenames, s.Filename)
		}
	}
	avg := total / float64(len(snippets))

	var combined strings.Builder
	for i, s := range snippets {
		if i >= 3 {
			break
		}
		if combined.Len() > 0 {
			combined.WriteString(" ")
		}
		combined.WriteString(s.Text)
	}
	preview := combined.String()
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}

	return map[string]interface{}{
		"relevance_summary":   fmt.Sprintf("Found %d relevant sections with average relevance score of %.2f", len(snippets), avg),
		"source_documents":    filenames,
		"key_content_preview": preview,
		"analysis_notes": []interface{}{
			fmt.Sprintf("Query: %s", query),
			fmt.Sprintf("Documents analyzed: %d", len(filenames)),
			fmt.Sprintf("Relevant sections: %d", len(snippets)),
		},
	}
}
