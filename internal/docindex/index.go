// Package docindex maintains the in-memory full-text index over
// uploaded company documents that backs company-data analysis.
package docindex

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/google/uuid"
)

const chunkSize = 800

// Document describes one uploaded file.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Chunks     int       `json:"chunks"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Snippet is one search hit with its surrounding text.
type Snippet struct {
	DocID    string  `json:"doc_id"`
	Filename string  `json:"filename"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

type chunk struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Index is a mem-only bleve index over document chunks. Safe for
// concurrent use.
type Index struct {
	mu     sync.RWMutex
	bleve  bleve.Index
	docs   map[string]Document
	order  []string
	chunks map[string]chunk
}

func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{
		bleve:  idx,
		docs:   make(map[string]Document),
		chunks: make(map[string]chunk),
	}, nil
}

// Add splits text into chunks and indexes them under a fresh document
// id, which it returns.
func (x *Index) Add(filename, text string) (Document, error) {
	docID := uuid.NewString()
	parts := splitChunks(text)

	x.mu.Lock()
	defer x.mu.Unlock()
	for i, part := range parts {
		c := chunk{DocID: docID, Filename: filename, Text: part}
		chunkID := docID + "_" + strconv.Itoa(i)
		if err := x.bleve.Index(chunkID, c); err != nil {
			return Document{}, err
		}
		x.chunks[chunkID] = c
	}
	doc := Document{
		ID:         docID,
		Filename:   filename,
		Chunks:     len(parts),
		UploadedAt: time.Now().UTC(),
	}
	x.docs[docID] = doc
	x.order = append(x.order, docID)
	return doc, nil
}

// List returns all documents in upload order.
func (x *Index) List() []Document {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Document, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, x.docs[id])
	}
	return out
}

// HasDocuments reports whether anything has been uploaded.
func (x *Index) HasDocuments() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs) > 0
}

// Search runs a full-text query and returns up to limit snippets,
// best score first.
func (x *Index) Search(q string, limit int) ([]Snippet, error) {
	if limit <= 0 {
		limit = 5
	}
	query := bleve.NewQueryStringQuery(q)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)

	x.mu.RLock()
	defer x.mu.RUnlock()
	res, err := x.bleve.Search(req)
	if err != nil {
		return nil, err
	}
	out := make([]Snippet, 0, len(res.Hits))
	for _, hit := range res.Hits {
		c, ok := x.chunks[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Snippet{
			DocID:    c.DocID,
			Filename: c.Filename,
			Text:     snippet(c.Text),
			Score:    hit.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// splitChunks breaks text on paragraph boundaries, packing paragraphs
// into chunks of roughly chunkSize characters.
func splitChunks(text string) []string {
	paras := strings.Split(text, "\n\n")
	var chunks []string
	var cur strings.Builder
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(p) > chunkSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks
}

func snippet(s string) string {
	if len(s) <= 300 {
		return s
	}
	return s[:300] + "…"
}
