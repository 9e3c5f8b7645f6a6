package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUploadDocument(t *testing.T) {
	h := &DocumentsHandler{Index: mustIndex(t)}
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/documents",
		`{"filename":"pipeline.txt","text":"Semaglutide strategy for obesity."}`)
	c := e.NewContext(req, rec)
	if err := h.upload(c); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	if doc["filename"] != "pipeline.txt" || doc["id"] == "" {
		t.Fatalf("unexpected document: %v", doc)
	}
}

func TestUploadDocumentValidation(t *testing.T) {
	h := &DocumentsHandler{Index: mustIndex(t)}
	e := echo.New()

	for _, body := range []string{
		`{"filename":"","text":"content"}`,
		`{"filename":"a.txt","text":"  "}`,
	} {
		req, rec := jsonRequest(http.MethodPost, "/api/documents", body)
		c := e.NewContext(req, rec)
		err := h.upload(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestListDocuments(t *testing.T) {
	h := &DocumentsHandler{Index: mustIndex(t)}
	e := echo.New()

	if _, err := h.Index.Add("a.txt", "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.Index.Add("b.txt", "second"); err != nil {
		t.Fatalf("add: %v", err)
	}

	req, rec := jsonRequest(http.MethodGet, "/api/documents", "")
	c := e.NewContext(req, rec)
	if err := h.list(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var resp struct {
		Documents []map[string]interface{} `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	if resp.Documents[0]["filename"] != "a.txt" {
		t.Fatalf("expected insertion order, got %v", resp.Documents)
	}
}

func TestOptionsResolve(t *testing.T) {
	var r *OptionsRequest
	opts := r.Resolve()
	if !opts.IncludePatents || opts.CompanyDataOnly {
		t.Fatalf("nil request must keep defaults: %+v", opts)
	}

	no := false
	yes := true
	r = &OptionsRequest{IncludePatents: &no, CompanyDataOnly: &yes}
	opts = r.Resolve()
	if opts.IncludePatents || !opts.CompanyDataOnly {
		t.Fatalf("explicit flags not applied: %+v", opts)
	}
	if !opts.IncludeMarketData {
		t.Fatalf("untouched flags must keep defaults: %+v", opts)
	}
}
