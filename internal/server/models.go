package server

import "github.com/drugscope/drugscope/internal/job"

// SubmitJobRequest is the body for job submission. Options left nil in
// the request keep their defaults, so callers only state what they want
// to change.
type SubmitJobRequest struct {
	Query   string          `json:"query"`
	Options *OptionsRequest `json:"options,omitempty"`
}

// OptionsRequest mirrors job.Options with optional fields.
type OptionsRequest struct {
	IncludeMarketData     *bool `json:"include_market_data,omitempty"`
	IncludePatents        *bool `json:"include_patents,omitempty"`
	IncludeClinicalTrials *bool `json:"include_clinical_trials,omitempty"`
	IncludeWebIntel       *bool `json:"include_web_intel,omitempty"`
	IncludeLiterature     *bool `json:"include_literature,omitempty"`
	IncludeCompanyDocs    *bool `json:"include_company_docs,omitempty"`
	CompanyDataOnly       *bool `json:"company_data_only,omitempty"`
}

// Resolve overlays the request's explicit flags onto the defaults.
func (r *OptionsRequest) Resolve() job.Options {
	opts := job.DefaultOptions()
	if r == nil {
		return opts
	}
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&opts.IncludeMarketData, r.IncludeMarketData)
	apply(&opts.IncludePatents, r.IncludePatents)
	apply(&opts.IncludeClinicalTrials, r.IncludeClinicalTrials)
	apply(&opts.IncludeWebIntel, r.IncludeWebIntel)
	apply(&opts.IncludeLiterature, r.IncludeLiterature)
	apply(&opts.IncludeCompanyDocs, r.IncludeCompanyDocs)
	apply(&opts.CompanyDataOnly, r.CompanyDataOnly)
	return opts
}

// UploadDocumentRequest is the body for document upload.
type UploadDocumentRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}
