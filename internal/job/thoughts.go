package job

// Thought returns the short human-readable note attached to node update
// events for a task kind in a given status.
func Thought(k Kind, status ResultStatus) string {
	if m, ok := thoughts[k]; ok {
		if s, ok := m[status]; ok {
			return s
		}
	}
	switch status {
	case ResultRunning:
		return "Working..."
	case ResultCompleted:
		return "Done."
	case ResultFailed:
		return "Error occurred."
	default:
		return "Waiting..."
	}
}

var thoughts = map[Kind]map[ResultStatus]string{
	KindMarket: {
		ResultPending:   "Waiting to start market analysis...",
		ResultRunning:   "Analyzing pharmaceutical market data and sales trends...",
		ResultCompleted: "Market analysis complete.",
		ResultFailed:    "Market analysis encountered an error.",
	},
	KindPatent: {
		ResultPending:   "Waiting to search patents...",
		ResultRunning:   "Analyzing patent landscape and IP filings...",
		ResultCompleted: "Patent search complete.",
		ResultFailed:    "Patent search encountered an error.",
	},
	KindClinical: {
		ResultPending:   "Waiting to search clinical trials...",
		ResultRunning:   "Analyzing clinical trial outcomes and phases...",
		ResultCompleted: "Clinical trials analysis complete.",
		ResultFailed:    "Clinical trials search encountered an error.",
	},
	KindWebIntel: {
		ResultPending:   "Waiting to gather web intelligence...",
		ResultRunning:   "Analyzing sentiment and recent developments...",
		ResultCompleted: "Web intelligence gathering complete.",
		ResultFailed:    "Web intelligence gathering encountered an error.",
	},
	KindLiterature: {
		ResultPending:   "Waiting to search literature...",
		ResultRunning:   "Scanning scientific publications and preprints...",
		ResultCompleted: "Literature search complete.",
		ResultFailed:    "Literature search encountered an error.",
	},
	KindCompanyRAG: {
		ResultPending:   "Waiting to search company documents...",
		ResultRunning:   "Retrieving relevant sections from company documents...",
		ResultCompleted: "Company document analysis complete.",
		ResultFailed:    "Company document retrieval encountered an error.",
	},
	KindReport: {
		ResultPending:   "Waiting to synthesize results...",
		ResultRunning:   "Generating comprehensive analysis report...",
		ResultCompleted: "Report generation complete.",
		ResultFailed:    "Report generation encountered an error.",
	},
}
