// Package papers retrieves research papers from the arXiv Atom API and
// enriches them with model-inferred analysis.
package papers

import (
	"time"
	"unicode/utf8"
)

// Paper is one retrieved research paper plus its inferred analysis.
type Paper struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Summary    string   `json:"summary"`
	PDFURL     string   `json:"pdf_url"`
	ScholarURL string   `json:"google_scholar_url"`

	Published time.Time `json:"published,omitempty"`

	Analysis Analysis `json:"analysis"`
}

// Analysis is the structured enrichment extracted from a paper abstract.
type Analysis struct {
	Objective   string `json:"objective"`
	Method      string `json:"method"`
	Tools       string `json:"tools"`
	Results     string `json:"results"`
	Application string `json:"application"`
	Limitations string `json:"limitations"`
}

// Fallback analysis values used when enrichment produces nothing usable.
const (
	fallbackObjective   = "Research paper analysis"
	fallbackMethod      = "Scientific methodology"
	fallbackTools       = "Research tools"
	fallbackResults     = "Research findings"
	fallbackApplication = "Scientific research"
	fallbackLimitations = "Standard limitations"
)

// truncate cuts s at a byte limit without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}

	return s[:limit]
}

// analysisDefaults doubles as the parse schema: keys define what the model
// may fill in, values are what a paper keeps otherwise.
func analysisDefaults() map[string]any {
	return map[string]any{
		"objective":   fallbackObjective,
		"method":      fallbackMethod,
		"tools":       fallbackTools,
		"results":     fallbackResults,
		"application": fallbackApplication,
		"limitations": fallbackLimitations,
	}
}
