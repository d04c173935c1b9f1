package papers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

const (
	enrichPromptAbstractLimit = 600
	enrichTokenBudget         = 384
	refineTokenBudget         = 50
	refineTimeout             = 5 * time.Second
	minRefinedLength          = 3
)

// Enricher fans paper abstracts out to the fast generation tier and merges
// the structured analysis back onto each paper.
type Enricher struct {
	llm         llm.Client
	concurrency int
	deadline    time.Duration
	logger      *zerolog.Logger
}

// NewEnricher creates an enricher over the generation client.
func NewEnricher(client llm.Client, cfg *config.Config, logger *zerolog.Logger) *Enricher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Enricher{
		llm:         client,
		concurrency: cfg.BatchConcurrency,
		deadline:    cfg.BatchDeadline,
		logger:      logger,
	}
}

// Enrich runs one fast generation per paper as a batch and fills in each
// paper's analysis. Papers whose enrichment fails keep fallback values;
// Enrich itself never fails.
func (e *Enricher) Enrich(ctx context.Context, items []Paper) []Paper {
	if len(items) == 0 {
		return items
	}

	requests := make([]llm.TaskRequest, len(items))
	for i, p := range items {
		requests[i] = llm.TaskRequest{
			Prompt:      enrichPrompt(p),
			Category:    llm.CategoryFast,
			TokenBudget: enrichTokenBudget,
		}
	}

	results := e.llm.SubmitBatch(ctx, requests, e.concurrency, e.deadline)

	enriched := 0

	for i, res := range results {
		if res.Status == llm.StatusSuccess {
			enriched++
		}

		items[i].Analysis = toAnalysis(llm.ParseStructured(res.Content, analysisDefaults()))
	}

	e.logger.Info().
		Int(logKeyCount, len(items)).
		Int("enriched", enriched).
		Msg("paper enrichment finished")

	return items
}

// RefineQuery rewrites a free-form research question into an arXiv boolean
// query via the fast tier. Any failure keeps the original query.
func (e *Enricher) RefineQuery(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(
		"Convert to arXiv query (boolean operators OK): '%s'\nOutput ONLY the query string.",
		query,
	)

	res := e.llm.Submit(ctx, llm.TaskRequest{
		Prompt:      prompt,
		Category:    llm.CategoryFast,
		TokenBudget: refineTokenBudget,
		Timeout:     refineTimeout,
		MaxAttempts: 1,
	})

	if res.Status != llm.StatusSuccess {
		return query
	}

	refined := strings.TrimSpace(strings.NewReplacer(`"`, "", "`", "").Replace(res.Content))
	if len(refined) < minRefinedLength {
		e.logger.Warn().Msg("query refinement returned empty, using original")

		return query
	}

	return balanceParens(refined)
}

// balanceParens pads unbalanced parentheses so arXiv does not reject the
// refined query.
func balanceParens(query string) string {
	opening := strings.Count(query, "(")
	closing := strings.Count(query, ")")

	switch {
	case opening > closing:
		return query + strings.Repeat(")", opening-closing)
	case closing > opening:
		return strings.Repeat("(", closing-opening) + query
	}

	return query
}

func enrichPrompt(p Paper) string {
	abstract := truncate(p.Summary, enrichPromptAbstractLimit)

	return fmt.Sprintf(
		"Extract key details from this research abstract in JSON format.\n"+
			"Abstract: %s\n\n"+
			"Return JSON: {"+
			"\"objective\": \"one clear sentence\", "+
			"\"method\": \"core technique\", "+
			"\"tools\": \"technologies used\", "+
			"\"results\": \"key finding\", "+
			"\"application\": \"domain\", "+
			"\"limitations\": \"main constraint\"}",
		abstract,
	)
}

func toAnalysis(values map[string]any) Analysis {
	return Analysis{
		Objective:   stringValue(values, "objective", fallbackObjective),
		Method:      stringValue(values, "method", fallbackMethod),
		Tools:       stringValue(values, "tools", fallbackTools),
		Results:     stringValue(values, "results", fallbackResults),
		Application: stringValue(values, "application", fallbackApplication),
		Limitations: stringValue(values, "limitations", fallbackLimitations),
	}
}

// stringValue keeps the fallback when the model returned a non-string or
// blank value for a key.
func stringValue(values map[string]any, key, fallback string) string {
	if s, ok := values[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}

	return fallback
}
