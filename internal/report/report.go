// Package report synthesizes and renders the final research report.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/experiment"
	"github.com/scholarpulse/scholarpulse/internal/ideas"
	"github.com/scholarpulse/scholarpulse/internal/papers"
)

const (
	synthesisTokenBudget = 2048
	maxContextPapers     = 5
)

// Sections are the narrative parts of a report produced by deep synthesis.
type Sections struct {
	Introduction string `json:"introduction"`
	Issue        string `json:"the_issue"`
	Conclusion   string `json:"conclusion"`
}

// Report is everything a finished research session produced.
type Report struct {
	Query       string             `json:"query"`
	GeneratedAt time.Time          `json:"generated_at"`
	Papers      []papers.Paper     `json:"papers"`
	Ideas       []ideas.Idea       `json:"new_ideas"`
	Sections    Sections           `json:"report_sections"`
	Experiment  experiment.Design  `json:"experiment"`
	Outcome     experiment.Outcome `json:"results"`
}

// Synthesizer produces the report's narrative sections.
type Synthesizer struct {
	llm    llm.Client
	logger *zerolog.Logger
}

// NewSynthesizer creates a synthesizer over the generation client.
func NewSynthesizer(client llm.Client, logger *zerolog.Logger) *Synthesizer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Synthesizer{llm: client, logger: logger}
}

// Synthesize asks the deep tier for the narrative sections. Unusable output
// falls back to canned section text so the report always renders.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, items []papers.Paper) Sections {
	res := s.llm.Submit(ctx, llm.TaskRequest{
		Prompt:      synthesisPrompt(query, items),
		Category:    llm.CategoryDeep,
		TokenBudget: synthesisTokenBudget,
	})

	if res.Status != llm.StatusSuccess {
		s.logger.Warn().Msg("report synthesis produced no content, using fallback sections")

		return fallbackSections(query)
	}

	fallback := fallbackSections(query)

	values := llm.ParseStructured(res.Content, map[string]any{
		"introduction": fallback.Introduction,
		"the_issue":    fallback.Issue,
		"conclusion":   fallback.Conclusion,
	})

	return Sections{
		Introduction: sectionValue(values, "introduction", fallback.Introduction),
		Issue:        sectionValue(values, "the_issue", fallback.Issue),
		Conclusion:   sectionValue(values, "conclusion", fallback.Conclusion),
	}
}

// sectionValue keeps the fallback when the model returned a non-string or
// blank value for a section key.
func sectionValue(values map[string]any, key, fallback string) string {
	if s, ok := values[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}

	return fallback
}

func synthesisPrompt(query string, items []papers.Paper) string {
	context := fmt.Sprintf("Research Topic: %s\n\nKey Papers:\n", query)

	for i, p := range items {
		if i >= maxContextPapers {
			break
		}

		context += fmt.Sprintf("- %s\n  Objective: %s\n  Method: %s\n", p.Title, p.Analysis.Objective, p.Analysis.Method)
	}

	return fmt.Sprintf(
		"You are a senior research scientist writing a comprehensive analysis report.\n\n"+
			"Topic: %s\n\n"+
			"Context:\n%s\n"+
			"Generate 3 well-structured sections:\n\n"+
			"1. INTRODUCTION (3-4 paragraphs)\n"+
			"   - Analyze the research landscape\n"+
			"   - Connect historical context with current advances\n"+
			"   - Discuss significance and impact\n\n"+
			"2. KEY FINDINGS (3-4 paragraphs)\n"+
			"   - Synthesize core technical insights from papers\n"+
			"   - Identify patterns and breakthroughs\n"+
			"   - Discuss methodological advances\n\n"+
			"3. CONCLUSION (2-3 paragraphs)\n"+
			"   - Synthesize findings into coherent vision\n"+
			"   - Predict future trajectory\n"+
			"   - Offer strategic outlook\n\n"+
			"Output as JSON:\n{\n  \"introduction\": \"...\",\n  \"the_issue\": \"...\",\n  \"conclusion\": \"...\"\n}",
		query, context,
	)
}

func fallbackSections(query string) Sections {
	return Sections{
		Introduction: fmt.Sprintf(
			"This comprehensive report explores '%s' through systematic analysis of recent research papers. "+
				"The field has seen significant advances in methodology and application, with researchers pushing "+
				"the boundaries of what's possible. Understanding these developments is crucial for future innovation.",
			query,
		),
		Issue: "The core challenge involves balancing performance, efficiency, and scalability in real-world " +
			"deployments. Current methodologies show promise but face limitations in generalization and resource " +
			"requirements. Addressing these bottlenecks is critical for next-generation systems.",
		Conclusion: "The findings reveal substantial potential for transformative advances in this domain. By " +
			"synthesizing insights from multiple research directions, we can chart a path toward more robust and " +
			"efficient solutions. The next 5-10 years will likely see breakthrough innovations that reshape the field.",
	}
}
