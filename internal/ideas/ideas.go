// Package ideas proposes novel research directions from enriched paper
// summaries via the creative generation tier.
package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/papers"
	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

const (
	maxContextPapers     = 7
	summaryExcerptLength = 250
	ideasTokenBudget     = 1536

	logKeyCount = "count"
)

// Idea is one proposed research direction.
type Idea struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// Generator proposes research ideas grounded in retrieved papers.
type Generator struct {
	llm      llm.Client
	maxIdeas int
	logger   *zerolog.Logger
}

// NewGenerator creates an idea generator over the generation client.
func NewGenerator(client llm.Client, cfg *config.Config, logger *zerolog.Logger) *Generator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Generator{
		llm:      client,
		maxIdeas: cfg.MaxIdeas,
		logger:   logger,
	}
}

// Generate asks the creative tier for research directions and parses the
// JSON array response. Anything unusable falls back to a static idea set so
// the pipeline always continues with something.
func (g *Generator) Generate(ctx context.Context, items []papers.Paper) []Idea {
	res := g.llm.Submit(ctx, llm.TaskRequest{
		Prompt:      g.prompt(items),
		Category:    llm.CategoryCreative,
		TokenBudget: ideasTokenBudget,
	})

	if res.Status != llm.StatusSuccess {
		g.logger.Warn().Msg("idea generation produced no content, using fallback ideas")

		return fallbackIdeas()
	}

	parsed := parseIdeas(res.Content)
	if len(parsed) == 0 {
		g.logger.Warn().Msg("idea generation returned no parseable ideas, using fallback ideas")

		return fallbackIdeas()
	}

	if len(parsed) > g.maxIdeas {
		parsed = parsed[:g.maxIdeas]
	}

	g.logger.Info().Int(logKeyCount, len(parsed)).Msg("generated research ideas")

	return parsed
}

func (g *Generator) prompt(items []papers.Paper) string {
	var sb strings.Builder

	for i, p := range items {
		if i >= maxContextPapers {
			break
		}

		summary := truncate(p.Summary, summaryExcerptLength)
		if summary != p.Summary {
			summary += "..."
		}

		fmt.Fprintf(&sb, "- %s: %s\n", p.Title, summary)
	}

	return fmt.Sprintf(
		"Based on these research papers, propose %d novel and high-quality research ideas.\n\n"+
			"Papers:\n%s\n"+
			"For each idea provide:\n"+
			"1. Title (clear and specific)\n"+
			"2. Description (3 sentences explaining novelty and approach)\n"+
			"3. Requirements (specific tools, datasets, hardware)\n\n"+
			"Output as JSON array:\n"+
			"[\n  {\"title\": \"...\", \"description\": \"...\", \"requirements\": [\"...\", \"...\"]}\n]",
		g.maxIdeas, sb.String(),
	)
}

// parseIdeas decodes the model's JSON array, dropping entries without a
// title.
func parseIdeas(content string) []Idea {
	var decoded []Idea
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &decoded); err != nil {
		return nil
	}

	ideas := make([]Idea, 0, len(decoded))

	for _, idea := range decoded {
		if strings.TrimSpace(idea.Title) == "" {
			continue
		}

		ideas = append(ideas, idea)
	}

	return ideas
}

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

func fallbackIdeas() []Idea {
	return []Idea{
		{
			Title:        "Enhanced Multi-Modal Learning",
			Description:  "Combine methodologies from analyzed papers for improved cross-domain performance.",
			Requirements: []string{"GPU", "PyTorch", "Multi-modal data"},
		},
		{
			Title:        "Efficient Transfer Learning",
			Description:  "Develop lightweight adaptation for resource-constrained deployment.",
			Requirements: []string{"Edge devices", "TensorFlow Lite"},
		},
		{
			Title:        "Robust Evaluation Framework",
			Description:  "Create comprehensive benchmarking system for fair comparison.",
			Requirements: []string{"Benchmark datasets", "Evaluation metrics"},
		},
	}
}
