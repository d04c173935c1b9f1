// Package research orchestrates the full pipeline: retrieve papers, enrich
// them, propose ideas, design and simulate an experiment, synthesize the
// narrative and write the report.
package research

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/experiment"
	"github.com/scholarpulse/scholarpulse/internal/ideas"
	"github.com/scholarpulse/scholarpulse/internal/papers"
	"github.com/scholarpulse/scholarpulse/internal/platform/config"
	"github.com/scholarpulse/scholarpulse/internal/report"
)

// Notify receives human-readable progress messages during a run. Used by
// CLI output; nil disables notifications.
type Notify func(message string)

// Searcher retrieves papers for a query.
type Searcher interface {
	Search(ctx context.Context, query string, year int) ([]papers.Paper, error)
}

// Runner wires the pipeline stages together. One Runner serves many runs.
type Runner struct {
	searcher    Searcher
	enricher    *papers.Enricher
	generator   *ideas.Generator
	designer    *experiment.Designer
	evaluator   *experiment.Evaluator
	synthesizer *report.Synthesizer

	outDir string
	logger *zerolog.Logger
}

// NewRunner builds the pipeline from configuration and the generation client.
func NewRunner(client llm.Client, cfg *config.Config, logger *zerolog.Logger) *Runner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Runner{
		searcher:    papers.NewClient(cfg, logger),
		enricher:    papers.NewEnricher(client, cfg, logger),
		generator:   ideas.NewGenerator(client, cfg, logger),
		designer:    experiment.NewDesigner(client, logger),
		evaluator:   experiment.NewEvaluator(time.Now().UnixNano()),
		synthesizer: report.NewSynthesizer(client, logger),
		outDir:      cfg.OutputDir,
		logger:      logger,
	}
}

// Session identifies one pipeline run and where its artifacts went.
type Session struct {
	ID         string
	Query      string
	ReportPath string
	Papers     []papers.Paper
}

// Run executes the whole pipeline for a query. A non-zero year restricts
// retrieval to papers submitted that year. Stage-level generation failures
// degrade to fallbacks; only retrieval and report writing can fail the run.
func (r *Runner) Run(ctx context.Context, query string, year int, notify Notify) (*Session, error) {
	session := &Session{ID: uuid.NewString(), Query: query}

	store, err := newCheckpointStore(filepath.Join(r.outDir, session.ID), r.logger)
	if err != nil {
		return nil, err
	}

	r.say(notify, fmt.Sprintf("Session %s | Query: %s", session.ID, query))

	// 1. Discovery
	refined := r.enricher.RefineQuery(ctx, query)
	if strings.TrimSpace(refined) == "" {
		refined = query
	}

	r.say(notify, "Searching archives for: "+refined)

	found, err := r.searcher.Search(ctx, refined, year)
	if err != nil {
		return nil, fmt.Errorf("paper search: %w", err)
	}

	r.say(notify, fmt.Sprintf("Found %d papers, analyzing...", len(found)))

	session.Papers = r.enricher.Enrich(ctx, found)
	store.save(checkpointPapers, session.Papers)

	// 2. Idea generation
	r.say(notify, "Generating research ideas...")

	directions := r.generator.Generate(ctx, session.Papers)
	store.save(checkpointIdeas, directions)

	// 3. Experiment design for the leading idea
	r.say(notify, "Designing experiment for first idea...")

	design := r.designer.Design(ctx, firstHypothesis(directions))
	store.save(checkpointExperiment, design)

	// 4. Simulated evaluation
	r.say(notify, "Evaluating (simulation)...")

	outcome := r.evaluator.Evaluate(design)
	store.save(checkpointResults, outcome)

	// 5. Narrative synthesis
	r.say(notify, "Synthesizing introduction, issue and conclusion...")

	sections := r.synthesizer.Synthesize(ctx, query, session.Papers)
	store.save(checkpointNarrative, sections)

	// 6. Report
	r.say(notify, "Writing report...")

	path, err := report.NewWriter(store.dir, r.logger).Write(report.Report{
		Query:       query,
		GeneratedAt: time.Now().UTC(),
		Papers:      session.Papers,
		Ideas:       directions,
		Sections:    sections,
		Experiment:  design,
		Outcome:     outcome,
	})
	if err != nil {
		return nil, err
	}

	session.ReportPath = path

	r.say(notify, "Report saved to: "+path)

	return session, nil
}

func (r *Runner) say(notify Notify, message string) {
	r.logger.Info().Msg(message)

	if notify != nil {
		notify(message)
	}
}

func firstHypothesis(directions []ideas.Idea) string {
	if len(directions) == 0 {
		return "No idea generated"
	}

	if directions[0].Description != "" {
		return directions[0].Description
	}

	return directions[0].Title
}
