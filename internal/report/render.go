package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
)

const (
	maxRenderedAuthors = 3
	dirPerm            = 0o755
	filePerm           = 0o644
)

var titleCaser = cases.Title(language.English)

// Writer renders a report to Markdown, plain text and JSON files under the
// output directory.
type Writer struct {
	outDir string
	logger *zerolog.Logger
}

// NewWriter creates a report writer rooted at outDir.
func NewWriter(outDir string, logger *zerolog.Logger) *Writer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Writer{outDir: outDir, logger: logger}
}

// Write renders the report in all formats and returns the Markdown path.
func (w *Writer) Write(r Report) (string, error) {
	if err := os.MkdirAll(w.outDir, dirPerm); err != nil {
		observability.ReportsGenerated.WithLabelValues("error").Inc()

		return "", fmt.Errorf("create output dir: %w", err)
	}

	stamp := fileStamp(r.GeneratedAt)

	mdPath := filepath.Join(w.outDir, fmt.Sprintf("report_%s.md", stamp))
	txtPath := filepath.Join(w.outDir, fmt.Sprintf("report_%s.txt", stamp))
	jsonPath := filepath.Join(w.outDir, fmt.Sprintf("report_%s.json", stamp))

	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(r)), filePerm); err != nil {
		observability.ReportsGenerated.WithLabelValues("error").Inc()

		return "", fmt.Errorf("write markdown report: %w", err)
	}

	if err := os.WriteFile(txtPath, []byte(renderText(r)), filePerm); err != nil {
		observability.ReportsGenerated.WithLabelValues("error").Inc()

		return "", fmt.Errorf("write text report: %w", err)
	}

	encoded, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		observability.ReportsGenerated.WithLabelValues("error").Inc()

		return "", fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(jsonPath, encoded, filePerm); err != nil {
		observability.ReportsGenerated.WithLabelValues("error").Inc()

		return "", fmt.Errorf("write json report: %w", err)
	}

	observability.ReportsGenerated.WithLabelValues("success").Inc()

	w.logger.Info().Str("path", mdPath).Msg("report written")

	return mdPath, nil
}

// fileStamp formats the timestamp for filenames without characters that
// break on Windows.
func fileStamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(time.RFC3339))
}

// RenderMarkdown renders the full Markdown report.
func RenderMarkdown(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# ScholarPulse Research Report: %s\n\n", titleCaser.String(r.Query))
	fmt.Fprintf(&sb, "**Generated**: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))

	sb.WriteString("## I. Introduction\n\n")
	sb.WriteString(r.Sections.Introduction + "\n\n")

	sb.WriteString("## II. The Issue\n\n")
	sb.WriteString(r.Sections.Issue + "\n\n")

	sb.WriteString("## III. Literature Review\n\n")
	sb.WriteString("The current state of the field is characterized by a rapid shift towards the following " +
		"key breakthroughs. Below is a detailed synthesis of the most relevant academic contributions:\n\n")

	for i, p := range r.Papers {
		fmt.Fprintf(&sb, "### %d. %s ([Google Scholar](%s))\n\n", i+1, p.Title, p.ScholarURL)
		fmt.Fprintf(&sb, "**Authors**: %s\n\n", strings.Join(topAuthors(p.Authors), ", "))
		fmt.Fprintf(&sb, "**Objective**: %s\n\n", p.Analysis.Objective)
		fmt.Fprintf(&sb, "**Summary**: %s\n\n", p.Summary)
		fmt.Fprintf(&sb, "**Method**: %s\n\n", p.Analysis.Method)
		fmt.Fprintf(&sb, "**Tools**: %s\n\n", p.Analysis.Tools)
		fmt.Fprintf(&sb, "**Results**: %s\n\n", p.Analysis.Results)
		sb.WriteString("---\n\n")
	}

	sb.WriteString("## IV. Recommendations\n\n")
	sb.WriteString("### Proposed New Research Directions\n\n")

	for i, idea := range r.Ideas {
		fmt.Fprintf(&sb, "**%d. %s**\n\n", i+1, idea.Title)
		sb.WriteString(idea.Description + "\n\n")
		fmt.Fprintf(&sb, "*Requirements*: %s\n\n", strings.Join(idea.Requirements, ", "))
	}

	sb.WriteString("## V. Conclusion\n\n")
	sb.WriteString(r.Sections.Conclusion + "\n")

	return sb.String()
}

func renderText(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "RESEARCH REPORT: %s\n", strings.ToUpper(r.Query))
	sb.WriteString("==================================================\n\n")

	sb.WriteString("I. INTRODUCTION\n")
	sb.WriteString(r.Sections.Introduction + "\n\n")

	sb.WriteString("II. THE ISSUE\n")
	sb.WriteString(r.Sections.Issue + "\n\n")

	sb.WriteString("III. LITERATURE REVIEW\n")
	sb.WriteString("--------------------------------------------------\n")

	for i, p := range r.Papers {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, p.Title)
		fmt.Fprintf(&sb, "   Objective: %s\n", p.Analysis.Objective)
		fmt.Fprintf(&sb, "   Method: %s\n", p.Analysis.Method)
		fmt.Fprintf(&sb, "   Results: %s\n\n", p.Analysis.Results)
	}

	sb.WriteString("IV. RECOMMENDATIONS\n")
	sb.WriteString("--------------------------------------------------\n")

	for i, idea := range r.Ideas {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, idea.Title)
		fmt.Fprintf(&sb, "   %s\n\n", idea.Description)
	}

	sb.WriteString("V. CONCLUSION\n")
	sb.WriteString(r.Sections.Conclusion + "\n")

	return sb.String()
}

func topAuthors(authors []string) []string {
	if len(authors) > maxRenderedAuthors {
		return authors[:maxRenderedAuthors]
	}

	return authors
}
