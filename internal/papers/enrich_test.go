package papers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

// fakeLLM scripts Submit and SubmitBatch results for service tests.
type fakeLLM struct {
	submitResult  llm.TaskResult
	batchResults  []llm.TaskResult
	lastRequest   llm.TaskRequest
	batchRequests []llm.TaskRequest
}

func (f *fakeLLM) Submit(_ context.Context, req llm.TaskRequest) llm.TaskResult {
	f.lastRequest = req
	return f.submitResult
}

func (f *fakeLLM) SubmitBatch(_ context.Context, requests []llm.TaskRequest, _ int, _ time.Duration) []llm.TaskResult {
	f.batchRequests = requests
	return f.batchResults
}

func (f *fakeLLM) ProviderStatuses() []llm.ProviderStatus { return nil }

var _ llm.Client = (*fakeLLM)(nil)

func testEnricherConfig() *config.Config {
	return &config.Config{BatchConcurrency: 3, BatchDeadline: time.Minute}
}

func TestEnrichMergesStructuredAnalysis(t *testing.T) {
	fake := &fakeLLM{
		batchResults: []llm.TaskResult{
			{
				Status:  llm.StatusSuccess,
				Content: `{"objective": "Measure drift", "method": "ablation", "surprise": "ignored"}`,
			},
			{Status: llm.StatusError},
		},
	}

	enricher := NewEnricher(fake, testEnricherConfig(), nil)

	items := enricher.Enrich(context.Background(), []Paper{
		{Title: "First", Summary: "abstract one"},
		{Title: "Second", Summary: "abstract two"},
	})

	require.Len(t, items, 2)
	require.Len(t, fake.batchRequests, 2)
	assert.Equal(t, llm.CategoryFast, fake.batchRequests[0].Category)
	assert.Contains(t, fake.batchRequests[0].Prompt, "abstract one")

	assert.Equal(t, "Measure drift", items[0].Analysis.Objective)
	assert.Equal(t, "ablation", items[0].Analysis.Method)
	assert.Equal(t, fallbackTools, items[0].Analysis.Tools)

	// Failed enrichment keeps fallbacks for everything.
	assert.Equal(t, fallbackObjective, items[1].Analysis.Objective)
	assert.Equal(t, fallbackLimitations, items[1].Analysis.Limitations)
}

func TestEnrichEmptyInput(t *testing.T) {
	enricher := NewEnricher(&fakeLLM{}, testEnricherConfig(), nil)

	assert.Empty(t, enricher.Enrich(context.Background(), nil))
}

func TestRefineQuery(t *testing.T) {
	tests := []struct {
		name     string
		result   llm.TaskResult
		expected string
	}{
		{
			name:     "refined query used",
			result:   llm.TaskResult{Status: llm.StatusSuccess, Content: "cat:cs.AI AND agents"},
			expected: "cat:cs.AI AND agents",
		},
		{
			name:     "quotes and backticks stripped",
			result:   llm.TaskResult{Status: llm.StatusSuccess, Content: "`\"agents\"`"},
			expected: "agents",
		},
		{
			name:     "unbalanced opening parens padded",
			result:   llm.TaskResult{Status: llm.StatusSuccess, Content: "(agents AND (retrieval"},
			expected: "(agents AND (retrieval))",
		},
		{
			name:     "unbalanced closing parens padded",
			result:   llm.TaskResult{Status: llm.StatusSuccess, Content: "agents) AND retrieval)"},
			expected: "((agents) AND retrieval)",
		},
		{
			name:     "failure keeps original",
			result:   llm.TaskResult{Status: llm.StatusError},
			expected: "original query",
		},
		{
			name:     "too short keeps original",
			result:   llm.TaskResult{Status: llm.StatusSuccess, Content: "ab"},
			expected: "original query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{submitResult: tt.result}
			enricher := NewEnricher(fake, testEnricherConfig(), nil)

			got := enricher.RefineQuery(context.Background(), "original query")
			assert.Equal(t, tt.expected, got)

			assert.Equal(t, llm.CategoryFast, fake.lastRequest.Category)
			assert.Equal(t, 1, fake.lastRequest.MaxAttempts)
		})
	}
}
