// Package experiment designs concrete experiments for a research idea via
// the deep synthesis tier and runs a lightweight simulated evaluation.
package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
)

const designTokenBudget = 1024

// Design describes one concrete experiment for a hypothesis.
type Design struct {
	Hypothesis string   `json:"hypothesis"`
	Objective  string   `json:"objective"`
	Techniques []string `json:"techniques"`
	Dataset    string   `json:"dataset"`
	Method     string   `json:"method"`
	Metric     string   `json:"metric"`
	Trials     int      `json:"trials"`
}

// Designer turns a hypothesis into an experiment design.
type Designer struct {
	llm    llm.Client
	logger *zerolog.Logger
}

// NewDesigner creates a designer over the generation client.
func NewDesigner(client llm.Client, logger *zerolog.Logger) *Designer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Designer{llm: client, logger: logger}
}

// Design asks the deep tier for an experiment design. Missing or unusable
// fields keep sensible defaults; Design never fails.
func (d *Designer) Design(ctx context.Context, hypothesis string) Design {
	res := d.llm.Submit(ctx, llm.TaskRequest{
		Prompt:      designPrompt(hypothesis),
		Category:    llm.CategoryDeep,
		TokenBudget: designTokenBudget,
	})

	if res.Status != llm.StatusSuccess {
		d.logger.Warn().Msg("experiment design produced no content, using defaults")

		return defaultDesign(hypothesis)
	}

	values := llm.ParseStructured(res.Content, designDefaults())

	return Design{
		Hypothesis: hypothesis,
		Objective:  stringValue(values, "objective"),
		Techniques: stringList(values, "techniques"),
		Dataset:    stringValue(values, "dataset"),
		Method:     stringValue(values, "method"),
		Metric:     stringValue(values, "metric"),
		Trials:     intValue(values, "trials"),
	}
}

func designPrompt(hypothesis string) string {
	return fmt.Sprintf(
		"You are a senior research scientist. Based on the following hypothesis, design a concrete experiment.\n\n"+
			"Hypothesis: %q\n\n"+
			"Output a JSON object with the following keys:\n"+
			"- \"objective\": A detailed paragraph explaining the specific goal of this experiment.\n"+
			"- \"techniques\": A list of specific algorithms, libraries, or mathematical techniques required.\n"+
			"- \"dataset\": Name or description of a suitable dataset.\n"+
			"- \"method\": Brief description of the experimental method comparison.\n"+
			"- \"metric\": Primary evaluation metric.\n"+
			"- \"trials\": Recommended number of trials (integer).\n\n"+
			"Return ONLY the valid JSON object. Do not include markdown formatting or backticks.",
		hypothesis,
	)
}

func designDefaults() map[string]any {
	return map[string]any{
		"objective":  "Investigate the proposed hypothesis to validate its claims.",
		"techniques": []any{"Standard training pipeline", "Cross-validation"},
		"dataset":    "Synthetic or standard benchmark",
		"method":     "Baseline vs Proposed",
		"metric":     "Accuracy/Loss",
		"trials":     3,
	}
}

func defaultDesign(hypothesis string) Design {
	values := designDefaults()

	return Design{
		Hypothesis: hypothesis,
		Objective:  stringValue(values, "objective"),
		Techniques: stringList(values, "techniques"),
		Dataset:    stringValue(values, "dataset"),
		Method:     stringValue(values, "method"),
		Metric:     stringValue(values, "metric"),
		Trials:     intValue(values, "trials"),
	}
}

func stringValue(values map[string]any, key string) string {
	if s, ok := values[key].(string); ok && s != "" {
		return s
	}

	if s, ok := designDefaults()[key].(string); ok {
		return s
	}

	return ""
}

func stringList(values map[string]any, key string) []string {
	if raw, ok := values[key].([]any); ok {
		if out := filterStrings(raw); len(out) > 0 {
			return out
		}
	}

	return filterStrings(designDefaults()[key].([]any))
}

func filterStrings(raw []any) []string {
	out := make([]string, 0, len(raw))

	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}

	return out
}

// intValue tolerates JSON numbers, which decode as float64.
func intValue(values map[string]any, key string) int {
	switch n := values[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}

	return designDefaults()[key].(int)
}

// Outcome holds the simulated evaluation of a designed experiment.
type Outcome struct {
	Baseline float64 `json:"baseline"`
	Proposed float64 `json:"proposed"`
	Metric   string  `json:"metric"`
	Trials   int     `json:"trials"`
}

// Evaluator runs a lightweight simulated evaluation so the pipeline can run
// end to end without real training infrastructure.
type Evaluator struct {
	rand *rand.Rand
}

// NewEvaluator creates an evaluator seeded for reproducible runs.
func NewEvaluator(seed int64) *Evaluator {
	return &Evaluator{rand: rand.New(rand.NewSource(seed))}
}

// Evaluate simulates a small improvement of the proposed method over a
// fixed baseline.
func (e *Evaluator) Evaluate(design Design) Outcome {
	const (
		baseline       = 0.70
		minImprovement = 0.005
		maxImprovement = 0.03
	)

	improvement := minImprovement + e.rand.Float64()*(maxImprovement-minImprovement)

	return Outcome{
		Baseline: baseline,
		Proposed: round4(baseline + improvement),
		Metric:   design.Metric,
		Trials:   design.Trials,
	}
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}
