package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8080"`
	OutputDir  string `env:"OUTPUT_DIR" envDefault:"output"`

	// Provider credentials and endpoints. A provider is registered only when
	// its key is set; with no keys at all the mock provider is used.
	GroqAPIKey   string `env:"GROQ_API_KEY"`
	GroqModel    string `env:"GROQ_MODEL" envDefault:"llama3-70b-8192"`
	GroqBaseURL  string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GeminiAPIKey string `env:"GOOGLE_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OxloAPIKey   string `env:"OXLO_API_KEY"`
	OxloModel    string `env:"OXLO_MODEL" envDefault:"llama-3.1-70b"`
	OxloBaseURL  string `env:"OXLO_BASE_URL" envDefault:"https://api.oxlo.ai/v1"`

	// Category routing overrides: ordered provider IDs per task category.
	// Empty lists fall back to capability-tag order from the registry.
	RoutingFast     []string `env:"ROUTING_FAST" envSeparator:","`
	RoutingDeep     []string `env:"ROUTING_DEEP" envSeparator:","`
	RoutingCreative []string `env:"ROUTING_CREATIVE" envSeparator:","`

	// Invoker tuning.
	MaxAttemptsPerProvider int           `env:"MAX_ATTEMPTS_PER_PROVIDER" envDefault:"2"`
	BackoffBase            time.Duration `env:"BACKOFF_BASE" envDefault:"200ms"`
	BackoffCap             time.Duration `env:"BACKOFF_CAP" envDefault:"5s"`
	RateLimitRPS           int           `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Batch processing.
	BatchConcurrency int           `env:"BATCH_CONCURRENCY" envDefault:"3"`
	BatchDeadline    time.Duration `env:"BATCH_DEADLINE" envDefault:"90s"`

	// Paper retrieval.
	ArxivBaseURL    string        `env:"ARXIV_BASE_URL" envDefault:"http://export.arxiv.org/api/query"`
	ArxivMaxResults int           `env:"ARXIV_MAX_RESULTS" envDefault:"10"`
	ArxivTimeout    time.Duration `env:"ARXIV_TIMEOUT" envDefault:"15s"`

	// Pipeline.
	MaxIdeas int `env:"MAX_IDEAS" envDefault:"5"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
