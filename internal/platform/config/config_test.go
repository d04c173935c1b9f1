package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, 2, cfg.MaxAttemptsPerProvider)
	assert.Equal(t, 3, cfg.BatchConcurrency)
	assert.Equal(t, 10, cfg.ArxivMaxResults)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.GroqBaseURL)
}

func TestLoad_RoutingOverrides(t *testing.T) {
	t.Setenv("ROUTING_FAST", "groq,oxlo")
	t.Setenv("ROUTING_DEEP", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"groq", "oxlo"}, cfg.RoutingFast)
	assert.Equal(t, []string{"gemini"}, cfg.RoutingDeep)
	assert.Empty(t, cfg.RoutingCreative)
}
