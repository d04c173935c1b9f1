package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarpulse_generation_requests_total",
		Help: "The total number of generation requests by provider, category and status",
	}, []string{"provider", "category", "status"})

	GenerationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarpulse_generation_attempts_total",
		Help: "The total number of provider invocation attempts by outcome",
	}, []string{"provider", "outcome"})

	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scholarpulse_generation_latency_seconds",
		Help:    "Latency of provider invocations",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "category"})

	GenerationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarpulse_generation_fallbacks_total",
		Help: "Number of times a request fell back from one provider to another",
	}, []string{"from_provider", "to_provider", "category"})

	ProviderAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scholarpulse_provider_available",
		Help: "Whether a provider is registered and available (1/0)",
	}, []string{"provider"})

	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarpulse_batch_items_total",
		Help: "Batch items resolved by final status",
	}, []string{"status"})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scholarpulse_batch_duration_seconds",
		Help:    "Duration of whole batch resolutions",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	PapersFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scholarpulse_papers_fetched_total",
		Help: "The total number of papers fetched from the index",
	})

	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarpulse_reports_generated_total",
		Help: "The total number of generated reports by status",
	}, []string{"status"})
)
