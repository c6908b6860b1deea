// Package metrics holds the process-wide pipeline counters and histograms.
// Registration is idempotent: constructing the set twice against the same
// registry hands back the collectors registered first, so any component may
// call New without coordinating with the rest of the process.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline bundles the ingestion-and-report pipeline metrics. All fields are
// safe for concurrent use; increments are atomic.
type Pipeline struct {
	// InferenceRequests counts classification calls attempted.
	InferenceRequests prometheus.Counter
	// InferenceFailures counts classification calls that returned an error.
	InferenceFailures prometheus.Counter
	// InferenceDuration observes the wall-clock span of every classification
	// call, success or failure.
	InferenceDuration prometheus.Histogram
	// SimulatedReviews counts reviews sent by the traffic generator.
	SimulatedReviews prometheus.Counter
	// ManualReviews counts reviews submitted through the manual path.
	ManualReviews prometheus.Counter
	// LLMRequests counts generative-model calls attempted.
	LLMRequests prometheus.Counter
	// LLMErrors counts generative-model calls that failed.
	LLMErrors prometheus.Counter
}

// New registers (or re-acquires) the pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Pipeline {
	return &Pipeline{
		InferenceRequests: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Total number of classification requests sent to the sentiment service",
		}),
		InferenceFailures: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "inference_requests_fail_total",
			Help: "Total number of failed classification requests",
		}),
		InferenceDuration: getOrRegisterHistogram(reg, prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Duration of classification calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		SimulatedReviews: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "simulated_reviews_sent_total",
			Help: "Total number of simulated reviews sent",
		}),
		ManualReviews: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "manual_reviews_sent_total",
			Help: "Total number of manually submitted reviews",
		}),
		LLMRequests: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "llm_prompt_total",
			Help: "Total number of prompts sent to the generative model",
		}),
		LLMErrors: getOrRegisterCounter(reg, prometheus.CounterOpts{
			Name: "llm_errors_total",
			Help: "Total number of failed generative model calls",
		}),
	}
}

// getOrRegisterCounter registers the counter, or returns the collector that
// already holds the name. Any other registration error is a programming
// mistake (name collision with a different type) and panics.
func getOrRegisterCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

func getOrRegisterHistogram(reg prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return h
}
