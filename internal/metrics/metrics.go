// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on /debug/vars when an HTTP server with the default
// mux is running in the binary.
package metrics

import "expvar"

// Classification counters.
var (
	LLMCalls       = expvar.NewInt("moodmap_llm_calls_total")
	LLMFailures    = expvar.NewInt("moodmap_llm_failures_total")
	Fallbacks      = expvar.NewInt("moodmap_fallbacks_total")
	CacheHits      = expvar.NewInt("moodmap_cache_hits_total")
	SkippedEmpty   = expvar.NewInt("moodmap_skipped_empty_total")
	LabelsRepaired = expvar.NewInt("moodmap_labels_repaired_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
