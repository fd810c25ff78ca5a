// Package llm classifies check-in messages through a hosted language model.
// It builds a constrained prompt, parses the structured reply, and wraps the
// remote call with pacing, bounded retry, and a closed-taxonomy guard so every
// result it returns is valid regardless of what the provider sends back.
package llm
