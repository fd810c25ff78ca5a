package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/metrics"
	"github.com/Veraticus/moodmap/internal/taxonomy"
)

// Classifier turns one message into a taxonomy-valid ClassificationResult.
// It is safe for concurrent use.
type Classifier struct {
	client   Client
	taxonomy *taxonomy.Taxonomy
	prompts  *promptBuilder
	cache    *resultCache
	limiter  *rateLimiter
	logger   *slog.Logger
	retry    RetryPolicy
	timeout  time.Duration
}

// NewClassifier creates a classifier backed by the provider named in cfg.
func NewClassifier(cfg Config, tax *taxonomy.Taxonomy, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, tax, logger)
}

// NewClassifierWithClient creates a classifier around an existing client.
func NewClassifierWithClient(client Client, cfg Config, tax *taxonomy.Taxonomy, logger *slog.Logger) (*Classifier, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: LLM client", common.ErrMissingConfig)
	}
	if tax == nil {
		return nil, fmt.Errorf("%w: taxonomy", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	prompts, err := newPromptBuilder(tax)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var cache *resultCache
	if cfg.CacheTTL >= 0 {
		cache = newResultCache(cfg.CacheTTL)
	}

	return &Classifier{
		client:   client,
		taxonomy: tax,
		prompts:  prompts,
		cache:    cache,
		limiter:  newRateLimiter(cfg.MinInterval),
		logger:   logger,
		retry:    newRetryPolicy(cfg.MaxRetries, cfg.RetryDelay),
		timeout:  timeout,
	}, nil
}

// Taxonomy returns the label set the classifier enforces.
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.taxonomy
}

// attempt performs exactly one paced, time-bounded remote call and parses the
// reply. Every failure is reported as ErrClassificationUnavailable.
func (c *Classifier) attempt(ctx context.Context, id, message string) (candidate, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return candidate{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	metrics.Inc(metrics.LLMCalls)
	content, err := c.client.Complete(callCtx, c.prompts.build(id, message))
	if err != nil {
		return candidate{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	cand, err := parseReply(content)
	if err != nil {
		return candidate{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	if len(cand.Extra) > 0 {
		c.logger.Debug("reply carried unexpected fields",
			"id", id,
			"fields", cand.Extra)
	}

	return cand, nil
}

// Close stops background goroutines and cleans up resources.
func (c *Classifier) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	return nil
}
