package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/moodmap/internal/cluster"
	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/engine"
	"github.com/Veraticus/moodmap/internal/llm"
	"github.com/Veraticus/moodmap/internal/table"
	"github.com/Veraticus/moodmap/internal/taxonomy"
)

// EnvPrefix is the prefix for environment overrides, e.g. MOODMAP_LLM_MODEL.
const EnvPrefix = "MOODMAP"

// providerKeyEnv names the conventional API key variable for each provider.
var providerKeyEnv = map[string]string{
	"deepseek":  "DEEPSEEK_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// Config holds all configuration for moodmap.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Table    TableConfig    `mapstructure:"table"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LLMConfig holds remote classification service settings.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// String returns a safe representation of LLMConfig with the API key masked.
func (c LLMConfig) String() string {
	return fmt.Sprintf("LLMConfig{Provider:%s, APIKey:%s, BaseURL:%s, Model:%s, Timeout:%s}",
		c.Provider, maskAPIKey(c.APIKey), c.BaseURL, c.Model, c.Timeout)
}

// Client converts the settings into the llm package's configuration.
func (c LLMConfig) Client() llm.Config {
	return llm.Config{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Timeout:     c.Timeout,
		MaxRetries:  c.MaxRetries,
		RetryDelay:  c.RetryDelay,
		CacheTTL:    c.CacheTTL,
		MinInterval: c.MinInterval,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// ClassifyConfig holds batch classification settings.
type ClassifyConfig struct {
	IDColumn      string        `mapstructure:"id_column"`
	MessageColumn string        `mapstructure:"message_column"`
	NullMarkers   []string      `mapstructure:"null_markers"`
	Workers       int           `mapstructure:"workers"`
	EmptyDelay    time.Duration `mapstructure:"empty_delay"`
	TagFallback   bool          `mapstructure:"tag_fallback"`
}

// Engine converts the settings into the engine package's configuration.
func (c ClassifyConfig) Engine() engine.Config {
	return engine.Config{
		IDColumn:      c.IDColumn,
		MessageColumn: c.MessageColumn,
		NullMarkers:   c.NullMarkers,
		Workers:       c.Workers,
		EmptyDelay:    c.EmptyDelay,
		TagFallback:   c.TagFallback,
	}
}

// ClusterConfig holds clustering settings.
type ClusterConfig struct {
	Columns        cluster.Columns `mapstructure:"columns"`
	cluster.Params `mapstructure:",squash"`
}

// TaxonomyConfig selects the label set. Emotions, when set, replace the
// preset's emotion list; NoEmotion must then be one of them.
type TaxonomyConfig struct {
	Sentiment *taxonomy.SentimentLabels `mapstructure:"sentiment"`
	Preset    string                    `mapstructure:"preset"`
	NoEmotion string                    `mapstructure:"no_emotion"`
	Emotions  []string                  `mapstructure:"emotions"`
}

// Build returns the configured taxonomy.
func (c TaxonomyConfig) Build() (*taxonomy.Taxonomy, error) {
	base, err := taxonomy.Preset(c.Preset)
	if err != nil {
		return nil, err
	}
	if c.Sentiment == nil && len(c.Emotions) == 0 && c.NoEmotion == "" {
		return base, nil
	}

	sentiment := base.Sentiment
	if c.Sentiment != nil {
		sentiment = *c.Sentiment
	}
	emotions := base.Emotions
	if len(c.Emotions) > 0 {
		emotions = c.Emotions
	}
	noEmotion := base.NoEmotion
	if c.NoEmotion != "" {
		noEmotion = c.NoEmotion
	}

	return taxonomy.New(sentiment, emotions, noEmotion)
}

// TableConfig holds CSV output settings.
type TableConfig struct {
	BOM bool `mapstructure:"bom"`
}

// Write converts the settings into table write options.
func (c TableConfig) Write() table.WriteOptions {
	return table.WriteOptions{BOM: c.BOM}
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every default on v. Keys must have a default to be
// picked up from the environment by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "deepseek")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 20*time.Second)
	v.SetDefault("llm.max_retries", llm.DefaultMaxAttempts)
	v.SetDefault("llm.retry_delay", llm.DefaultRetryDelay)
	v.SetDefault("llm.min_interval", time.Second)
	v.SetDefault("llm.cache_ttl", 24*time.Hour)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 500)

	ec := engine.DefaultConfig()
	v.SetDefault("classify.id_column", ec.IDColumn)
	v.SetDefault("classify.message_column", ec.MessageColumn)
	v.SetDefault("classify.null_markers", ec.NullMarkers)
	v.SetDefault("classify.workers", ec.Workers)
	v.SetDefault("classify.empty_delay", ec.EmptyDelay)
	v.SetDefault("classify.tag_fallback", false)

	cols := cluster.DefaultColumns()
	v.SetDefault("cluster.columns.name", cols.Name)
	v.SetDefault("cluster.columns.sentiment", cols.Sentiment)
	v.SetDefault("cluster.columns.intensity", cols.Intensity)
	v.SetDefault("cluster.columns.tag", cols.Tag)
	v.SetDefault("cluster.columns.lon", cols.Lon)
	v.SetDefault("cluster.columns.lat", cols.Lat)

	p := cluster.DefaultParams()
	v.SetDefault("cluster.min_k", p.MinK)
	v.SetDefault("cluster.max_k", p.MaxK)
	v.SetDefault("cluster.restarts", p.Restarts)
	v.SetDefault("cluster.max_iter", p.MaxIter)
	v.SetDefault("cluster.tol", p.Tol)
	v.SetDefault("cluster.seed", p.Seed)

	v.SetDefault("taxonomy.preset", "en")
	v.SetDefault("taxonomy.no_emotion", "")
	v.SetDefault("taxonomy.emotions", []string{})

	v.SetDefault("table.bom", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load applies defaults to v, unmarshals it and validates the result.
// Config file discovery and environment binding are left to the caller.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		if name, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are set and consistent.
// The API key is not required here; see RequireAPIKey.
func (c *Config) Validate() error {
	if _, ok := providerKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("%w: llm.provider must be one of deepseek, openai, anthropic, got %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("%w: llm.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("%w: llm.max_retries must be at least 1", common.ErrInvalidConfig)
	}
	if c.LLM.RetryDelay < 0 || c.LLM.MinInterval < 0 {
		return fmt.Errorf("%w: llm delays must not be negative", common.ErrInvalidConfig)
	}
	if c.Classify.Workers < 1 {
		return fmt.Errorf("%w: classify.workers must be at least 1", common.ErrInvalidConfig)
	}
	if c.Classify.IDColumn == "" || c.Classify.MessageColumn == "" {
		return fmt.Errorf("%w: classify.id_column and classify.message_column must not be empty", common.ErrInvalidConfig)
	}
	if err := c.Cluster.Params.Validate(); err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	if _, err := c.Taxonomy.Build(); err != nil {
		return fmt.Errorf("taxonomy: %w", err)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey fails with ErrMissingConfig when no key was configured.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	return common.NewUserError(
		fmt.Sprintf("no API key configured; set llm.api_key, %s_LLM_API_KEY or %s", EnvPrefix, providerKeyEnv[c.LLM.Provider]),
		common.ErrMissingConfig,
	)
}
