package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moodmap/internal/common"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range providerKeyEnv {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.LLM.RetryDelay)
	assert.Equal(t, time.Second, cfg.LLM.MinInterval)
	assert.InDelta(t, 0.1, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)

	assert.Equal(t, "mid", cfg.Classify.IDColumn)
	assert.Equal(t, "message", cfg.Classify.MessageColumn)
	assert.Equal(t, 1, cfg.Classify.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Classify.EmptyDelay)
	assert.False(t, cfg.Classify.TagFallback)
	assert.Contains(t, cfg.Classify.NullMarkers, "nan")

	assert.Equal(t, 2, cfg.Cluster.MinK)
	assert.Equal(t, 10, cfg.Cluster.MaxK)
	assert.Equal(t, uint64(42), cfg.Cluster.Seed)
	assert.Equal(t, "tag2", cfg.Cluster.Columns.Tag)

	assert.True(t, cfg.Table.BOM)
	assert.Equal(t, "info", cfg.Logging.Level)

	tax, err := cfg.Taxonomy.Build()
	require.NoError(t, err)
	assert.Equal(t, "no-emotion", tax.NoEmotion)
}

func TestLoadFromFile(t *testing.T) {
	clearKeyEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: Anthropic
  api_key: sk-ant-1234567890abcdef
  timeout: 5s
classify:
  workers: 4
  tag_fallback: true
cluster:
  max_k: 6
  seed: 7
  columns:
    tag: category
taxonomy:
  preset: zh
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4, cfg.Classify.Workers)
	assert.True(t, cfg.Classify.TagFallback)
	assert.Equal(t, 6, cfg.Cluster.MaxK)
	assert.Equal(t, 2, cfg.Cluster.MinK)
	assert.Equal(t, uint64(7), cfg.Cluster.Seed)
	assert.Equal(t, "category", cfg.Cluster.Columns.Tag)
	assert.Equal(t, "name", cfg.Cluster.Columns.Name)

	tax, err := cfg.Taxonomy.Build()
	require.NoError(t, err)
	assert.Equal(t, "无情绪", tax.NoEmotion)

	client := cfg.LLM.Client()
	assert.Equal(t, "anthropic", client.Provider)
	assert.Equal(t, "sk-ant-1234567890abcdef", client.APIKey)
	assert.Equal(t, 4, cfg.Classify.Engine().Workers)
}

func TestLoadEnvironment(t *testing.T) {
	clearKeyEnv(t)

	t.Run("prefixed override", func(t *testing.T) {
		t.Setenv("MOODMAP_CLASSIFY_WORKERS", "3")
		t.Setenv("MOODMAP_LLM_API_KEY", "from-prefix")
		t.Setenv("DEEPSEEK_API_KEY", "from-provider")

		v := viper.New()
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Classify.Workers)
		assert.Equal(t, "from-prefix", cfg.LLM.APIKey)
	})

	t.Run("provider key fallback", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("DEEPSEEK_API_KEY", "sk-deepseek")

		v := viper.New()
		v.Set("llm.provider", "openai")

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
		assert.NoError(t, cfg.RequireAPIKey())
	})
}

func TestValidate(t *testing.T) {
	clearKeyEnv(t)

	tests := []struct {
		name string
		set  map[string]any
	}{
		{"unknown provider", map[string]any{"llm.provider": "bard"}},
		{"zero timeout", map[string]any{"llm.timeout": "0s"}},
		{"no retries", map[string]any{"llm.max_retries": 0}},
		{"no workers", map[string]any{"classify.workers": 0}},
		{"empty id column", map[string]any{"classify.id_column": ""}},
		{"bad k range", map[string]any{"cluster.min_k": 5, "cluster.max_k": 3}},
		{"unknown preset", map[string]any{"taxonomy.preset": "fr"}},
		{"fallback outside emotions", map[string]any{"taxonomy.emotions": []string{"joy", "grief"}, "taxonomy.no_emotion": "none"}},
		{"bad log level", map[string]any{"logging.level": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestTaxonomyOverride(t *testing.T) {
	cfg := TaxonomyConfig{Preset: "en", Emotions: []string{"calm", "angry", "none"}, NoEmotion: "none"}
	tax, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"calm", "angry", "none"}, tax.Emotions)
	assert.Equal(t, "positive", tax.Sentiment.Positive)
	assert.Equal(t, "none", tax.Guard("happy"))
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{Provider: "deepseek"}}
	err := cfg.RequireAPIKey()
	require.ErrorIs(t, err, common.ErrMissingConfig)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
}

func TestLLMConfigStringMasksKey(t *testing.T) {
	s := LLMConfig{Provider: "deepseek", APIKey: "sk-1234567890abcdef"}.String()
	assert.NotContains(t, s, "567890ab")
	assert.Contains(t, s, "sk-1****cdef")

	assert.Contains(t, LLMConfig{APIKey: "short"}.String(), "***")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("MOODMAP_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/out.csv", filepath.Join(home, "out.csv")},
		{"$MOODMAP_TEST_DIR/in.csv", "/data/in.csv"},
		{"relative/in.csv", "relative/in.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}

	assert.Equal(t, filepath.Join("/data", "clusters.csv"), OutputPath("$MOODMAP_TEST_DIR", "clusters.csv"))
}
