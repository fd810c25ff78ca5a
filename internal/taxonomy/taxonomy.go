// Package taxonomy holds the closed label sets used by the classifier and
// enforces membership on every result that leaves the classification stage.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/model"
)

// Polarity is the sign attached to a sentiment label.
type Polarity int

// Polarity values.
const (
	Negative Polarity = -1
	Neutral  Polarity = 0
	Positive Polarity = 1
)

// MaxIntensity is the upper bound of the intensity scale.
const MaxIntensity = 10

// SentimentLabels names the three sentiment values in the output language.
type SentimentLabels struct {
	Positive string `mapstructure:"positive"`
	Negative string `mapstructure:"negative"`
	Neutral  string `mapstructure:"neutral"`
}

// Example is a worked classification shown to the model in the prompt.
type Example struct {
	ID      string
	Message string
	Result  model.ClassificationResult
}

// Taxonomy is a closed set of sentiment and emotion labels.
type Taxonomy struct {
	allowed   map[string]struct{}
	Sentiment SentimentLabels
	NoEmotion string
	Emotions  []string
	Examples  []Example
}

var exampleMessages = [3]Example{
	{ID: "1", Message: "老街书店很有复古感，木质香气很舒服"},
	{ID: "2", Message: "景区人太多，排队2小时体验差"},
	{ID: "3", Message: "今天气温15℃，东南风2级"},
}

func presetExamples(s SentimentLabels, pleasant, irritated, none string) []Example {
	out := exampleMessages
	out[0].Result = model.ClassificationResult{Sentiment: s.Positive, Intensity: 8, EmotionType: pleasant}
	out[1].Result = model.ClassificationResult{Sentiment: s.Negative, Intensity: 7, EmotionType: irritated}
	out[2].Result = model.ClassificationResult{Sentiment: s.Neutral, Intensity: 0, EmotionType: none}
	return out[:]
}

// English is the default preset. Use Preset to obtain a usable Taxonomy.
var English = Taxonomy{
	Sentiment: SentimentLabels{Positive: "positive", Negative: "negative", Neutral: "neutral"},
	Emotions:  []string{"pleasant", "sad", "nostalgic", "irritated", "disappointed", "no-emotion"},
	NoEmotion: "no-emotion",
	Examples:  presetExamples(SentimentLabels{Positive: "positive", Negative: "negative", Neutral: "neutral"}, "pleasant", "irritated", "no-emotion"),
}

// Chinese matches the labels the downstream dashboard was built against.
var Chinese = Taxonomy{
	Sentiment: SentimentLabels{Positive: "正面", Negative: "负面", Neutral: "中性"},
	Emotions:  []string{"愉悦", "悲伤", "怀旧", "烦躁", "失望", "无情绪"},
	NoEmotion: "无情绪",
	Examples:  presetExamples(SentimentLabels{Positive: "正面", Negative: "负面", Neutral: "中性"}, "愉悦", "烦躁", "无情绪"),
}

// Preset returns a named taxonomy ("en" or "zh").
func Preset(name string) (*Taxonomy, error) {
	switch strings.ToLower(name) {
	case "en", "":
		return fromPreset(English)
	case "zh":
		return fromPreset(Chinese)
	default:
		return nil, fmt.Errorf("%w: unknown taxonomy preset %q", common.ErrInvalidConfig, name)
	}
}

func fromPreset(p Taxonomy) (*Taxonomy, error) {
	t, err := New(p.Sentiment, p.Emotions, p.NoEmotion)
	if err != nil {
		return nil, err
	}
	t.Examples = p.Examples
	return t, nil
}

// New builds a taxonomy. The no-emotion label must be one of the emotions.
func New(sentiment SentimentLabels, emotions []string, noEmotion string) (*Taxonomy, error) {
	if sentiment.Positive == "" || sentiment.Negative == "" || sentiment.Neutral == "" {
		return nil, fmt.Errorf("%w: all three sentiment labels are required", common.ErrInvalidConfig)
	}
	if sentiment.Positive == sentiment.Negative || sentiment.Positive == sentiment.Neutral || sentiment.Negative == sentiment.Neutral {
		return nil, fmt.Errorf("%w: sentiment labels must be distinct", common.ErrInvalidConfig)
	}
	if len(emotions) == 0 {
		return nil, fmt.Errorf("%w: emotion list is empty", common.ErrInvalidConfig)
	}

	allowed := make(map[string]struct{}, len(emotions))
	list := make([]string, 0, len(emotions))
	for _, e := range emotions {
		e = strings.TrimSpace(e)
		if e == "" {
			return nil, fmt.Errorf("%w: empty emotion label", common.ErrInvalidConfig)
		}
		if _, dup := allowed[e]; dup {
			continue
		}
		allowed[e] = struct{}{}
		list = append(list, e)
	}
	if _, ok := allowed[noEmotion]; !ok {
		return nil, fmt.Errorf("%w: fallback emotion %q is not in the emotion list", common.ErrInvalidConfig, noEmotion)
	}

	return &Taxonomy{
		allowed:   allowed,
		Sentiment: sentiment,
		Emotions:  list,
		NoEmotion: noEmotion,
	}, nil
}

// Allows reports whether emotion is a member of the closed set.
func (t *Taxonomy) Allows(emotion string) bool {
	_, ok := t.allowed[emotion]
	return ok
}

// Guard returns candidate if it is an allowed emotion, otherwise the no-emotion label.
func (t *Taxonomy) Guard(candidate string) string {
	if t.Allows(candidate) {
		return candidate
	}
	return t.NoEmotion
}

// GuardSentiment returns candidate if it is one of the three sentiment labels,
// otherwise the neutral label.
func (t *Taxonomy) GuardSentiment(candidate string) string {
	if _, ok := t.Polarity(candidate); ok {
		return candidate
	}
	return t.Sentiment.Neutral
}

// Polarity maps a sentiment label to its sign.
func (t *Taxonomy) Polarity(sentiment string) (Polarity, bool) {
	switch sentiment {
	case t.Sentiment.Positive:
		return Positive, true
	case t.Sentiment.Negative:
		return Negative, true
	case t.Sentiment.Neutral:
		return Neutral, true
	default:
		return Neutral, false
	}
}

// WorkedExamples returns the few-shot examples for this taxonomy. Every example
// result is passed through the guards, so a custom label set never shows the
// model an out-of-set label.
func (t *Taxonomy) WorkedExamples() []Example {
	src := t.Examples
	if len(src) == 0 {
		src = presetExamples(t.Sentiment, t.Emotions[0], t.NoEmotion, t.NoEmotion)
	}

	out := make([]Example, len(src))
	for i, ex := range src {
		ex.Result.Sentiment = t.GuardSentiment(ex.Result.Sentiment)
		ex.Result.EmotionType = t.Guard(ex.Result.EmotionType)
		ex.Result.Intensity = ClampIntensity(ex.Result.Intensity)
		out[i] = ex
	}
	return out
}

// Fallback is the result used when no verdict could be obtained.
func (t *Taxonomy) Fallback() model.ClassificationResult {
	return model.ClassificationResult{
		Sentiment:   t.Sentiment.Neutral,
		Intensity:   0,
		EmotionType: t.NoEmotion,
		Fallback:    true,
	}
}

// ClampIntensity forces an intensity into [0, MaxIntensity].
func ClampIntensity(v int) int {
	switch {
	case v < 0:
		return 0
	case v > MaxIntensity:
		return MaxIntensity
	default:
		return v
	}
}
