package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/moodmap/internal/taxonomy"
)

const systemPrompt = "You are a sentiment analysis assistant. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// promptBuilder renders the per-message classification prompt. The examples
// block is rendered once since it only depends on the taxonomy.
type promptBuilder struct {
	tax      *taxonomy.Taxonomy
	examples string
}

type promptExample struct {
	Input struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"input"`
	Output struct {
		Sentiment   string `json:"sentiment"`
		Intensity   int    `json:"intensity"`
		EmotionType string `json:"emotion_type"`
	} `json:"output"`
}

func newPromptBuilder(tax *taxonomy.Taxonomy) (*promptBuilder, error) {
	worked := tax.WorkedExamples()
	examples := make([]promptExample, len(worked))
	for i, ex := range worked {
		examples[i].Input.ID = ex.ID
		examples[i].Input.Message = ex.Message
		examples[i].Output.Sentiment = ex.Result.Sentiment
		examples[i].Output.Intensity = ex.Result.Intensity
		examples[i].Output.EmotionType = ex.Result.EmotionType
	}

	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(examples); err != nil {
		return nil, fmt.Errorf("failed to render prompt examples: %w", err)
	}

	return &promptBuilder{tax: tax, examples: strings.TrimSpace(sb.String())}, nil
}

// build creates the prompt for a single message.
func (p *promptBuilder) build(id, message string) Request {
	s := p.tax.Sentiment
	prompt := fmt.Sprintf(`Analyze the sentiment of a social media check-in. Output ONLY a JSON object with exactly these 3 fields and nothing else:
1. sentiment: the polarity, one of "%s"/"%s"/"%s"
2. intensity: emotional intensity as an integer from 0 to 10 (0 = no emotion, 10 = strongest)
3. emotion_type: the specific emotion, which MUST be exactly one of [%s] (never invent a new label)

Examples:
%s

Now analyze:
id: %s
message: %s

Return only the JSON object (emotion_type must be in the allowed list):`,
		s.Positive, s.Negative, s.Neutral,
		strings.Join(p.tax.Emotions, ","),
		p.examples,
		id,
		message)

	return Request{System: systemPrompt, Prompt: prompt}
}
