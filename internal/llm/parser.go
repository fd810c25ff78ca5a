package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/moodmap/internal/taxonomy"
)

var (
	errEmptyReply     = errors.New("empty reply")
	errReplyNotObject = errors.New("reply is not a JSON object")
)

// candidate is a reply that parsed as a JSON object. Field values have not been
// checked against the taxonomy yet; Intensity is kept raw so it can be coerced.
type candidate struct {
	Sentiment   string
	EmotionType string
	Intensity   json.RawMessage
	Extra       []string
}

// parseReply validates the reply shape before any field is read. Anything that
// is not a single JSON object is a parse failure.
func parseReply(content string) (candidate, error) {
	content = cleanMarkdownWrapper(content)
	if content == "" {
		return candidate{}, errEmptyReply
	}
	if !strings.HasPrefix(content, "{") {
		return candidate{}, fmt.Errorf("%w: %s", errReplyNotObject, truncate(content, 80))
	}

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&fields); err != nil {
		return candidate{}, fmt.Errorf("failed to parse JSON reply: %w", err)
	}
	if dec.More() {
		return candidate{}, fmt.Errorf("%w: trailing data after object", errReplyNotObject)
	}

	var c candidate
	for key, raw := range fields {
		switch key {
		case "sentiment":
			c.Sentiment = rawString(raw)
		case "emotion_type":
			c.EmotionType = rawString(raw)
		case "intensity":
			c.Intensity = raw
		default:
			c.Extra = append(c.Extra, key)
		}
	}

	return c, nil
}

// cleanMarkdownWrapper strips a ```json fence and surrounding whitespace.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceIntensity turns the raw intensity into an integer in [0, 10].
// Numbers are truncated toward zero, digit strings are accepted, and anything
// absent or non-numeric is 0.
func coerceIntensity(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}

	if n, err := strconv.Atoi(text); err == nil {
		return taxonomy.ClampIntensity(n)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > taxonomy.MaxIntensity {
		return taxonomy.MaxIntensity
	}
	return taxonomy.ClampIntensity(int(f))
}
