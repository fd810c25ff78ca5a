// Package model defines the core domain models used throughout the application.
package model

// ClassificationStatus indicates how a classification result was produced.
type ClassificationStatus string

// Classification status constants.
const (
	StatusClassified ClassificationStatus = "CLASSIFIED"
	StatusCached     ClassificationStatus = "CACHED"
	StatusSkipped    ClassificationStatus = "SKIPPED_EMPTY"
	StatusExhausted  ClassificationStatus = "RETRIES_EXHAUSTED"
)

// ClassificationResult is the three-field sentiment verdict for one message.
// Fallback marks results that did not come from the remote service.
type ClassificationResult struct {
	Sentiment   string `json:"sentiment"`
	EmotionType string `json:"emotion_type"`
	Intensity   int    `json:"intensity"`
	Fallback    bool   `json:"-"`
}

// Classification pairs a result with the row it belongs to.
type Classification struct {
	RecordID string
	Status   ClassificationStatus
	Result   ClassificationResult
	Row      int
}
