package engine

import (
	"context"

	"github.com/Veraticus/moodmap/internal/model"
)

// Classifier defines the contract for classifying a single check-in message.
// Implementations never fail; exhaustion is reported through the result status.
type Classifier interface {
	Classify(ctx context.Context, rec model.Record) model.Classification
}

// Progress receives one tick per finished row.
type Progress interface {
	Add(n int) error
}
