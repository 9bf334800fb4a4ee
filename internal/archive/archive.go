// Package archive stores the free text of summarize and essay submissions
// for later review. The engine only ever writes to it.
package archive

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/textmetrics"
)

// Archive keeps the latest submitted text per exercise.
type Archive interface {
	SaveWriting(ctx context.Context, sub models.WritingSubmission) error
}

// NewSubmission builds the archived record of a writing answer.
func NewSubmission(exerciseID string, kind models.ExerciseType, text string, at time.Time) models.WritingSubmission {
	metrics, _ := json.Marshal(textmetrics.Measure(text))
	return models.WritingSubmission{
		ExerciseID:  exerciseID,
		Type:        kind,
		Text:        text,
		Metrics:     datatypes.JSON(metrics),
		SubmittedAt: at,
	}
}
