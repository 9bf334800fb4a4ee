package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProgressRecord is the attempt history of one exercise.
type ProgressRecord struct {
	ExerciseID string    `json:"exercise_id" gorm:"primaryKey;size:100"`
	Attempts   int       `json:"attempts" gorm:"not null;default:1"`
	BestScore  float64   `json:"best_score" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// WritingSubmission is the archived free text of a summarize/essay exercise.
type WritingSubmission struct {
	ExerciseID  string         `json:"exercise_id" gorm:"primaryKey;size:100"`
	Type        ExerciseType   `json:"type" gorm:"size:20"`
	Text        string         `json:"text" gorm:"type:text"`
	Metrics     datatypes.JSON `json:"metrics" gorm:"type:jsonb"` // {"word_count":..,"char_count":..}
	SubmittedAt time.Time      `json:"submitted_at"`
}

func (WritingSubmission) TableName() string {
	return "writing_submissions"
}
