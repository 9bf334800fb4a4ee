package archive

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// GormArchive upserts into writing_submissions.
type GormArchive struct {
	db *gorm.DB
}

func NewGormArchive(db *gorm.DB) *GormArchive {
	return &GormArchive{db: db}
}

func (a *GormArchive) SaveWriting(ctx context.Context, sub models.WritingSubmission) error {
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "exercise_id"}},
		UpdateAll: true,
	}).Create(&sub).Error
}
