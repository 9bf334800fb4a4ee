package ledger

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// GormStore keeps one progress_records row per exercise.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context) (map[string]models.ProgressRecord, error) {
	var rows []models.ProgressRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}
	records := make(map[string]models.ProgressRecord, len(rows))
	for _, r := range rows {
		records[r.ExerciseID] = r
	}
	return records, nil
}

// Save replaces the table contents with records in one transaction.
func (s *GormStore) Save(ctx context.Context, records map[string]models.ProgressRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(records))
		rows := make([]models.ProgressRecord, 0, len(records))
		for id, r := range records {
			r.ExerciseID = id
			ids = append(ids, id)
			rows = append(rows, r)
		}

		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			del = del.Where("exercise_id NOT IN ?", ids)
		}
		if err := del.Delete(&models.ProgressRecord{}).Error; err != nil {
			return fmt.Errorf("failed to prune progress records: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "exercise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"attempts", "best_score", "updated_at"}),
		}).Create(&rows).Error
	})
}
