package archive

import (
	"context"

	"github.com/SAP-F-2025/practice-engine/internal/cache"
	"github.com/SAP-F-2025/practice-engine/internal/models"
)

const cacheKeyPrefix = "writing:"

// CacheArchive keeps submissions in a cache.CacheService without expiry.
type CacheArchive struct {
	cache cache.CacheService
}

func NewCacheArchive(c cache.CacheService) *CacheArchive {
	return &CacheArchive{cache: c}
}

func (a *CacheArchive) SaveWriting(ctx context.Context, sub models.WritingSubmission) error {
	return a.cache.Set(ctx, CacheKey(sub.ExerciseID), sub, 0)
}

func CacheKey(exerciseID string) string {
	return cacheKeyPrefix + exerciseID
}
