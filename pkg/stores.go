package pkg

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/practice-engine/internal/archive"
	"github.com/SAP-F-2025/practice-engine/internal/cache"
	"github.com/SAP-F-2025/practice-engine/internal/config"
	"github.com/SAP-F-2025/practice-engine/internal/ledger"
)

const redisKeyPrefix = "practice"

// Backends holds the connections opened for the configured stores. Either
// field is nil when no store uses it.
type Backends struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewLedgerStore picks the progress ledger persistence for cfg.LedgerBackend.
func NewLedgerStore(cfg *config.Config, b Backends) (ledger.Store, error) {
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		return ledger.NewGormStore(b.DB), nil
	case config.BackendRedis:
		return ledger.NewRedisStore(b.Redis, ledger.DefaultRedisKey), nil
	case config.BackendMemory:
		return ledger.NewMemoryStore(), nil
	case config.BackendFile, "":
		return ledger.NewFileStore(cfg.LedgerPath), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// NewWritingArchive picks where summarize and essay texts are kept.
func NewWritingArchive(cfg *config.Config, b Backends, logger *slog.Logger) (archive.Archive, error) {
	switch cfg.WritingBackend {
	case config.BackendPostgres:
		return archive.NewGormArchive(b.DB), nil
	case config.BackendRedis:
		return archive.NewCacheArchive(cache.NewRedisCache(b.Redis, redisKeyPrefix, logger)), nil
	case config.BackendMemory:
		return archive.NewCacheArchive(cache.NewMemoryCache()), nil
	case config.BackendFile, "":
		return archive.NewFileArchive(cfg.WritingDir), nil
	default:
		return nil, fmt.Errorf("unknown writing backend %q", cfg.WritingBackend)
	}
}
