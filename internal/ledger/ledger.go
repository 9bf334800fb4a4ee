// Package ledger keeps the attempt count and best score of every exercise
// ever submitted, persisted after each change.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// Store persists the whole ledger. Save always receives the full set of
// records.
type Store interface {
	Load(ctx context.Context) (map[string]models.ProgressRecord, error)
	Save(ctx context.Context, records map[string]models.ProgressRecord) error
}

// Ledger is the process-wide progress record. It is safe for concurrent use.
//
// Every mutation stamps its snapshot with a version. Saves run one at a time
// and a snapshot older than the last one handed to the store is dropped, so
// the store never ends up behind the in-memory state.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]models.ProgressRecord
	version uint64
	store   Store
	logger  *slog.Logger
	now     func() time.Time

	persistMu sync.Mutex
	persisted uint64
}

// New loads the ledger from store. Missing or unreadable data yields an empty
// ledger; the load error is logged, never returned.
func New(ctx context.Context, store Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Ledger{
		records: make(map[string]models.ProgressRecord),
		store:   store,
		logger:  logger,
		now:     time.Now,
	}

	records, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Progress ledger unreadable, starting empty", "error", err)
		return l
	}
	for id, r := range records {
		if id == "" || r.Attempts < 1 {
			continue
		}
		r.ExerciseID = id
		l.records[id] = r
	}
	logger.Info("Progress ledger loaded", "exercises", len(l.records))
	return l
}

// Record counts one attempt at exerciseID and keeps the best score.
func (l *Ledger) Record(ctx context.Context, exerciseID string, score float64) models.ProgressRecord {
	l.mu.Lock()
	r, ok := l.records[exerciseID]
	if ok {
		r.Attempts++
		if score > r.BestScore {
			r.BestScore = score
		}
	} else {
		r = models.ProgressRecord{ExerciseID: exerciseID, Attempts: 1, BestScore: score}
	}
	r.UpdatedAt = l.now()
	l.records[exerciseID] = r
	l.version++
	version, snapshot := l.version, l.copyLocked()
	l.mu.Unlock()

	l.persist(ctx, version, snapshot)
	return r
}

// Reset removes every record.
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	l.records = make(map[string]models.ProgressRecord)
	l.version++
	version := l.version
	l.mu.Unlock()

	l.persist(ctx, version, map[string]models.ProgressRecord{})
}

func (l *Ledger) Get(exerciseID string) (models.ProgressRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[exerciseID]
	return r, ok
}

// All returns the records sorted by exercise id.
func (l *Ledger) All() []models.ProgressRecord {
	l.mu.RLock()
	out := make([]models.ProgressRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseID < out[j].ExerciseID })
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// persist writes the snapshot unless a newer one already went to the store.
// Failures keep the in-memory state and are only logged.
func (l *Ledger) persist(ctx context.Context, version uint64, records map[string]models.ProgressRecord) {
	l.persistMu.Lock()
	defer l.persistMu.Unlock()

	if version <= l.persisted {
		l.logger.Debug("Skipping stale progress snapshot", "version", version, "persisted", l.persisted)
		return
	}
	l.persisted = version

	if err := l.store.Save(ctx, records); err != nil {
		l.logger.Error("Failed to persist progress ledger", "records", len(records), "error", err)
	}
}

func (l *Ledger) copyLocked() map[string]models.ProgressRecord {
	out := make(map[string]models.ProgressRecord, len(l.records))
	for k, v := range l.records {
		out[k] = v
	}
	return out
}
