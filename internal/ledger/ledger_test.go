package ledger

import (
	"context"
	"errors"
	"os"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (s *failingStore) Load(context.Context) (map[string]models.ProgressRecord, error) {
	return nil, s.loadErr
}

func (s *failingStore) Save(context.Context, map[string]models.ProgressRecord) error {
	s.saves++
	return s.saveErr
}

// gatedStore holds its first Save until release is closed.
type gatedStore struct {
	*MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *gatedStore) Save(ctx context.Context, records map[string]models.ProgressRecord) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.MemoryStore.Save(ctx, records)
}

func TestLedger_RecordKeepsBestScore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(ctx, store, nil)

	l.Record(ctx, "e1", 60)
	r := l.Record(ctx, "e1", 90)

	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, 90.0, r.BestScore)

	r = l.Record(ctx, "e1", 40)
	assert.Equal(t, 3, r.Attempts)
	assert.Equal(t, 90.0, r.BestScore)
	assert.Equal(t, 3, store.Saves(), "every mutation persists")
}

func TestLedger_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(ctx, store, nil)
	l.Record(ctx, "e1", 60)
	l.Record(ctx, "e2", 80)

	l.Reset(ctx)

	assert.Equal(t, 0, l.Len())
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestLedger_LoadsPersistedRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, map[string]models.ProgressRecord{
		"e1": {Attempts: 2, BestScore: 75},
		"e2": {Attempts: 0, BestScore: 10},
	}))

	l := New(ctx, store, nil)

	r, ok := l.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "e1", r.ExerciseID)
	assert.Equal(t, 2, r.Attempts)
	_, ok = l.Get("e2")
	assert.False(t, ok, "records without attempts are dropped")
}

func TestLedger_UnreadableStoreStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{loadErr: errors.New("boom")}

	l := New(ctx, store, nil)

	assert.Equal(t, 0, l.Len())
}

func TestLedger_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{saveErr: errors.New("disk full")}
	l := New(ctx, store, nil)

	r := l.Record(ctx, "e1", 50)

	assert.Equal(t, 1, r.Attempts)
	assert.Equal(t, 1, store.saves)
	got, ok := l.Get("e1")
	require.True(t, ok)
	assert.Equal(t, 50.0, got.BestScore)
}

func TestLedger_AllIsSorted(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, nil, nil)
	l.Record(ctx, "b", 1)
	l.Record(ctx, "a", 2)

	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ExerciseID)
	assert.Equal(t, "b", all[1].ExerciseID)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "progress.json")

	l := New(ctx, NewFileStore(path), nil)
	l.Record(ctx, "e1", 60)
	l.Record(ctx, "e1", 90)

	reloaded := New(ctx, NewFileStore(path), nil)
	r, ok := reloaded.Get("e1")
	require.True(t, ok)
	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, 90.0, r.BestScore)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	records, err := NewFileStore(filepath.Join(t.TempDir(), "none.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStore_MalformedFileYieldsEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)

	l := New(context.Background(), NewFileStore(path), nil)
	assert.Equal(t, 0, l.Len())
}

func TestLedger_SlowSaveIsNotOverwrittenByOlderSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore()
	l := New(ctx, store, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		l.Record(ctx, "a", 50)
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		l.Record(ctx, "b", 70)
	}()
	require.Eventually(t, func() bool { return l.Len() == 2 }, time.Second, time.Millisecond)

	close(store.release)
	wg.Wait()

	reloaded := New(ctx, store.MemoryStore, nil)
	assert.Equal(t, 2, reloaded.Len())
}

func TestLedger_StaleSnapshotIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(ctx, store, nil)

	newer := map[string]models.ProgressRecord{
		"a": {ExerciseID: "a", Attempts: 1, BestScore: 50},
		"b": {ExerciseID: "b", Attempts: 1, BestScore: 70},
	}
	older := map[string]models.ProgressRecord{
		"a": {ExerciseID: "a", Attempts: 1, BestScore: 50},
	}
	l.persist(ctx, 2, newer)
	l.persist(ctx, 1, older)

	assert.Equal(t, 1, store.Saves())
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestLedger_ConcurrentRecordsAllPersisted(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "progress.json"))
	l := New(ctx, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Record(ctx, fmt.Sprintf("ex-%02d", i), float64(i))
		}(i)
	}
	wg.Wait()

	reloaded := New(ctx, store, nil)
	assert.Equal(t, 20, reloaded.Len())
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewFileStore(path)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.Save(ctx, map[string]models.ProgressRecord{
				fmt.Sprintf("ex-%d", i): {Attempts: 1, BestScore: float64(i)},
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
