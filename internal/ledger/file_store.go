package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// FileStore keeps the ledger as one JSON object keyed by exercise id.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileRecord struct {
	Attempts  int     `json:"attempts"`
	BestScore float64 `json:"best_score"`
}

// Load returns an empty ledger when the file does not exist yet.
func (s *FileStore) Load(_ context.Context) (map[string]models.ProgressRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]models.ProgressRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var raw map[string]fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed progress file %s: %w", s.path, err)
	}

	records := make(map[string]models.ProgressRecord, len(raw))
	for id, r := range raw {
		records[id] = models.ProgressRecord{ExerciseID: id, Attempts: r.Attempts, BestScore: r.BestScore}
	}
	return records, nil
}

// Save writes to a uniquely named temporary file and renames it over the
// ledger, so neither a crash nor a concurrent Save leaves a truncated file.
func (s *FileStore) Save(_ context.Context, records map[string]models.ProgressRecord) error {
	raw := make(map[string]fileRecord, len(records))
	for id, r := range records {
		raw[id] = fileRecord{Attempts: r.Attempts, BestScore: r.BestScore}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary progress file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set progress file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}
