package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileArchive writes one JSON file per exercise into dir.
type FileArchive struct {
	dir string
}

func NewFileArchive(dir string) *FileArchive {
	return &FileArchive{dir: dir}
}

func (a *FileArchive) SaveWriting(_ context.Context, sub models.WritingSubmission) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create writing directory: %w", err)
	}
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.Path(sub.ExerciseID), data, 0o644)
}

// Path returns the file holding an exercise's text. The readable part is
// sanitized; the hash suffix keeps ids that sanitize alike apart.
func (a *FileArchive) Path(exerciseID string) string {
	sum := sha256.Sum256([]byte(exerciseID))
	name := "writing_" + unsafeFileChars.ReplaceAllString(exerciseID, "_") + "_" + hex.EncodeToString(sum[:4]) + ".json"
	return filepath.Join(a.dir, name)
}
