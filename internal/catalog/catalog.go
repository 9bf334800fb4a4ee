// Package catalog holds the static exercise definitions the engine serves.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/validator"
)

var ErrNotFound = errors.New("exercise not found")

// Catalog is an immutable, validated set of exercise definitions.
type Catalog struct {
	byID  map[string]*models.ExerciseDefinition
	order []string
}

// document accepts either a bare array or {"exercises": [...]}.
type document struct {
	Exercises []*models.ExerciseDefinition `json:"exercises"`
}

// LoadFile reads and validates a JSON exercise file.
func LoadFile(path string, v *validator.Validator) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exercises file: %w", err)
	}
	defer f.Close()
	return Load(f, v)
}

func Load(r io.Reader, v *validator.Validator) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercises: %w", err)
	}

	var defs []*models.ExerciseDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		var doc document
		if docErr := json.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("failed to decode exercises: %w", err)
		}
		defs = doc.Exercises
	}
	return New(defs, v)
}

// New validates defs and indexes them by id. Duplicate ids are an error.
func New(defs []*models.ExerciseDefinition, v *validator.Validator) (*Catalog, error) {
	if v == nil {
		v = validator.New()
	}
	c := &Catalog{byID: make(map[string]*models.ExerciseDefinition, len(defs))}
	for i, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("exercise %d is empty", i+1)
		}
		if err := v.Validate(def); err != nil {
			return nil, fmt.Errorf("exercise %q: %w", def.ID, err)
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %q", def.ID)
		}
		c.byID[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (*models.ExerciseDefinition, error) {
	def, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return def, nil
}

// List returns every exercise in file order.
func (c *Catalog) List() []*models.ExerciseDefinition {
	out := make([]*models.ExerciseDefinition, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

func (c *Catalog) ListByType(t models.ExerciseType) []*models.ExerciseDefinition {
	var out []*models.ExerciseDefinition
	for _, id := range c.order {
		if def := c.byID[id]; def.Type == t {
			out = append(out, def)
		}
	}
	return out
}

// Counts returns the number of exercises per type.
func (c *Catalog) Counts() map[models.ExerciseType]int {
	counts := make(map[models.ExerciseType]int)
	for _, def := range c.byID {
		counts[def.Type]++
	}
	return counts
}

func (c *Catalog) Len() int { return len(c.order) }
