package validator

import (
	"fmt"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// ExerciseValidator checks the ground truth of an exercise definition so the
// session engine can trust it.
type ExerciseValidator struct{}

// NewExerciseValidator creates a new exercise validator
func NewExerciseValidator() *ExerciseValidator {
	return &ExerciseValidator{}
}

// ValidateContent validates the variant section selected by the exercise type
func (v *ExerciseValidator) ValidateContent(def *models.ExerciseDefinition) error {
	if def == nil {
		return fmt.Errorf("exercise cannot be nil")
	}

	switch def.Type {
	case models.SingleChoice, models.MultiChoice:
		return v.validateChoiceContent(def.Choice)
	case models.Reorder:
		return v.validateReorderContent(def.Reorder)
	case models.DragBlank:
		return v.validateDragBlankContent(def.DragBlank)
	case models.DropdownBlank:
		return v.validateDropdownContent(def.Dropdown)
	case models.Summarize, models.Essay:
		return v.validateWritingContent(def)
	default:
		return fmt.Errorf("unsupported exercise type: %s", def.Type)
	}
}

// ValidateBatch validates multiple exercises
func (v *ExerciseValidator) ValidateBatch(defs []*models.ExerciseDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("exercise batch cannot be empty")
	}

	for i, def := range defs {
		if err := v.ValidateContent(def); err != nil {
			return fmt.Errorf("validation failed for exercise %d: %w", i+1, err)
		}
	}

	return nil
}

func (v *ExerciseValidator) validateChoiceContent(content *models.ChoiceContent) error {
	if content == nil {
		return fmt.Errorf("choice content is required")
	}

	if len(content.Options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}

	optionIDs := make(map[string]bool)
	for _, option := range content.Options {
		if optionIDs[option.ID] {
			return fmt.Errorf("duplicate option ID '%s'", option.ID)
		}
		optionIDs[option.ID] = true
	}

	if len(content.CorrectOptions()) == 0 {
		return fmt.Errorf("must have at least 1 correct option")
	}

	return nil
}

func (v *ExerciseValidator) validateReorderContent(content *models.ReorderContent) error {
	if content == nil {
		return fmt.Errorf("reorder content is required")
	}

	if len(content.CorrectOrder) != len(content.Sentences) {
		return fmt.Errorf("correct order must include all sentences exactly once")
	}

	itemIDs := make(map[string]bool)
	for _, item := range content.Sentences {
		if itemIDs[item.ID] {
			return fmt.Errorf("duplicate sentence ID '%s'", item.ID)
		}
		itemIDs[item.ID] = true
	}

	orderIDs := make(map[string]bool)
	for _, orderID := range content.CorrectOrder {
		if !itemIDs[orderID] {
			return fmt.Errorf("correct order references non-existent sentence: %s", orderID)
		}
		if orderIDs[orderID] {
			return fmt.Errorf("correct order contains duplicate sentence: %s", orderID)
		}
		orderIDs[orderID] = true
	}

	return nil
}

func (v *ExerciseValidator) validateDragBlankContent(content *models.DragBlankContent) error {
	if content == nil {
		return fmt.Errorf("drag blank content is required")
	}

	blanks := content.BlankIDs()
	if len(blanks) == 0 {
		return fmt.Errorf("text must contain at least 1 [n] placeholder")
	}

	if len(content.CorrectOrder) != len(blanks) {
		return fmt.Errorf("correct order has %d entries but text has %d blanks", len(content.CorrectOrder), len(blanks))
	}

	for i, id := range blanks {
		if id != fmt.Sprint(i+1) {
			return fmt.Errorf("placeholders must be numbered [1]..[%d] in order, found [%s]", len(blanks), id)
		}
	}

	choiceIDs := make(map[string]bool)
	for _, choice := range content.Choices {
		if choiceIDs[choice.ID] {
			return fmt.Errorf("duplicate choice ID '%s'", choice.ID)
		}
		choiceIDs[choice.ID] = true
	}

	for _, id := range content.CorrectOrder {
		if !choiceIDs[id] {
			return fmt.Errorf("correct order references non-existent choice: %s", id)
		}
	}

	return nil
}

func (v *ExerciseValidator) validateDropdownContent(content *models.DropdownContent) error {
	if content == nil {
		return fmt.Errorf("dropdown content is required")
	}

	if len(content.OptionsPerBlank) == 0 {
		return fmt.Errorf("must have at least 1 blank")
	}

	for i, options := range content.OptionsPerBlank {
		hasCorrect := false
		for _, option := range options {
			if option.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return fmt.Errorf("blank %d must have a correct option", i+1)
		}
	}

	return nil
}

func (v *ExerciseValidator) validateWritingContent(def *models.ExerciseDefinition) error {
	if def.Type == models.Essay && (def.Writing == nil || def.Writing.WordLimit == nil) {
		return fmt.Errorf("essay requires a word limit")
	}

	limit := def.Limits()
	if limit.Min < 0 {
		return fmt.Errorf("minimum word count cannot be negative")
	}
	if limit.Max != nil && *limit.Max < limit.Min {
		return fmt.Errorf("minimum word count cannot be greater than maximum")
	}

	return nil
}
