package session

import (
	"fmt"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	apperrors "github.com/SAP-F-2025/practice-engine/internal/errors"
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/scoring"
	"github.com/SAP-F-2025/practice-engine/internal/textmetrics"
)

// User-facing submit validation messages.
const (
	MsgSelectOption     = "Please select an option before submitting."
	MsgSelectOptions    = "Please select at least one option before submitting."
	MsgUseAllSentences  = "Please use all sentences before submitting."
	MsgFillAllBlanks    = "Please fill all the blanks before submitting."
	MsgSingleSentence   = "Your summary must be a single sentence."
	msgMinWordsTemplate = "Your %s must be at least %d words."
	msgMaxWordsTemplate = "Your %s must be at most %d words."
)

// variant pairs an answer store with its completeness check and scoring
// function. It is chosen once from the definition's type.
type variant struct {
	answer answers.Answer
	check  func() *apperrors.ValidationError
	score  func() models.Score
	// text is set for writing variants only.
	text func() string
}

func newVariant(def *models.ExerciseDefinition) (*variant, error) {
	switch def.Type {
	case models.SingleChoice:
		if def.Choice == nil {
			return nil, missingContent(def)
		}
		a := answers.NewSingleChoice(def.Choice)
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				if a.Selected() == "" {
					return incomplete(MsgSelectOption)
				}
				return nil
			},
			score: func() models.Score { return scoring.SingleChoice(def.Choice, a) },
		}, nil

	case models.MultiChoice:
		if def.Choice == nil {
			return nil, missingContent(def)
		}
		a := answers.NewMultiChoice(def.Choice)
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				if len(a.Selected()) == 0 {
					return incomplete(MsgSelectOptions)
				}
				return nil
			},
			score: func() models.Score { return scoring.MultiChoice(def.Choice, a) },
		}, nil

	case models.Reorder:
		if def.Reorder == nil {
			return nil, missingContent(def)
		}
		ids := make([]string, len(def.Reorder.Sentences))
		for i, s := range def.Reorder.Sentences {
			ids[i] = s.ID
		}
		a := answers.NewReorder(ids)
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				if len(a.List(answers.ListTarget)) != a.Len() {
					return incomplete(MsgUseAllSentences)
				}
				return nil
			},
			score: func() models.Score { return scoring.Reorder(def.Reorder, a) },
		}, nil

	case models.DragBlank:
		if def.DragBlank == nil {
			return nil, missingContent(def)
		}
		choices := make([]string, len(def.DragBlank.Choices))
		for i, c := range def.DragBlank.Choices {
			choices[i] = c.ID
		}
		a := answers.NewDragBlank(def.DragBlank.BlankIDs(), choices)
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				if !a.Filled() {
					return incomplete(MsgFillAllBlanks)
				}
				return nil
			},
			score: func() models.Score { return scoring.DragBlank(def.DragBlank, a) },
		}, nil

	case models.DropdownBlank:
		if def.Dropdown == nil {
			return nil, missingContent(def)
		}
		a := answers.NewDropdown(def.Dropdown)
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				if !a.Filled() {
					return incomplete(MsgFillAllBlanks)
				}
				return nil
			},
			score: func() models.Score { return scoring.Dropdown(def.Dropdown, a) },
		}, nil

	case models.Summarize, models.Essay:
		a := answers.NewFreeText(def.Type)
		limits := def.Limits()
		return &variant{
			answer: a,
			check: func() *apperrors.ValidationError {
				return checkWriting(def.Type, limits, a.Text())
			},
			score: scoring.Writing,
			text:  a.Text,
		}, nil
	}

	return nil, fmt.Errorf("unsupported exercise type %q", def.Type)
}

// checkWriting applies the word limit and, for summaries, the single
// sentence rule.
func checkWriting(kind models.ExerciseType, limits models.WordLimit, text string) *apperrors.ValidationError {
	noun := "essay"
	if kind == models.Summarize {
		noun = "summary"
	}

	words := textmetrics.Measure(text).WordCount
	if !textmetrics.WithinLimit(words, limits.Min, limits.Max) {
		if words < limits.Min {
			return apperrors.NewValidationErrorWithRule("text",
				fmt.Sprintf(msgMinWordsTemplate, noun, limits.Min), apperrors.RuleBelowMinWords, words)
		}
		return apperrors.NewValidationErrorWithRule("text",
			fmt.Sprintf(msgMaxWordsTemplate, noun, *limits.Max), apperrors.RuleAboveMaxWords, words)
	}

	if kind == models.Summarize && !textmetrics.IsSingleSentence(text) {
		return apperrors.NewValidationErrorWithRule("text", MsgSingleSentence, apperrors.RuleMultipleSentences, nil)
	}
	return nil
}

func incomplete(msg string) *apperrors.ValidationError {
	return apperrors.NewValidationErrorWithRule("answer", msg, apperrors.RuleIncompleteAnswer, nil)
}

func missingContent(def *models.ExerciseDefinition) error {
	return fmt.Errorf("exercise %s of type %s has no content", def.ID, def.Type)
}
