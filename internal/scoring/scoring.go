// Package scoring grades completed answers. Every function is pure and
// expects an answer that already passed the session's completeness check.
package scoring

import (
	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// Multi-choice weights.
const (
	CorrectSelectionPoints = 1.0
	WrongSelectionPenalty  = 0.5
	MissedOptionPenalty    = 0.5
)

// SingleChoice awards 100 when the selected option is flagged correct.
func SingleChoice(content *models.ChoiceContent, answer *answers.SingleChoice) models.Score {
	score := models.Score{Possible: 1, Graded: true}
	if opt, ok := content.FindOption(answer.Selected()); ok && opt.IsCorrect {
		score.Earned = 1
	}
	score.Percentage = percentage(score.Earned, score.Possible)
	return score
}

// MultiChoice gives +1 per correct selection, -0.5 per wrong selection and
// -0.5 per correct option left unselected. Only the final sum is clamped at 0.
func MultiChoice(content *models.ChoiceContent, answer *answers.MultiChoice) models.Score {
	points := 0.0
	correct := 0
	for _, opt := range content.Options {
		selected := answer.IsSelected(opt.ID)
		switch {
		case opt.IsCorrect && selected:
			correct++
			points += CorrectSelectionPoints
		case opt.IsCorrect:
			correct++
			points -= MissedOptionPenalty
		case selected:
			points -= WrongSelectionPenalty
		}
	}
	if points < 0 {
		points = 0
	}

	return models.Score{
		Percentage: percentage(points, float64(correct)),
		Earned:     points,
		Possible:   float64(correct),
		Graded:     true,
	}
}

// Reorder splits the score evenly between sentences at their exact position
// and adjacent pairs that are also adjacent in the correct order. With fewer
// than two sentences the pair half is awarded in full.
func Reorder(content *models.ReorderContent, answer *answers.Reorder) models.Score {
	return ReorderOrder(content.CorrectOrder, answer.List(answers.ListTarget))
}

// ReorderOrder scores a final target order against the correct one.
func ReorderOrder(correctOrder, target []string) models.Score {
	total := len(correctOrder)
	score := models.Score{Graded: true}
	if total == 0 {
		return score
	}

	rank := make(map[string]int, total)
	for i, id := range correctOrder {
		rank[id] = i
	}

	for i, id := range target {
		if i < total && correctOrder[i] == id {
			score.ExactMatches++
		}
	}
	for i := 0; i+1 < len(target); i++ {
		cur, ok1 := rank[target[i]]
		next, ok2 := rank[target[i+1]]
		if ok1 && ok2 && next == cur+1 {
			score.CorrectPairs++
		}
	}

	positionFraction := float64(score.ExactMatches) / float64(total)
	pairFraction := 1.0
	if total > 1 {
		score.Pairs = total - 1
		pairFraction = float64(score.CorrectPairs) / float64(score.Pairs)
	}

	score.Earned = 0.5*positionFraction + 0.5*pairFraction
	score.Possible = 1
	score.Percentage = clampPercentage(100 * score.Earned)
	return score
}

// DragBlank counts blanks holding the choice at their position of the
// correct order: blank n is graded against CorrectOrder[n-1] by placeholder
// order.
func DragBlank(content *models.DragBlankContent, answer *answers.DragBlank) models.Score {
	blanks := answer.BlankIDs()
	score := models.Score{Possible: float64(len(blanks)), Graded: true}
	for i, id := range blanks {
		if i < len(content.CorrectOrder) && answer.Assigned(id) == content.CorrectOrder[i] {
			score.Earned++
		}
	}
	score.Percentage = percentage(score.Earned, score.Possible)
	return score
}

// Dropdown counts blanks whose selected option is flagged correct.
func Dropdown(content *models.DropdownContent, answer *answers.Dropdown) models.Score {
	score := models.Score{Possible: float64(len(content.OptionsPerBlank)), Graded: true}
	for i, opts := range content.OptionsPerBlank {
		selected := answer.Selection(i)
		for _, o := range opts {
			if o.ID == selected && o.IsCorrect {
				score.Earned++
				break
			}
		}
	}
	score.Percentage = percentage(score.Earned, score.Possible)
	return score
}

// Writing records the fixed completion score. The text itself is kept for
// review and not graded here.
func Writing() models.Score {
	return models.Score{
		Percentage: models.CompletionScore,
		Earned:     1,
		Possible:   1,
	}
}

func percentage(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return clampPercentage(100 * earned / possible)
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
