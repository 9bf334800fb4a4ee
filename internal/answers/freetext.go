package answers

import (
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/textmetrics"
)

// FreeText is the written answer of a summarize or essay exercise.
type FreeText struct {
	kind models.ExerciseType
	text string
}

func NewFreeText(kind models.ExerciseType) *FreeText {
	return &FreeText{kind: kind}
}

func (a *FreeText) Type() models.ExerciseType { return a.kind }

func (a *FreeText) Apply(ev Event) (bool, error) {
	if ev.Kind != EventSetText {
		return false, ErrUnsupportedEvent
	}
	a.text = ev.Text
	return true, nil
}

func (a *FreeText) Text() string { return a.text }

func (a *FreeText) Metrics() textmetrics.Metrics {
	return textmetrics.Measure(a.text)
}

func (a *FreeText) Snapshot() Snapshot {
	m := a.Metrics()
	return Snapshot{
		Type:      a.kind,
		Text:      a.text,
		WordCount: m.WordCount,
		CharCount: m.CharCount,
	}
}
