package textmetrics

import (
	"strings"
	"unicode/utf8"
)

type Metrics struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
}

// Measure counts the characters of the trimmed text and its whitespace
// separated words.
func Measure(text string) Metrics {
	trimmed := strings.TrimSpace(text)
	return Metrics{
		WordCount: len(strings.Fields(trimmed)),
		CharCount: utf8.RuneCountInString(trimmed),
	}
}

// WithinLimit reports min <= wordCount <= max. A nil max is unbounded.
func WithinLimit(wordCount, min int, max *int) bool {
	if wordCount < min {
		return false
	}
	return max == nil || wordCount <= *max
}

// SentenceSegments counts the non-empty segments of the trimmed text when
// split on periods. A single-sentence answer has at most one.
func SentenceSegments(text string) int {
	n := 0
	for _, part := range strings.Split(strings.TrimSpace(text), ".") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func IsSingleSentence(text string) bool {
	return SentenceSegments(text) <= 1
}
