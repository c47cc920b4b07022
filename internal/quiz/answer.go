// Package quiz holds the stateless helpers shared by the engine and the daily scheduler:
// answer resolution, option shuffling, XP scoring, reveal flags and content normalization.
package quiz

import (
	"encoding/json"
	"math"
	"strings"

	"prepquiz-service/internal/domain"
)

// Field names are tried in order; the first usable value wins.
var (
	answerIndexFields = []string{"answerIndex", "correctIndex", "answer_index", "correct_index", "correctOption", "answer", "correct"}
	answerKeyFields   = []string{"answer", "correct", "correctAnswer", "answerKey", "key"}
	answerTextFields  = []string{"correctAnswer", "answer", "correct", "answerText"}
)

// ResolveAnswerIndex finds the 0-based index of the correct option of a raw record.
// Numeric index fields are checked first, then a single letter key ("A".."D"), then an
// exact match against the option texts. Anything unresolvable or out of range yields 0.
func ResolveAnswerIndex(raw domain.RawQuestion) int {
	options := OptionTexts(raw)

	for _, field := range answerIndexFields {
		if idx, ok := asIndex(raw[field]); ok {
			return inRange(idx, len(options))
		}
	}

	for _, field := range answerKeyFields {
		if idx, ok := letterIndex(raw[field]); ok {
			return inRange(idx, len(options))
		}
	}

	for _, field := range answerTextFields {
		text, ok := raw[field].(string)
		if !ok || text == "" {
			continue
		}
		for i, option := range options {
			if option == text {
				return i
			}
		}
	}
	return 0
}

func inRange(idx, n int) int {
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatIndex(float64(n))
	case float64:
		return floatIndex(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}

func floatIndex(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func letterIndex(v any) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	letter := strings.ToUpper(strings.TrimSpace(s))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'D' {
		return 0, false
	}
	return int(letter[0] - 'A'), true
}
