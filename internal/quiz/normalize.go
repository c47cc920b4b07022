package quiz

import (
	"fmt"
	"strings"

	"prepquiz-service/internal/domain"
)

// UntitledQuestion replaces a missing prompt.
const UntitledQuestion = "Untitled question"

var (
	textFields   = []string{"question", "text", "prompt", "q", "title"}
	optionFields = []string{"options", "choices", "answers"}
	hintFields   = []string{"hint", "explanation", "tip"}
	idFields     = []string{"id", "questionId", "question_id"}
)

// OptionTexts flattens the options of a raw record into plain strings. Entries may be
// strings or objects carrying a "text" or "label" field.
func OptionTexts(raw domain.RawQuestion) []string {
	for _, field := range optionFields {
		list, ok := raw[field].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		options := make([]string, 0, len(list))
		for _, entry := range list {
			options = append(options, optionText(entry))
		}
		return options
	}
	return nil
}

func optionText(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case map[string]any:
		return firstString(v, "text", "label")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func firstString(m map[string]any, fields ...string) string {
	for _, field := range fields {
		switch v := m[field].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case int, int64, float64:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// NormalizeRaw decodes one raw record into a Question, keeping the source option order.
// fallbackID is used when the record carries no id of its own.
func NormalizeRaw(raw domain.RawQuestion, fallbackID string) domain.Question {
	text := firstString(raw, textFields...)
	if text == "" {
		text = UntitledQuestion
	}
	id := firstString(raw, idFields...)
	if id == "" {
		id = fallbackID
	}
	return domain.Question{
		ID:          id,
		Text:        text,
		Options:     OptionTexts(raw),
		AnswerIndex: ResolveAnswerIndex(raw),
		Hint:        firstString(raw, hintFields...),
	}
}

// QuestionID builds the id used for records without one.
func QuestionID(categoryID, setID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", categoryID, setID, index+1)
}

// SelectSet resolves a category and set, falling back to the first category and then
// to the first set of the category. ok is false when the content has nothing to offer.
func SelectSet(content domain.Content, categoryID, setID string) (domain.Category, domain.QuestionSet, bool) {
	category, found := content.Category(categoryID)
	if !found {
		if len(content.Categories) == 0 {
			return domain.Category{}, domain.QuestionSet{}, false
		}
		category = content.Categories[0]
	}
	if set, found := category.Set(setID); found {
		return category, set, true
	}
	if len(category.Sets) == 0 {
		return category, domain.QuestionSet{}, false
	}
	return category, category.Sets[0], true
}

// BuildQuestions normalizes every record of a set and shuffles each option list.
// Records without options are dropped since the engine could never resolve them.
func BuildQuestions(category domain.Category, set domain.QuestionSet, rnd Rand) []domain.Question {
	questions := make([]domain.Question, 0, len(set.Questions))
	for i, raw := range set.Questions {
		q := NormalizeRaw(raw, QuestionID(category.ID, set.ID, i))
		if len(q.Options) == 0 {
			continue
		}
		shuffled := ShuffleOptions(q.Options, q.AnswerIndex, rnd)
		q.Options = shuffled.Options
		q.AnswerIndex = shuffled.AnswerIndex
		questions = append(questions, q)
	}
	return questions
}
