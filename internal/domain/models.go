package domain

import "time"

// Question is one normalized quiz item. AnswerIndex always points into Options.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Hint        string   `json:"hint"`
}

// ReviewEntry records how a single question was resolved during a session.
// SelectedIndex is nil when the question timed out.
type ReviewEntry struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	AnswerIndex   int      `json:"answerIndex"`
	SelectedIndex *int     `json:"selectedIndex,omitempty"`
	TimesUp       bool     `json:"timesUp"`
}

// Result is the terminal payload of a quiz session.
type Result struct {
	Score        int           `json:"score"`
	CorrectCount int           `json:"correctCount"`
	Total        int           `json:"total"`
	Review       []ReviewEntry `json:"review"`
	TimeTakenSec int           `json:"timeTakenSec"`
}

// DailyMeta describes the content a daily completion belongs to.
type DailyMeta struct {
	SetID    string `json:"setId"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// DailySet is the cached question list for one rollover-adjusted day.
type DailySet struct {
	DayKey    string     `json:"dayKey"`
	Questions []Question `json:"questions"`
}

// DailyStatus is the cached completion record for one rollover-adjusted day.
type DailyStatus struct {
	DayKey    string        `json:"dayKey"`
	Completed bool          `json:"completed"`
	Review    []ReviewEntry `json:"review"`
	Meta      *DailyMeta    `json:"meta"`
}

// DailyToday merges the current daily set with its completion status.
type DailyToday struct {
	DayKey    string        `json:"dayKey"`
	Questions []Question    `json:"questions"`
	Completed bool          `json:"completed"`
	Review    []ReviewEntry `json:"review"`
	Meta      *DailyMeta    `json:"meta"`
}

// AttemptType distinguishes hand-picked set sessions from daily challenges.
type AttemptType string

const (
	AttemptSet   AttemptType = "set"
	AttemptDaily AttemptType = "daily"
)

// Attempt is one finished session as stored in the attempt history.
type Attempt struct {
	ID           string      `json:"id"`
	Type         AttemptType `json:"type"`
	Meta         *DailyMeta  `json:"meta"`
	Correct      int         `json:"correct"`
	Total        int         `json:"total"`
	TimeTakenSec int         `json:"timeTakenSec"`
	XPEarned     int         `json:"xpEarned"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// RawQuestion is a hand-authored question record in any of the supported shapes.
type RawQuestion map[string]any

// QuestionSet is a named group of raw questions inside a category.
type QuestionSet struct {
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Questions []RawQuestion `json:"questions" yaml:"questions"`
}

// Category groups question sets by hazard topic.
type Category struct {
	ID    string        `json:"id" yaml:"id"`
	Title string        `json:"title" yaml:"title"`
	Sets  []QuestionSet `json:"sets" yaml:"sets"`
}

// Content is the read-only quiz catalogue. Category order is significant.
type Content struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Category returns the category with the given id.
func (c Content) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Set returns the set with the given id.
func (c Category) Set(id string) (QuestionSet, bool) {
	for _, set := range c.Sets {
		if set.ID == id {
			return set, true
		}
	}
	return QuestionSet{}, false
}
