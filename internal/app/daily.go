package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"prepquiz-service/internal/domain"
	"prepquiz-service/internal/quiz"
)

const (
	// DailySetKey holds the cached DailySet document.
	DailySetKey = "daily:set"
	// DailyStatusKey holds the cached DailyStatus document.
	DailyStatusKey = "daily:status"
	// DefaultRolloverHour is the local hour at which a new daily cycle begins.
	DefaultRolloverHour = 8

	dayKeyLayout       = "2006-01-02"
	dailyTitle         = "Daily Challenge"
	dailyCategoryLabel = "daily"
)

// KVStore persists whole string documents under fixed keys. Get reports ok=false for a
// missing key.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ContentSource provides the read-only question catalogue.
type ContentSource interface {
	GetContent(ctx context.Context) (domain.Content, error)
}

// DayKey returns the YYYY-MM-DD cycle t belongs to. Before rolloverHour the cycle is
// still the previous calendar day; the rollover hour itself starts the new one.
func DayKey(t time.Time, rolloverHour int) string {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	if t.Hour() < rolloverHour {
		day = day.AddDate(0, 0, -1)
	}
	return day.Format(dayKeyLayout)
}

// DailyMetaFor describes the daily set of a given cycle.
func DailyMetaFor(dayKey string) *domain.DailyMeta {
	return &domain.DailyMeta{
		SetID:    "daily-" + dayKey,
		Title:    dailyTitle,
		Category: dailyCategoryLabel,
	}
}

// DailyOption customizes a DailyScheduler.
type DailyOption func(*DailyScheduler)

// WithDailyClock sets the time source.
func WithDailyClock(now func() time.Time) DailyOption {
	return func(s *DailyScheduler) { s.now = now }
}

// WithLocation evaluates day keys in loc instead of the clock's own location.
func WithLocation(loc *time.Location) DailyOption {
	return func(s *DailyScheduler) { s.loc = loc }
}

// WithRolloverHour changes the hour a new cycle starts.
func WithRolloverHour(hour int) DailyOption {
	return func(s *DailyScheduler) {
		if hour >= 0 && hour < 24 {
			s.rolloverHour = hour
		}
	}
}

// WithDailyRand sets the randomness used to pick sets and questions.
func WithDailyRand(rnd quiz.Rand) DailyOption {
	return func(s *DailyScheduler) { s.rnd = rnd }
}

// WithDailyLogger attaches a logger.
func WithDailyLogger(log zerolog.Logger) DailyOption {
	return func(s *DailyScheduler) { s.log = log.With().Str("component", "daily_scheduler").Logger() }
}

// DailyScheduler owns the day-scoped question set and completion status. Read
// failures are treated as a cache miss; write failures are logged and ignored except
// when marking a day completed.
type DailyScheduler struct {
	store        KVStore
	content      ContentSource
	now          func() time.Time
	loc          *time.Location
	rolloverHour int
	rnd          quiz.Rand
	log          zerolog.Logger
}

func NewDailyScheduler(store KVStore, content ContentSource, opts ...DailyOption) *DailyScheduler {
	s := &DailyScheduler{
		store:        store,
		content:      content,
		now:          time.Now,
		rolloverHour: DefaultRolloverHour,
		rnd:          quiz.NewRand(),
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentDayKey is the cycle of the scheduler's clock.
func (s *DailyScheduler) CurrentDayKey() string {
	now := s.now()
	if s.loc != nil {
		now = now.In(s.loc)
	}
	return DayKey(now, s.rolloverHour)
}

// GetOrCreateDailySet returns the cached set for the current cycle, building and
// persisting a new one when the cache is missing, unreadable or stale. A new set also
// resets a status left over from an earlier cycle. An empty catalogue yields an empty
// set.
func (s *DailyScheduler) GetOrCreateDailySet(ctx context.Context) (domain.DailySet, error) {
	dayKey := s.CurrentDayKey()

	var cached domain.DailySet
	if s.load(ctx, DailySetKey, &cached) && cached.DayKey == dayKey {
		return cached, nil
	}

	content, err := s.content.GetContent(ctx)
	if errors.Is(err, domain.ErrContentNotFound) {
		content = domain.Content{}
	} else if err != nil {
		return domain.DailySet{}, fmt.Errorf("load content: %w", err)
	}

	set := domain.DailySet{DayKey: dayKey, Questions: s.pickQuestions(content)}
	s.save(ctx, DailySetKey, set)

	var status domain.DailyStatus
	if !s.load(ctx, DailyStatusKey, &status) || status.DayKey != dayKey {
		s.save(ctx, DailyStatusKey, freshStatus(dayKey))
	}

	s.log.Info().Str("day", dayKey).Int("questions", len(set.Questions)).Msg("daily set created")
	return set, nil
}

// pickQuestions takes one random question from one random non-empty set of each
// category, in category order. Options keep their source order.
func (s *DailyScheduler) pickQuestions(content domain.Content) []domain.Question {
	questions := make([]domain.Question, 0, len(content.Categories))
	for _, category := range content.Categories {
		eligible := make([]domain.QuestionSet, 0, len(category.Sets))
		for _, set := range category.Sets {
			if len(set.Questions) > 0 {
				eligible = append(eligible, set)
			}
		}
		if len(eligible) == 0 {
			continue
		}
		set := eligible[s.rnd.Intn(len(eligible))]
		idx := s.rnd.Intn(len(set.Questions))
		questions = append(questions, quiz.NormalizeRaw(set.Questions[idx], quiz.QuestionID(category.ID, set.ID, idx)))
	}
	return questions
}

// GetDailyStatus returns the completion record of the current cycle. A missing,
// unreadable or stale record reads as not completed; nothing is written.
func (s *DailyScheduler) GetDailyStatus(ctx context.Context) domain.DailyStatus {
	dayKey := s.CurrentDayKey()
	var status domain.DailyStatus
	if !s.load(ctx, DailyStatusKey, &status) || status.DayKey != dayKey {
		return freshStatus(dayKey)
	}
	if status.Review == nil {
		status.Review = []domain.ReviewEntry{}
	}
	return status
}

// MarkDailyCompleted stores the current cycle as completed with its review log.
func (s *DailyScheduler) MarkDailyCompleted(ctx context.Context, review []domain.ReviewEntry, meta *domain.DailyMeta) (domain.DailyStatus, error) {
	if review == nil {
		review = []domain.ReviewEntry{}
	}
	status := domain.DailyStatus{
		DayKey:    s.CurrentDayKey(),
		Completed: true,
		Review:    review,
		Meta:      meta,
	}
	data, err := json.Marshal(status)
	if err != nil {
		return status, fmt.Errorf("encode daily status: %w", err)
	}
	if err := s.store.Set(ctx, DailyStatusKey, string(data)); err != nil {
		return status, fmt.Errorf("save daily status: %w", err)
	}
	return status, nil
}

// GetDailyToday merges the current set with its status. A status from another cycle
// is shown as not completed. Meta falls back to the daily set itself when the status
// carries none.
func (s *DailyScheduler) GetDailyToday(ctx context.Context) (domain.DailyToday, error) {
	set, err := s.GetOrCreateDailySet(ctx)
	if err != nil {
		return domain.DailyToday{}, err
	}

	today := domain.DailyToday{
		DayKey:    set.DayKey,
		Questions: set.Questions,
		Review:    []domain.ReviewEntry{},
		Meta:      DailyMetaFor(set.DayKey),
	}

	var status domain.DailyStatus
	if s.load(ctx, DailyStatusKey, &status) && status.DayKey == set.DayKey {
		today.Completed = status.Completed
		if status.Review != nil {
			today.Review = status.Review
		}
		if status.Meta != nil {
			today.Meta = status.Meta
		}
	}
	return today, nil
}

func (s *DailyScheduler) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("daily read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable daily document")
		return false
	}
	return true
}

func (s *DailyScheduler) save(ctx context.Context, key string, doc any) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("daily encode failed")
		return
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("daily write failed")
	}
}

func freshStatus(dayKey string) domain.DailyStatus {
	return domain.DailyStatus{DayKey: dayKey, Review: []domain.ReviewEntry{}}
}
