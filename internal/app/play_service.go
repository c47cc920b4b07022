package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"prepquiz-service/internal/domain"
	"prepquiz-service/internal/quiz"
)

// AttemptRecorder stores finished sessions in the attempt history.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt domain.Attempt) error
}

// AttemptHistory reads recorded sessions back, newest first.
type AttemptHistory interface {
	Recent(ctx context.Context, limit int) ([]domain.Attempt, error)
}

// PlayRequest names what to play. Custom questions, when given, are used as is.
type PlayRequest struct {
	Mode       domain.AttemptType
	CategoryID string
	SetID      string
	Custom     []domain.Question
}

// PlayPlan is a resolved request: the ordered questions and what they belong to.
type PlayPlan struct {
	Mode      domain.AttemptType
	Questions []domain.Question
	Meta      *domain.DailyMeta
}

// PlayOption customizes a PlayService.
type PlayOption func(*PlayService)

// WithPlayLogger attaches a logger.
func WithPlayLogger(log zerolog.Logger) PlayOption {
	return func(s *PlayService) { s.log = log.With().Str("component", "play_service").Logger() }
}

// WithPlayRand sets the randomness used to shuffle set options.
func WithPlayRand(rnd quiz.Rand) PlayOption {
	return func(s *PlayService) { s.rnd = rnd }
}

// WithPlayClock sets the time stamped on recorded attempts.
func WithPlayClock(now func() time.Time) PlayOption {
	return func(s *PlayService) { s.now = now }
}

// WithEngineOptions are applied to every engine the service creates.
func WithEngineOptions(opts ...EngineOption) PlayOption {
	return func(s *PlayService) { s.engineOpts = append(s.engineOpts, opts...) }
}

// PlayService turns play requests into engine sessions and feeds their results back
// into the attempt history and the daily status.
type PlayService struct {
	content    ContentSource
	daily      *DailyScheduler
	attempts   AttemptRecorder
	rnd        quiz.Rand
	now        func() time.Time
	log        zerolog.Logger
	engineOpts []EngineOption
}

func NewPlayService(content ContentSource, daily *DailyScheduler, attempts AttemptRecorder, opts ...PlayOption) *PlayService {
	s := &PlayService{
		content:  content,
		daily:    daily,
		attempts: attempts,
		rnd:      quiz.NewRand(),
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan resolves the questions for a request. ErrNoQuestions means the caller should
// not open a session at all.
func (s *PlayService) Plan(ctx context.Context, req PlayRequest) (PlayPlan, error) {
	switch req.Mode {
	case domain.AttemptDaily:
		set, err := s.daily.GetOrCreateDailySet(ctx)
		if err != nil {
			return PlayPlan{}, err
		}
		if len(set.Questions) == 0 {
			return PlayPlan{}, domain.ErrNoQuestions
		}
		return PlayPlan{Mode: domain.AttemptDaily, Questions: set.Questions, Meta: DailyMetaFor(set.DayKey)}, nil

	case domain.AttemptSet, "":
		if len(req.Custom) > 0 {
			return PlayPlan{
				Mode:      domain.AttemptSet,
				Questions: req.Custom,
				Meta:      &domain.DailyMeta{SetID: "custom", Title: "Custom questions", Category: req.CategoryID},
			}, nil
		}
		content, err := s.content.GetContent(ctx)
		if errors.Is(err, domain.ErrContentNotFound) {
			return PlayPlan{}, domain.ErrNoQuestions
		} else if err != nil {
			return PlayPlan{}, fmt.Errorf("load content: %w", err)
		}
		category, set, ok := quiz.SelectSet(content, req.CategoryID, req.SetID)
		if !ok {
			return PlayPlan{}, domain.ErrNoQuestions
		}
		questions := quiz.BuildQuestions(category, set, s.rnd)
		if len(questions) == 0 {
			return PlayPlan{}, domain.ErrNoQuestions
		}
		return PlayPlan{
			Mode:      domain.AttemptSet,
			Questions: questions,
			Meta:      &domain.DailyMeta{SetID: set.ID, Title: set.Title, Category: category.ID},
		}, nil
	}
	return PlayPlan{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
}

// NewEngine creates an engine for plan. The result is recorded before deps.OnFinish
// runs.
func (s *PlayService) NewEngine(plan PlayPlan, deps EngineDeps, opts ...EngineOption) *Engine {
	onFinish := deps.OnFinish
	deps.OnFinish = func(result domain.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Complete(ctx, plan, result); err != nil {
			s.log.Error().Err(err).Str("mode", string(plan.Mode)).Msg("failed to record session")
		}
		if onFinish != nil {
			onFinish(result)
		}
	}

	all := make([]EngineOption, 0, len(s.engineOpts)+len(opts)+1)
	all = append(all, WithLogger(s.log))
	all = append(all, s.engineOpts...)
	all = append(all, opts...)
	return NewEngine(plan.Questions, deps, all...)
}

// Complete writes the attempt history entry and, for daily sessions, marks the
// current cycle completed. Both are attempted even if one fails.
func (s *PlayService) Complete(ctx context.Context, plan PlayPlan, result domain.Result) error {
	var errs []error

	attempt := domain.Attempt{
		ID:           uuid.NewString(),
		Type:         plan.Mode,
		Meta:         plan.Meta,
		Correct:      result.CorrectCount,
		Total:        result.Total,
		TimeTakenSec: result.TimeTakenSec,
		XPEarned:     result.Score,
		CreatedAt:    s.now().UTC(),
	}
	if s.attempts != nil {
		if err := s.attempts.Record(ctx, attempt); err != nil {
			errs = append(errs, fmt.Errorf("record attempt: %w", err))
		}
	}

	if plan.Mode == domain.AttemptDaily && s.daily != nil {
		if _, err := s.daily.MarkDailyCompleted(ctx, result.Review, plan.Meta); err != nil {
			errs = append(errs, err)
		}
	}

	s.log.Info().
		Str("mode", string(plan.Mode)).
		Int("correct", result.CorrectCount).
		Int("total", result.Total).
		Int("xp", result.Score).
		Msg("session completed")
	return errors.Join(errs...)
}
