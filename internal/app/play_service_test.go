package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/domain"
	"prepquiz-service/internal/infra/memory"
	"prepquiz-service/internal/quiz"
)

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, domain.Attempt) error {
	return errors.New("disk full")
}

func newTestPlayService(attempts app.AttemptRecorder, clock *testClock, sched *manualScheduler) (*app.PlayService, *app.DailyScheduler) {
	content := memory.NewStaticContentLoader(dailyContent())
	daily := app.NewDailyScheduler(memory.NewKVStore(), content,
		app.WithDailyClock(clock.Now),
		app.WithDailyRand(quiz.NewSeededRand(3)),
	)
	service := app.NewPlayService(content, daily, attempts,
		app.WithPlayClock(clock.Now),
		app.WithPlayRand(quiz.NewSeededRand(3)),
		app.WithEngineOptions(app.WithScheduler(sched), app.WithClock(sched.Now)),
	)
	return service, daily
}

func TestPlayServiceRecordsSetAttempt(t *testing.T) {
	ctx := context.Background()
	attempts := memory.NewAttemptStore()
	clock := &testClock{now: time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)}
	sched := newManualScheduler(clock.Now())
	service, daily := newTestPlayService(attempts, clock, sched)

	plan, err := service.Plan(ctx, app.PlayRequest{Mode: domain.AttemptSet, CategoryID: "fire", SetID: "basics"})
	require.NoError(t, err)
	require.Len(t, plan.Questions, 2)
	require.Equal(t, "basics", plan.Meta.SetID)

	rec := &recorder{}
	engine := service.NewEngine(plan, rec.deps())
	engine.Start()
	for range plan.Questions {
		q := engine.Snapshot().Question
		require.NotNil(t, q)
		require.True(t, engine.Choose(q.AnswerIndex))
		sched.Advance(app.DefaultRevealDelay)
	}

	require.Len(t, rec.results, 1)
	recent, err := attempts.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, domain.AttemptSet, recent[0].Type)
	require.Equal(t, 2, recent[0].Correct)
	require.Equal(t, 40, recent[0].XPEarned)
	require.NotEmpty(t, recent[0].ID)
	require.False(t, daily.GetDailyStatus(ctx).Completed)
}

func TestPlayServiceDailyMarksCompleted(t *testing.T) {
	ctx := context.Background()
	attempts := memory.NewAttemptStore()
	clock := &testClock{now: time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)}
	sched := newManualScheduler(clock.Now())
	service, daily := newTestPlayService(attempts, clock, sched)

	plan, err := service.Plan(ctx, app.PlayRequest{Mode: domain.AttemptDaily})
	require.NoError(t, err)
	require.Equal(t, app.DailyMetaFor("2025-09-03"), plan.Meta)

	set, err := daily.GetOrCreateDailySet(ctx)
	require.NoError(t, err)
	require.Equal(t, set.Questions, plan.Questions)

	rec := &recorder{}
	engine := service.NewEngine(plan, rec.deps())
	engine.Start()
	for range plan.Questions {
		sched.Advance(20*time.Second + app.DefaultRevealDelay)
	}

	require.Len(t, rec.results, 1)
	status := daily.GetDailyStatus(ctx)
	require.True(t, status.Completed)
	require.Len(t, status.Review, len(plan.Questions))
	require.True(t, status.Review[0].TimesUp)
	require.Nil(t, status.Review[0].SelectedIndex)
	require.Equal(t, plan.Meta, status.Meta)

	recent, err := attempts.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.AttemptDaily, recent[0].Type)
	require.Equal(t, 0, recent[0].XPEarned)
}

func TestPlayServiceCompleteJoinsErrors(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)}
	service, daily := newTestPlayService(failingRecorder{}, clock, newManualScheduler(clock.Now()))

	plan := app.PlayPlan{Mode: domain.AttemptDaily, Meta: app.DailyMetaFor("2025-09-03")}
	err := service.Complete(ctx, plan, domain.Result{Total: 1, Review: []domain.ReviewEntry{}})
	require.ErrorContains(t, err, "disk full")
	require.True(t, daily.GetDailyStatus(ctx).Completed)
}

func TestPlayServiceRejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)}
	service, _ := newTestPlayService(memory.NewAttemptStore(), clock, newManualScheduler(clock.Now()))

	_, err := service.Plan(ctx, app.PlayRequest{Mode: "weekly"})
	require.ErrorIs(t, err, domain.ErrUnknownMode)

	custom, err := service.Plan(ctx, app.PlayRequest{
		Mode:   domain.AttemptSet,
		Custom: []domain.Question{{ID: "c1", Options: []string{"a", "b"}, AnswerIndex: 0}},
	})
	require.NoError(t, err)
	require.Len(t, custom.Questions, 1)

	empty := app.NewPlayService(
		memory.NewStaticContentLoader(domain.Content{Categories: []domain.Category{{ID: "fire"}}}),
		nil, nil,
	)
	_, err = empty.Plan(ctx, app.PlayRequest{Mode: domain.AttemptSet})
	require.ErrorIs(t, err, domain.ErrNoQuestions)
}
