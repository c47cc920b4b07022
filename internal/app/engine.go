package app

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prepquiz-service/internal/domain"
	"prepquiz-service/internal/quiz"
)

const (
	// DefaultQuestionTime is the countdown budget of every question.
	DefaultQuestionTime = 20 * time.Second
	// DefaultRevealDelay is how long a resolved question stays on screen before advancing.
	DefaultRevealDelay = 2800 * time.Millisecond

	tickInterval = time.Second
	timesUpToast = "Time's up!"
)

var encouragements = []string{
	"Not quite, keep going!",
	"Every mistake is practice for the real thing.",
	"Close one. You'll get the next!",
	"Stay calm and try the next question.",
}

type phase int

const (
	phaseIdle phase = iota
	phaseCounting
	phaseRevealing
	phaseFinished
	phaseStopped
)

// EngineDeps are the side-effect collaborators of a session. Nil entries are replaced
// by no-op implementations.
type EngineDeps struct {
	SFX      SFX
	Haptics  Haptics
	Toaster  Toaster
	OnFinish func(domain.Result)
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithScheduler replaces the wall-clock timers, mostly for tests.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.scheduler = s }
}

// WithClock sets the time source used to measure the session duration.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the randomness used to pick encouragement messages.
func WithRand(rnd quiz.Rand) EngineOption {
	return func(e *Engine) { e.rnd = rnd }
}

// WithTiming overrides the per-question budget and the reveal delay. The budget is
// counted in whole seconds; anything under a second becomes one.
func WithTiming(questionTime, revealDelay time.Duration) EngineOption {
	return func(e *Engine) {
		if questionTime > 0 {
			e.budget = wholeSeconds(questionTime)
		}
		if revealDelay > 0 {
			e.reveal = revealDelay
		}
	}
}

// WithOnChange registers a hook that receives a snapshot after every state step.
func WithOnChange(fn func(Snapshot)) EngineOption {
	return func(e *Engine) { e.onChange = fn }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log.With().Str("component", "quiz_engine").Logger() }
}

// Snapshot is a read-only view of a session for presentation code.
type Snapshot struct {
	Index            int                `json:"index"`
	Total            int                `json:"total"`
	Question         *domain.Question   `json:"question,omitempty"`
	RemainingSeconds int                `json:"remainingSeconds"`
	SelectedIndex    *int               `json:"selectedIndex,omitempty"`
	Locked           bool               `json:"locked"`
	TimesUp          bool               `json:"timesUp"`
	Score            int                `json:"score"`
	CorrectCount     int                `json:"correctCount"`
	Toast            string             `json:"toast,omitempty"`
	Flags            []quiz.RevealFlags `json:"flags,omitempty"`
	Finished         bool               `json:"finished"`
}

// Engine drives one quiz session: a countdown per question, input locking on answer or
// timeout, XP scoring, and a single completion callback once the last reveal elapses.
//
// Every state change happens under mu. Collaborator calls are collected while locked
// and made after unlocking, so hooks may call back into the engine.
type Engine struct {
	questions []domain.Question
	deps      EngineDeps
	scheduler Scheduler
	now       func() time.Time
	rnd       quiz.Rand
	log       zerolog.Logger
	onChange  func(Snapshot)
	budget    int
	reveal    time.Duration

	mu        sync.Mutex
	phase     phase
	index     int
	selected  *int
	locked    bool
	timesUp   bool
	remaining int
	score     int
	correct   int
	review    []domain.ReviewEntry
	toast     string
	startedAt time.Time
	pending   Timer
	gen       uint64
}

// NewEngine builds an idle session over questions. Call Start to begin the countdown.
func NewEngine(questions []domain.Question, deps EngineDeps, opts ...EngineOption) *Engine {
	if deps.SFX == nil {
		deps.SFX = NopSFX{}
	}
	if deps.Haptics == nil {
		deps.Haptics = NopHaptics{}
	}
	if deps.Toaster == nil {
		deps.Toaster = NopToaster{}
	}

	e := &Engine{
		questions: questions,
		deps:      deps,
		scheduler: WallScheduler(),
		now:       time.Now,
		rnd:       quiz.NewRand(),
		log:       zerolog.Nop(),
		budget:    wholeSeconds(DefaultQuestionTime),
		reveal:    DefaultRevealDelay,
		review:    make([]domain.ReviewEntry, 0, len(questions)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.remaining = e.budget
	return e
}

// Start begins the first question. A session without questions stays inert.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.phase != phaseIdle || len(e.questions) == 0 {
		e.mu.Unlock()
		return
	}
	e.startedAt = e.now()
	e.phase = phaseCounting
	e.remaining = e.budget
	e.scheduleLocked(tickInterval, e.tickLocked)
	fx := []func(){e.changedLocked()}
	e.mu.Unlock()

	run(fx)
}

// Choose answers the current question. It reports false and does nothing when the
// question is already resolved, the session is not running, or the index is invalid.
func (e *Engine) Choose(optionIndex int) bool {
	e.mu.Lock()
	if e.phase != phaseCounting || e.locked || e.timesUp {
		e.mu.Unlock()
		return false
	}
	q := e.questions[e.index]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		e.mu.Unlock()
		return false
	}

	e.cancelLocked()
	e.selected = &optionIndex
	e.locked = true
	e.phase = phaseRevealing
	e.review = append(e.review, reviewEntry(q, intPtr(optionIndex), false))

	var fx []func()
	if optionIndex == q.AnswerIndex {
		xp := quiz.ComputeXP(e.remaining, e.budget)
		e.score += xp
		e.correct++
		e.toast = fmt.Sprintf("+%d XP", xp)
		fx = append(fx,
			func() { e.deps.SFX.Play(SoundCorrect) },
			func() { e.deps.Haptics.Notify(HapticSuccess) },
		)
		e.log.Debug().Str("question", q.ID).Int("xp", xp).Msg("answered correctly")
	} else {
		e.toast = encouragements[e.rnd.Intn(len(encouragements))]
		fx = append(fx,
			func() { e.deps.SFX.Play(SoundIncorrect) },
			func() { e.deps.Haptics.Notify(HapticError) },
		)
		e.log.Debug().Str("question", q.ID).Int("selected", optionIndex).Msg("answered incorrectly")
	}
	toast := e.toast
	fx = append(fx, func() { e.deps.Toaster.Show(toast) })

	e.scheduleLocked(e.reveal, e.advanceLocked)
	fx = append(fx, e.changedLocked())
	e.mu.Unlock()

	run(fx)
	return true
}

// Flags returns the reveal highlight for one option of the current question.
func (e *Engine) Flags(optionIndex int) quiz.RevealFlags {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index >= len(e.questions) {
		return quiz.RevealFlags{}
	}
	q := e.questions[e.index]
	return quiz.DeriveRevealFlags(optionIndex, q.AnswerIndex, e.selected, e.locked, e.timesUp)
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Stop tears the session down: pending timers are cancelled and the completion
// callback will not fire. Stopping a finished session is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	if e.phase != phaseFinished {
		e.phase = phaseStopped
	}
}

func (e *Engine) tickLocked() []func() {
	if e.phase != phaseCounting {
		return nil
	}
	e.remaining--
	if e.remaining > 0 {
		e.scheduleLocked(tickInterval, e.tickLocked)
		return []func(){e.changedLocked()}
	}
	e.remaining = 0
	return e.expireLocked()
}

func (e *Engine) expireLocked() []func() {
	q := e.questions[e.index]
	e.locked = true
	e.timesUp = true
	e.phase = phaseRevealing
	e.review = append(e.review, reviewEntry(q, nil, true))
	e.toast = timesUpToast
	e.log.Debug().Str("question", q.ID).Msg("time is up")

	e.scheduleLocked(e.reveal, e.advanceLocked)
	return []func(){
		func() { e.deps.SFX.Play(SoundTimesUp) },
		func() { e.deps.Haptics.Notify(HapticWarning) },
		func() { e.deps.Toaster.Show(timesUpToast) },
		e.changedLocked(),
	}
}

func (e *Engine) advanceLocked() []func() {
	if e.phase != phaseRevealing {
		return nil
	}
	e.selected = nil
	e.locked = false
	e.timesUp = false
	e.toast = ""
	fx := []func(){e.deps.Toaster.Hide}

	if e.index+1 < len(e.questions) {
		e.index++
		e.remaining = e.budget
		e.phase = phaseCounting
		e.scheduleLocked(tickInterval, e.tickLocked)
		return append(fx, e.changedLocked())
	}

	e.index = len(e.questions)
	e.phase = phaseFinished
	e.cancelLocked()
	review := make([]domain.ReviewEntry, len(e.review))
	copy(review, e.review)
	result := domain.Result{
		Score:        e.score,
		CorrectCount: e.correct,
		Total:        len(e.questions),
		Review:       review,
		TimeTakenSec: int(math.Round(e.now().Sub(e.startedAt).Seconds())),
	}
	e.log.Debug().Int("score", result.Score).Int("correct", result.CorrectCount).Int("total", result.Total).Msg("session finished")

	fx = append(fx, e.deps.SFX.StopBackground, e.changedLocked())
	if e.deps.OnFinish != nil {
		fx = append(fx, func() { e.deps.OnFinish(result) })
	}
	return fx
}

// scheduleLocked replaces whatever callback is pending with step after d.
func (e *Engine) scheduleLocked(d time.Duration, step func() []func()) {
	e.cancelLocked()
	gen := e.gen
	e.pending = e.scheduler.AfterFunc(d, func() { e.fire(gen, step) })
}

func (e *Engine) cancelLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.gen++
}

// fire runs a scheduled step unless it was superseded after being armed.
func (e *Engine) fire(gen uint64, step func() []func()) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	fx := step()
	e.mu.Unlock()

	run(fx)
}

func (e *Engine) changedLocked() func() {
	if e.onChange == nil {
		return func() {}
	}
	snap := e.snapshotLocked()
	return func() { e.onChange(snap) }
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Index:            e.index,
		Total:            len(e.questions),
		RemainingSeconds: e.remaining,
		Locked:           e.locked,
		TimesUp:          e.timesUp,
		Score:            e.score,
		CorrectCount:     e.correct,
		Toast:            e.toast,
		Finished:         e.phase == phaseFinished,
	}
	if e.selected != nil {
		snap.SelectedIndex = intPtr(*e.selected)
	}
	if e.index < len(e.questions) {
		q := e.questions[e.index]
		snap.Question = &q
		snap.Flags = make([]quiz.RevealFlags, len(q.Options))
		for i := range q.Options {
			snap.Flags[i] = quiz.DeriveRevealFlags(i, q.AnswerIndex, e.selected, e.locked, e.timesUp)
		}
	}
	return snap
}

func reviewEntry(q domain.Question, selected *int, timesUp bool) domain.ReviewEntry {
	return domain.ReviewEntry{
		ID:            q.ID,
		Text:          q.Text,
		Options:       q.Options,
		AnswerIndex:   q.AnswerIndex,
		SelectedIndex: selected,
		TimesUp:       timesUp,
	}
}

func run(fx []func()) {
	for _, f := range fx {
		f()
	}
}

func intPtr(v int) *int {
	return &v
}

func wholeSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
