package app

import "time"

// Sound is a sound effect kind the engine asks the host to play.
type Sound string

const (
	SoundCorrect   Sound = "correct"
	SoundIncorrect Sound = "incorrect"
	SoundTimesUp   Sound = "timesup"
)

// Haptic is a haptic notification kind.
type Haptic string

const (
	HapticSuccess Haptic = "success"
	HapticError   Haptic = "error"
	HapticWarning Haptic = "warning"
)

// SFX plays sound effects. Calls are fire-and-forget.
type SFX interface {
	Play(kind Sound)
	StopBackground()
}

// Haptics triggers device feedback. Calls are fire-and-forget.
type Haptics interface {
	Notify(kind Haptic)
}

// Toaster shows and hides a transient message.
type Toaster interface {
	Show(text string)
	Hide()
}

// NopSFX, NopHaptics and NopToaster are used when the host has no such backend.
type (
	NopSFX     struct{}
	NopHaptics struct{}
	NopToaster struct{}
)

func (NopSFX) Play(Sound)        {}
func (NopSFX) StopBackground()   {}
func (NopHaptics) Notify(Haptic) {}
func (NopToaster) Show(string)   {}
func (NopToaster) Hide()         {}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The engine keeps at most one pending callback.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallScheduler schedules on real timers.
func WallScheduler() Scheduler {
	return wallScheduler{}
}
