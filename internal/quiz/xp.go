package quiz

import "math"

const (
	// MaxXP is awarded for a correct answer given with the full budget remaining.
	MaxXP = 20
	// MinXP is the floor for any correct answer.
	MinXP = 1
)

// ComputeXP scales MaxXP linearly by the share of time left, clamped to [MinXP, MaxXP].
func ComputeXP(secondsRemaining, secondsTotal int) int {
	if secondsTotal <= 0 {
		return MinXP
	}
	xp := int(math.Round(float64(secondsRemaining) / float64(secondsTotal) * MaxXP))
	if xp < MinXP {
		return MinXP
	}
	if xp > MaxXP {
		return MaxXP
	}
	return xp
}
