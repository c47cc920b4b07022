package quiz

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffleOptionsIsPermutationTrackingCorrect(t *testing.T) {
	inputs := [][]string{
		{"a", "b"},
		{"a", "b", "c", "d"},
		{"same", "same", "other"},
		{"1", "2", "3", "4", "5", "6"},
	}

	for seed := int64(0); seed < 50; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		for _, options := range inputs {
			for correct := range options {
				original := append([]string(nil), options...)
				out := ShuffleOptions(options, correct, rnd)

				require.Equal(t, original, options, "input must not be mutated")
				require.Equal(t, options[correct], out.Options[out.AnswerIndex])

				got := append([]string(nil), out.Options...)
				want := append([]string(nil), options...)
				sort.Strings(got)
				sort.Strings(want)
				require.Equal(t, want, got)
			}
		}
	}
}

func TestShuffleOptionsUsesInjectedRand(t *testing.T) {
	// Intn always returning 0 rotates the first element to the back each step.
	out := ShuffleOptions([]string{"a", "b", "c"}, 0, zeroRand{})
	require.Equal(t, []string{"b", "c", "a"}, out.Options)
	require.Equal(t, 2, out.AnswerIndex)
}

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }
