package quiz

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the randomness source used for shuffling and picking. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe to share between sessions.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a goroutine-safe Rand seeded from the wall clock.
func NewRand() Rand {
	return NewSeededRand(time.Now().UnixNano())
}

// NewSeededRand returns a goroutine-safe Rand with a fixed seed.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Shuffled is a permuted option list and the new position of the correct entry.
type Shuffled struct {
	Options     []string
	AnswerIndex int
}

// ShuffleOptions returns a Fisher-Yates permutation of options and where the entry that
// sat at correctIndex ended up. The input slice is not modified.
func ShuffleOptions(options []string, correctIndex int, rnd Rand) Shuffled {
	type tagged struct {
		text    string
		correct bool
	}

	items := make([]tagged, len(options))
	for i, text := range options {
		items[i] = tagged{text: text, correct: i == correctIndex}
	}
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}

	out := Shuffled{Options: make([]string, len(items))}
	for i, item := range items {
		out.Options[i] = item.text
		if item.correct {
			out.AnswerIndex = i
		}
	}
	return out
}
