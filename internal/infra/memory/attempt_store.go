package memory

import (
	"context"
	"sync"

	"prepquiz-service/internal/domain"
)

// AttemptStore keeps the attempt history in memory, oldest first.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts []domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{}
}

func (s *AttemptStore) Record(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

// Recent returns up to limit attempts, newest first. limit <= 0 returns all of them.
func (s *AttemptStore) Recent(_ context.Context, limit int) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.attempts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Attempt, 0, n)
	for i := len(s.attempts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.attempts[i])
	}
	return out, nil
}
