package domain

import "errors"

var (
	// ErrContentNotFound is returned when no quiz content could be loaded at all.
	ErrContentNotFound = errors.New("quiz content not found")
	// ErrNoQuestions indicates a requested session would contain zero questions.
	ErrNoQuestions = errors.New("no questions available")
	// ErrSessionFinished is returned when acting on a session that already completed.
	ErrSessionFinished = errors.New("quiz session finished")
	// ErrUnknownMode indicates a play request named neither a set nor the daily challenge.
	ErrUnknownMode = errors.New("unknown play mode")
)
