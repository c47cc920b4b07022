package http

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/domain"
)

const (
	defaultAttemptsLimit = 20
	maxAttemptsLimit     = 100
)

// AttemptsHandler exposes the attempt history as JSON.
type AttemptsHandler struct {
	history app.AttemptHistory
	log     zerolog.Logger
}

func NewAttemptsHandler(history app.AttemptHistory, log zerolog.Logger) *AttemptsHandler {
	return &AttemptsHandler{history: history, log: log.With().Str("component", "attempts_handler").Logger()}
}

// ServeRecent writes the newest attempts. Query: limit=n (default 20, at most 100).
func (h *AttemptsHandler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultAttemptsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxAttemptsLimit)
	}

	attempts, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("recent attempts failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if attempts == nil {
		attempts = []domain.Attempt{}
	}
	writeJSON(w, attempts)
}
