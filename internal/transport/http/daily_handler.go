package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"prepquiz-service/internal/app"
)

// DailyHandler exposes the daily challenge as JSON.
type DailyHandler struct {
	daily *app.DailyScheduler
	log   zerolog.Logger
}

func NewDailyHandler(daily *app.DailyScheduler, log zerolog.Logger) *DailyHandler {
	return &DailyHandler{daily: daily, log: log.With().Str("component", "daily_handler").Logger()}
}

// ServeToday writes the merged set and status of the current cycle.
func (h *DailyHandler) ServeToday(w http.ResponseWriter, r *http.Request) {
	today, err := h.daily.GetDailyToday(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("daily today failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, today)
}

// ServeStatus writes the completion record of the current cycle.
func (h *DailyHandler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.daily.GetDailyStatus(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
