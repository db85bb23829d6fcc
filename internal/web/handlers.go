package web

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultHours = 24
	maxHours     = 24 * 90
)

func hoursParam(r *http.Request) int {
	hours := defaultHours
	if h := r.URL.Query().Get("hours"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed > 0 {
			hours = min(parsed, maxHours)
		}
	}
	return hours
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// handleRecent handles /api/recent requests
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.GetRecent(hoursParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, results)
}

// handleStats handles /api/stats requests
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(hoursParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}
