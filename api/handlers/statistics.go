package handlers

import (
	"errors"
	"net/http"

	"github.com/linesmerrill/drone-survey-sync/config"
)

// Statistics exported for testing purposes
type Statistics struct {
	Store Store
}

// StatisticsHandler returns the statistics snapshot of the active
// organization
func (s Statistics) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.Store.Snapshot().Statistics
	if stats == nil {
		config.ErrorStatus("failed to get statistics", http.StatusNotFound, w, errors.New("statistics not loaded"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RefreshStatisticsHandler refetches the statistics snapshot
func (s Statistics) RefreshStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.FetchStatistics(r.Context()); err != nil {
		config.ErrorStatus("failed to refresh statistics", statusFor(err), w, err)
		return
	}
	s.StatisticsHandler(w, r)
}
