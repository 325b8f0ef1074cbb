package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/drone-survey-sync/config"
	"github.com/linesmerrill/drone-survey-sync/models"
	"github.com/linesmerrill/drone-survey-sync/store"
)

// Mission exported for testing purposes
type Mission struct {
	Store Store
}

// MissionsHandler returns the cached missions of the active organization,
// filtered by name or description with search
func (m Mission) MissionsHandler(w http.ResponseWriter, r *http.Request) {
	missions := store.FilterMissions(m.Store.Snapshot().Missions, r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, models.MissionsResponse{Missions: missions})
}

// RefreshMissionsHandler refetches missions of the active organization
func (m Mission) RefreshMissionsHandler(w http.ResponseWriter, r *http.Request) {
	if err := m.Store.FetchMissions(r.Context()); err != nil {
		config.ErrorStatus("failed to refresh missions", statusFor(err), w, err)
		return
	}
	m.MissionsHandler(w, r)
}

// CreateMissionHandler schedules a mission from the planning form
func (m Mission) CreateMissionHandler(w http.ResponseWriter, r *http.Request) {
	var form models.MissionForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	mission, err := m.Store.CreateMission(r.Context(), form)
	if err != nil {
		config.ErrorStatus("failed to create mission", statusFor(err), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.MissionResponse{Mission: mission})
}
