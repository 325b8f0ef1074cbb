package handlers

import (
	"net/http"
)

// State exported for testing purposes
type State struct {
	Store Store
}

// StateHandler returns the full store snapshot
func (s State) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}
