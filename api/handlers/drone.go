package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/config"
	"github.com/linesmerrill/drone-survey-sync/models"
	"github.com/linesmerrill/drone-survey-sync/store"
)

// Drone exported for testing purposes
type Drone struct {
	Store Store
}

// DronesHandler returns the cached drones of the active organization.
// search filters by serial number or model, available=true keeps only
// drones that can be scheduled.
func (d Drone) DronesHandler(w http.ResponseWriter, r *http.Request) {
	drones := store.FilterDrones(d.Store.Snapshot().Drones, r.URL.Query().Get("search"))
	if available, _ := strconv.ParseBool(r.URL.Query().Get("available")); available {
		drones = store.AvailableDrones(drones)
	}
	writeJSON(w, http.StatusOK, models.DronesResponse{Drones: drones})
}

// RefreshDronesHandler refetches drones of the active organization
func (d Drone) RefreshDronesHandler(w http.ResponseWriter, r *http.Request) {
	if err := d.Store.FetchDrones(r.Context()); err != nil {
		config.ErrorStatus("failed to refresh drones", statusFor(err), w, err)
		return
	}
	d.DronesHandler(w, r)
}

// CreateDroneHandler registers a drone. Fields missing from the body take
// the add-drone form defaults.
func (d Drone) CreateDroneHandler(w http.ResponseWriter, r *http.Request) {
	in := models.NewDroneInput("", "")
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	drone, err := d.Store.CreateDrone(r.Context(), in)
	if err != nil {
		config.ErrorStatus("failed to create drone", statusFor(err), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.DroneResponse{Drone: drone})
}

// DeleteDroneHandler deletes a drone by ID
func (d Drone) DeleteDroneHandler(w http.ResponseWriter, r *http.Request) {
	droneID := mux.Vars(r)["drone_id"]

	zap.S().Debugw("deleting drone", "droneId", droneID)

	if err := d.Store.DeleteDrone(r.Context(), droneID); err != nil {
		config.ErrorStatus("failed to delete drone", statusFor(err), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
