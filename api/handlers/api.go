package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linesmerrill/drone-survey-sync/api"
	"github.com/linesmerrill/drone-survey-sync/apiclient"
	"github.com/linesmerrill/drone-survey-sync/config"
	"github.com/linesmerrill/drone-survey-sync/models"
	"github.com/linesmerrill/drone-survey-sync/store"
)

// Store is the part of *store.Store the handlers use
type Store interface {
	Snapshot() store.Snapshot
	ListOrganizations(ctx context.Context) error
	CreateOrganization(ctx context.Context, in models.OrganizationInput) (models.Organization, error)
	SetActiveOrganization(ctx context.Context, org models.Organization) error
	FetchDrones(ctx context.Context) error
	CreateDrone(ctx context.Context, in models.DroneInput) (models.Drone, error)
	DeleteDrone(ctx context.Context, id string) error
	FetchMissions(ctx context.Context) error
	CreateMission(ctx context.Context, form models.MissionForm) (models.Mission, error)
	FetchStatistics(ctx context.Context) error
}

// App stores the router and the entity store, so it can be reused
type App struct {
	Router   *mux.Router
	Store    Store
	Config   config.Config
	Registry *prometheus.Registry
}

// Initialize wires the router for s
func (a *App) Initialize(s Store, reg *prometheus.Registry) {
	a.Store = s
	a.Registry = reg
	a.Router = a.New()
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := api.New(a.Registry, a.Config.RequestTimeout)

	st := State{Store: a.Store}
	o := Organization{Store: a.Store}
	d := Drone{Store: a.Store}
	m := Mission{Store: a.Store}
	s := Statistics{Store: a.Store}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/state", http.HandlerFunc(st.StateHandler)).Methods("GET")

	apiCreate.Handle("/organizations", http.HandlerFunc(o.OrganizationsHandler)).Methods("GET")
	apiCreate.Handle("/organizations", http.HandlerFunc(o.CreateOrganizationHandler)).Methods("POST")
	apiCreate.Handle("/organizations/refresh", http.HandlerFunc(o.RefreshOrganizationsHandler)).Methods("POST")
	apiCreate.Handle("/organizations/active", http.HandlerFunc(o.ActiveOrganizationHandler)).Methods("GET")
	apiCreate.Handle("/organizations/active", http.HandlerFunc(o.SetActiveOrganizationHandler)).Methods("PUT")

	apiCreate.Handle("/drones", http.HandlerFunc(d.DronesHandler)).Methods("GET")
	apiCreate.Handle("/drones", http.HandlerFunc(d.CreateDroneHandler)).Methods("POST")
	apiCreate.Handle("/drones/refresh", http.HandlerFunc(d.RefreshDronesHandler)).Methods("POST")
	apiCreate.Handle("/drones/{drone_id}", http.HandlerFunc(d.DeleteDroneHandler)).Methods("DELETE")

	apiCreate.Handle("/missions", http.HandlerFunc(m.MissionsHandler)).Methods("GET")
	apiCreate.Handle("/missions", http.HandlerFunc(m.CreateMissionHandler)).Methods("POST")
	apiCreate.Handle("/missions/refresh", http.HandlerFunc(m.RefreshMissionsHandler)).Methods("POST")

	apiCreate.Handle("/statistics", http.HandlerFunc(s.StatisticsHandler)).Methods("GET")
	apiCreate.Handle("/statistics/refresh", http.HandlerFunc(s.RefreshStatisticsHandler)).Methods("POST")

	return r
}

// writeJSON marshals v and writes it with status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// statusFor maps a store error to the response status
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	var apiErr *apiclient.Error
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNoActiveOrganization), errors.Is(err, store.ErrScopeChanged):
		return http.StatusConflict
	case errors.Is(err, store.ErrDroneUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
