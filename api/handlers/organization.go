package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/config"
	"github.com/linesmerrill/drone-survey-sync/models"
)

// Organization exported for testing purposes
type Organization struct {
	Store Store
}

// activeOrganizationRequest is the body of PUT /organizations/active
type activeOrganizationRequest struct {
	OrganizationID string `json:"organizationId"`
}

// OrganizationsHandler returns the cached organizations
func (o Organization) OrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	orgs := o.Store.Snapshot().Organizations
	if orgs == nil {
		orgs = []models.Organization{}
	}
	writeJSON(w, http.StatusOK, models.OrganizationsResponse{Organizations: orgs})
}

// RefreshOrganizationsHandler refetches organizations from the backend
func (o Organization) RefreshOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	if err := o.Store.ListOrganizations(r.Context()); err != nil {
		config.ErrorStatus("failed to refresh organizations", statusFor(err), w, err)
		return
	}
	o.OrganizationsHandler(w, r)
}

// CreateOrganizationHandler creates an organization
func (o Organization) CreateOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	var in models.OrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	org, err := o.Store.CreateOrganization(r.Context(), in)
	if err != nil {
		config.ErrorStatus("failed to create organization", statusFor(err), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.OrganizationResponse{Organization: org})
}

// ActiveOrganizationHandler returns the active organization
func (o Organization) ActiveOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	active := o.Store.Snapshot().ActiveOrganization
	if active == nil {
		config.ErrorStatus("no active organization", http.StatusNotFound, w, errors.New("select an organization first"))
		return
	}
	writeJSON(w, http.StatusOK, models.OrganizationResponse{Organization: *active})
}

// SetActiveOrganizationHandler selects one of the cached organizations
func (o Organization) SetActiveOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	var req activeOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	zap.S().Debugw("selecting organization", "organizationId", req.OrganizationID)

	var org *models.Organization
	for _, candidate := range o.Store.Snapshot().Organizations {
		if candidate.ID == req.OrganizationID {
			c := candidate
			org = &c
			break
		}
	}
	if org == nil {
		config.ErrorStatus("failed to get organization by ID", http.StatusNotFound, w, errors.New("organization not found"))
		return
	}

	if err := o.Store.SetActiveOrganization(r.Context(), *org); err != nil {
		config.ErrorStatus("failed to set active organization", statusFor(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OrganizationResponse{Organization: *org})
}
