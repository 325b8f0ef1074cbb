package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/drone-survey-sync/api/handlers"
	"github.com/linesmerrill/drone-survey-sync/apiclient"
	"github.com/linesmerrill/drone-survey-sync/models"
	"github.com/linesmerrill/drone-survey-sync/store"
)

var (
	orgA = models.Organization{ID: "org-a", Name: "Alpha"}
	orgB = models.Organization{ID: "org-b", Name: "Bravo"}
)

func newApp(t *testing.T) (*handlers.App, *MockStore) {
	t.Helper()
	s := &MockStore{}
	t.Cleanup(func() { s.AssertExpectations(t) })
	a := &handlers.App{}
	a.Initialize(s, nil)
	return a, s
}

func executeRequest(a *handlers.App, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func errorBody(message string, err error) string {
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: err.Error()}})
	return string(b)
}

func TestUnknownRoute(t *testing.T) {
	a, _ := newApp(t)
	response := executeRequest(a, httptest.NewRequest("GET", "/asdf", nil))

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a, _ := newApp(t)
	response := executeRequest(a, httptest.NewRequest("GET", "/health", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"alive": true}`, response.Body.String())
}

func TestStateHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Organizations: []models.Organization{orgA}, ActiveOrganization: &orgA})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/state", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &snap))
	assert.Equal(t, orgA.ID, snap.ActiveOrganization.ID)
}

func TestOrganization_OrganizationsHandlerEmpty(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/organizations", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"organizations": []}`, response.Body.String())
}

func TestOrganization_RefreshOrganizationsHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("ListOrganizations", mock.Anything).Return(nil).Once()
	s.On("Snapshot").Return(store.Snapshot{Organizations: []models.Organization{orgA, orgB}})

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/organizations/refresh", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	var body models.OrganizationsResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Equal(t, []models.Organization{orgA, orgB}, body.Organizations)
}

func TestOrganization_RefreshOrganizationsHandlerBackendDown(t *testing.T) {
	a, s := newApp(t)
	apiErr := &apiclient.Error{StatusCode: 503, Message: "maintenance"}
	s.On("ListOrganizations", mock.Anything).Return(apiErr).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/organizations/refresh", nil))

	checkResponseCode(t, http.StatusBadGateway, response.Code)
	assert.Equal(t, errorBody("failed to refresh organizations", apiErr), response.Body.String())
}

func TestOrganization_CreateOrganizationHandler(t *testing.T) {
	a, s := newApp(t)
	in := models.OrganizationInput{Name: "Charlie", Description: "third", ContactEmail: "c@example.com"}
	s.On("CreateOrganization", mock.Anything, in).Return(models.Organization{ID: "org-c", Name: "Charlie"}, nil).Once()

	body := `{"name":"Charlie","description":"third","contactEmail":"c@example.com"}`
	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/organizations", strings.NewReader(body)))

	checkResponseCode(t, http.StatusCreated, response.Code)
	assert.JSONEq(t, `{"organization":{"_id":"org-c","name":"Charlie","description":"","contactEmail":""}}`, response.Body.String())
}

func TestOrganization_CreateOrganizationHandlerInvalid(t *testing.T) {
	a, s := newApp(t)
	verr := validator.New().Struct(models.OrganizationInput{})
	require.Error(t, verr)
	s.On("CreateOrganization", mock.Anything, models.OrganizationInput{}).Return(models.Organization{}, verr).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/organizations", strings.NewReader(`{}`)))

	checkResponseCode(t, http.StatusBadRequest, response.Code)
}

func TestOrganization_CreateOrganizationHandlerBadJSON(t *testing.T) {
	a, _ := newApp(t)

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/organizations", strings.NewReader(`{`)))

	checkResponseCode(t, http.StatusBadRequest, response.Code)
}

func TestOrganization_SetActiveOrganizationHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Organizations: []models.Organization{orgA, orgB}})
	s.On("SetActiveOrganization", mock.Anything, orgB).Return(nil).Once()

	response := executeRequest(a, httptest.NewRequest("PUT", "/api/v1/organizations/active", strings.NewReader(`{"organizationId":"org-b"}`)))

	checkResponseCode(t, http.StatusOK, response.Code)
	var body models.OrganizationResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Equal(t, orgB, body.Organization)
}

func TestOrganization_SetActiveOrganizationHandlerUnknown(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Organizations: []models.Organization{orgA}})

	response := executeRequest(a, httptest.NewRequest("PUT", "/api/v1/organizations/active", strings.NewReader(`{"organizationId":"org-z"}`)))

	checkResponseCode(t, http.StatusNotFound, response.Code)
	assert.Equal(t, errorBody("failed to get organization by ID", errors.New("organization not found")), response.Body.String())
	s.AssertNotCalled(t, "SetActiveOrganization", mock.Anything, mock.Anything)
}

func TestOrganization_ActiveOrganizationHandlerNone(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/organizations/active", nil))

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestDrone_DronesHandlerFilters(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Drones: []models.Drone{
		{ID: "1", SerialNumber: "DJI-1", Model: "Mavic", Status: models.DroneAvailable},
		{ID: "2", SerialNumber: "DJI-2", Model: "Mavic", Status: models.DroneMaintenance},
		{ID: "3", SerialNumber: "SKY-3", Model: "X10", Status: models.DroneAvailable},
	}})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3"}},
		{"?search=dji", []string{"1", "2"}},
		{"?search=dji&available=true", []string{"1"}},
		{"?available=true", []string{"1", "3"}},
	}
	for _, tt := range tests {
		response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/drones"+tt.query, nil))
		checkResponseCode(t, http.StatusOK, response.Code)

		var body models.DronesResponse
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		got := []string{}
		for _, d := range body.Drones {
			got = append(got, d.ID)
		}
		assert.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestDrone_CreateDroneHandlerAppliesDefaults(t *testing.T) {
	a, s := newApp(t)
	s.On("CreateDrone", mock.Anything, mock.MatchedBy(func(in models.DroneInput) bool {
		return in.SerialNumber == "SN-1" && in.Status == models.DroneAvailable && in.BatteryLevel == 100 && in.CurrentLocation.IsPoint()
	})).Return(models.Drone{ID: "d1", SerialNumber: "SN-1"}, nil).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/drones", strings.NewReader(`{"serialNumber":"SN-1","model":"Mavic 3"}`)))

	checkResponseCode(t, http.StatusCreated, response.Code)
	var body models.DroneResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Equal(t, "d1", body.Drone.ID)
}

func TestDrone_CreateDroneHandlerNoActiveOrganization(t *testing.T) {
	a, s := newApp(t)
	s.On("CreateDrone", mock.Anything, mock.Anything).Return(models.Drone{}, store.ErrNoActiveOrganization).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/drones", strings.NewReader(`{"serialNumber":"SN-1","model":"Mavic 3"}`)))

	checkResponseCode(t, http.StatusConflict, response.Code)
	assert.Equal(t, errorBody("failed to create drone", store.ErrNoActiveOrganization), response.Body.String())
}

func TestDrone_DeleteDroneHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("DeleteDrone", mock.Anything, "d1").Return(nil).Once()

	response := executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/drones/d1", nil))

	checkResponseCode(t, http.StatusNoContent, response.Code)
}

func TestDrone_DeleteDroneHandlerNotFound(t *testing.T) {
	a, s := newApp(t)
	s.On("DeleteDrone", mock.Anything, "missing").Return(&apiclient.Error{StatusCode: 404, Message: "Drone not found"}).Once()

	response := executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/drones/missing", nil))

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestDrone_RefreshDronesHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("FetchDrones", mock.Anything).Return(store.ErrNoActiveOrganization).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/drones/refresh", nil))

	checkResponseCode(t, http.StatusConflict, response.Code)
}

func TestMission_MissionsHandlerSearch(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Missions: []models.Mission{
		{ID: "1", Name: "North field"},
		{ID: "2", Name: "Bridge", Description: "structural"},
	}})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/missions?search=STRUCT", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	var body models.MissionsResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	require.Len(t, body.Missions, 1)
	assert.Equal(t, "2", body.Missions[0].ID)
}

func TestMission_CreateMissionHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("CreateMission", mock.Anything, mock.MatchedBy(func(f models.MissionForm) bool {
		return f.Name == "Survey" && f.Type == models.MissionOneTime && len(f.ScheduledDrones) == 1
	})).Return(models.Mission{ID: "m1", Name: "Survey", Status: models.MissionScheduled}, nil).Once()

	body := `{"name":"Survey","type":"one-time","scheduledTime":"2026-03-01T09:00:00Z","location":{"type":"Point","coordinates":[1,2]},"scheduledDrones":["d1"]}`
	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/missions", strings.NewReader(body)))

	checkResponseCode(t, http.StatusCreated, response.Code)
	var resp models.MissionResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &resp))
	assert.Equal(t, "m1", resp.Mission.ID)
}

func TestMission_CreateMissionHandlerUnavailableDrone(t *testing.T) {
	a, s := newApp(t)
	err := fmt.Errorf("%w: d2", store.ErrDroneUnavailable)
	s.On("CreateMission", mock.Anything, mock.Anything).Return(models.Mission{}, err).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/missions", strings.NewReader(`{"name":"Survey","scheduledDrones":["d2"]}`)))

	checkResponseCode(t, http.StatusUnprocessableEntity, response.Code)
	assert.Equal(t, errorBody("failed to create mission", err), response.Body.String())
}

func TestStatistics_StatisticsHandler(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{Statistics: &models.Statistics{TotalDrones: 2, ActiveMissions: 1}})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/statistics", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"totalDrones":2,"activeMissions":1,"completedMissions":0,"scheduledMissions":0}`, response.Body.String())
}

func TestStatistics_StatisticsHandlerNotLoaded(t *testing.T) {
	a, s := newApp(t)
	s.On("Snapshot").Return(store.Snapshot{})

	response := executeRequest(a, httptest.NewRequest("GET", "/api/v1/statistics", nil))

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestStatistics_RefreshStatisticsHandlerStopped(t *testing.T) {
	a, s := newApp(t)
	s.On("FetchStatistics", mock.Anything).Return(store.ErrStopped).Once()

	response := executeRequest(a, httptest.NewRequest("POST", "/api/v1/statistics/refresh", nil))

	checkResponseCode(t, http.StatusServiceUnavailable, response.Code)
}
