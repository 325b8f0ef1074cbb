package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/drone-survey-sync/apiclient"
	"github.com/linesmerrill/drone-survey-sync/models"
)

func newServer(t *testing.T, register func(r *mux.Router)) *apiclient.Client {
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL + "/api")
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ListOrganizations(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/organizations", func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get(apiclient.RequestIDHeader))
			writeJSON(w, http.StatusOK, `{"organizations":[{"_id":"o1","name":"Acme","description":"d","contactEmail":"a@acme.io"},{"_id":"o2","name":"Beta"}]}`)
		}).Methods("GET")
	})

	orgs, err := c.ListOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "o1", orgs[0].ID)
	assert.Equal(t, "a@acme.io", orgs[0].ContactEmail)
	assert.Equal(t, "Beta", orgs[1].Name)
}

func TestClient_ListDronesScopesByOrganization(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/drones", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "org 1", r.URL.Query().Get("organizationId"))
			writeJSON(w, http.StatusOK, `{"drones":[{"_id":"d1","organizationId":"org 1","serialNumber":"SN1","model":"M300","status":"available","batteryLevel":87,"currentLocation":{"type":"Point","coordinates":[73.7,18.5]}}]}`)
		}).Methods("GET")
	})

	drones, err := c.ListDrones(context.Background(), "org 1")
	require.NoError(t, err)
	require.Len(t, drones, 1)
	assert.Equal(t, models.DroneAvailable, drones[0].Status)
	assert.Equal(t, 87, drones[0].BatteryLevel)
	assert.True(t, drones[0].CurrentLocation.IsPoint())
	assert.Nil(t, drones[0].LastMaintenance)
}

func TestClient_Statistics(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/organizations/statistics/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "o1", mux.Vars(r)["id"])
			writeJSON(w, http.StatusOK, `{"totalDrones":4,"activeMissions":1,"completedMissions":7,"scheduledMissions":2}`)
		}).Methods("GET")
	})

	stats, err := c.Statistics(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{TotalDrones: 4, ActiveMissions: 1, CompletedMissions: 7, ScheduledMissions: 2}, stats)
}

func TestClient_CreateDroneSendsBody(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/drones", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "o1", body["organizationId"])
			assert.Equal(t, "SN-9", body["serialNumber"])
			assert.Equal(t, "available", body["status"])
			assert.EqualValues(t, 100, body["batteryLevel"])
			_, hasMaintenance := body["lastMaintenance"]
			assert.False(t, hasMaintenance)
			writeJSON(w, http.StatusCreated, `{"drone":{"_id":"d9","organizationId":"o1","serialNumber":"SN-9","model":"Mavic","status":"available","batteryLevel":100}}`)
		}).Methods("POST")
	})

	in := models.NewDroneInput("SN-9", "Mavic")
	in.OrganizationID = "o1"
	d, err := c.CreateDrone(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "d9", d.ID)
}

func TestClient_DeleteDrone(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/drones/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"drone":{"_id":"`+mux.Vars(r)["id"]+`"}}`)
		}).Methods("DELETE")
	})

	d, err := c.DeleteDrone(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", d.ID)
}

func TestClient_CreateMissionOmitsRecurrenceForOneTime(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/missions", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, has := body["recurrenceRule"]
			assert.False(t, has)
			writeJSON(w, http.StatusCreated, `{"_id":"m1","name":"Survey","type":"one-time","status":"scheduled","scheduledDrones":[{"_id":"d1","model":"M300"}]}`)
		}).Methods("POST")
	})

	form := models.MissionForm{
		Name:            "Survey",
		Type:            models.MissionOneTime,
		Frequency:       models.FrequencyWeekly,
		ScheduledTime:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		ScheduledDrones: []string{"d1"},
	}
	m, err := c.CreateMission(context.Background(), form.Input("o1"))
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, []models.DroneRef{"d1"}, m.ScheduledDrones)
}

func TestClient_CreateMissionWrappedResponse(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/missions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, `{"message":"created","mission":{"_id":"m2","status":"scheduled","scheduledDrones":["d1","d2"]}}`)
		}).Methods("POST")
	})

	m, err := c.CreateMission(context.Background(), models.MissionInput{})
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)
	assert.Len(t, m.ScheduledDrones, 2)
}

func TestClient_ValidationError(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/missions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"errors":[{"type":"field","msg":"Mission name is required","path":"name","location":"body"},{"msg":"second"}]}`)
		}).Methods("POST")
	})

	_, err := c.CreateMission(context.Background(), models.MissionInput{})
	require.Error(t, err)

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.True(t, apiErr.Validation())
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Equal(t, "Mission name is required", apiclient.UserMessage(err))
}

func TestClient_GenericError(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/organizations", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message":"database unavailable"}`)
		}).Methods("GET")
	})

	_, err := c.ListOrganizations(context.Background())
	assert.Equal(t, "database unavailable", apiclient.UserMessage(err))
	assert.EqualError(t, err, "api error 500: database unavailable")
}

func TestClient_ErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newServer(t, func(r *mux.Router) {})

	_, err := c.ListOrganizations(context.Background())
	assert.Equal(t, "Not Found", apiclient.UserMessage(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := apiclient.New(srv.URL, apiclient.WithTimeout(time.Second))

	_, err := c.ListDrones(context.Background(), "o1")
	require.Error(t, err)

	var apiErr *apiclient.Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, err.Error(), apiclient.UserMessage(err))
	assert.Contains(t, err.Error(), "GET /drones")
}

func TestUserMessage_Nil(t *testing.T) {
	assert.Equal(t, "", apiclient.UserMessage(nil))
}
