package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linesmerrill/drone-survey-sync/models"
	"github.com/linesmerrill/drone-survey-sync/store"
)

type MockStore struct {
	mock.Mock
}

// Snapshot provides a mock function.
func (_m *MockStore) Snapshot() store.Snapshot {
	ret := _m.Called()
	return ret.Get(0).(store.Snapshot)
}

// ListOrganizations provides a mock function.
func (_m *MockStore) ListOrganizations(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// CreateOrganization provides a mock function.
func (_m *MockStore) CreateOrganization(ctx context.Context, in models.OrganizationInput) (models.Organization, error) {
	ret := _m.Called(ctx, in)
	return ret.Get(0).(models.Organization), ret.Error(1)
}

// SetActiveOrganization provides a mock function.
func (_m *MockStore) SetActiveOrganization(ctx context.Context, org models.Organization) error {
	return _m.Called(ctx, org).Error(0)
}

// FetchDrones provides a mock function.
func (_m *MockStore) FetchDrones(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// CreateDrone provides a mock function.
func (_m *MockStore) CreateDrone(ctx context.Context, in models.DroneInput) (models.Drone, error) {
	ret := _m.Called(ctx, in)
	return ret.Get(0).(models.Drone), ret.Error(1)
}

// DeleteDrone provides a mock function.
func (_m *MockStore) DeleteDrone(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

// FetchMissions provides a mock function.
func (_m *MockStore) FetchMissions(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// CreateMission provides a mock function.
func (_m *MockStore) CreateMission(ctx context.Context, form models.MissionForm) (models.Mission, error) {
	ret := _m.Called(ctx, form)
	return ret.Get(0).(models.Mission), ret.Error(1)
}

// FetchStatistics provides a mock function.
func (_m *MockStore) FetchStatistics(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}
