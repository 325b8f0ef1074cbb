package store

import (
	"strings"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// FilterDrones returns the drones whose serial number or model contains
// query, ignoring case. An empty query matches everything.
func FilterDrones(drones []models.Drone, query string) []models.Drone {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Drone, 0, len(drones))
	for _, d := range drones {
		if q == "" ||
			strings.Contains(strings.ToLower(d.SerialNumber), q) ||
			strings.Contains(strings.ToLower(d.Model), q) {
			out = append(out, d)
		}
	}
	return out
}

// FilterMissions returns the missions whose name or description contains
// query, ignoring case. An empty query matches everything.
func FilterMissions(missions []models.Mission, query string) []models.Mission {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Mission, 0, len(missions))
	for _, m := range missions {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Description), q) {
			out = append(out, m)
		}
	}
	return out
}

// AvailableDrones returns the drones that can be scheduled on a mission
func AvailableDrones(drones []models.Drone) []models.Drone {
	out := make([]models.Drone, 0, len(drones))
	for _, d := range drones {
		if d.Status == models.DroneAvailable {
			out = append(out, d)
		}
	}
	return out
}
