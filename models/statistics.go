package models

// Statistics is the per-organization aggregate served by
// GET /organizations/statistics/{id}
type Statistics struct {
	TotalDrones       int `json:"totalDrones"`
	ActiveMissions    int `json:"activeMissions"`
	CompletedMissions int `json:"completedMissions"`
	ScheduledMissions int `json:"scheduledMissions"`
}
