package models

// Push channel event names
const (
	EventMissionInProgress = "mission:in-progress"
	EventMissionCompleted  = "mission:completed"
	EventMissionError      = "mission:error"
)

// LifecycleKind is the transition a lifecycle event reports
type LifecycleKind string

// Lifecycle kinds
const (
	LifecycleInProgress LifecycleKind = "in-progress"
	LifecycleCompleted  LifecycleKind = "completed"
	LifecycleAborted    LifecycleKind = "aborted"
)

// LifecycleEvents maps push event names to the transition they report
var LifecycleEvents = map[string]LifecycleKind{
	EventMissionInProgress: LifecycleInProgress,
	EventMissionCompleted:  LifecycleCompleted,
	EventMissionError:      LifecycleAborted,
}

// LifecycleEvent reports a mission status transition observed by the server
type LifecycleEvent struct {
	Kind      LifecycleKind `json:"kind"`
	MissionID string        `json:"missionId"`
}

// TargetStatus returns the status the event moves a mission to
func (e LifecycleEvent) TargetStatus() (MissionStatus, bool) {
	switch e.Kind {
	case LifecycleInProgress:
		return MissionInProgress, true
	case LifecycleCompleted:
		return MissionCompleted, true
	case LifecycleAborted:
		return MissionAborted, true
	}
	return "", false
}
