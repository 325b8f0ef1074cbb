package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// MissionType distinguishes one-off from repeating missions
type MissionType string

// Mission types accepted by the API
const (
	MissionOneTime   MissionType = "one-time"
	MissionRecurring MissionType = "recurring"
)

// MissionStatus is the lifecycle state of a mission
type MissionStatus string

// Mission statuses, in lifecycle order
const (
	MissionScheduled  MissionStatus = "scheduled"
	MissionInProgress MissionStatus = "in-progress"
	MissionCompleted  MissionStatus = "completed"
	MissionAborted    MissionStatus = "aborted"
)

// Terminal reports whether no further transition is possible
func (s MissionStatus) Terminal() bool {
	return s == MissionCompleted || s == MissionAborted
}

// CanAdvanceTo reports whether next is reachable from s. Status only moves
// forward along scheduled -> in-progress -> completed|aborted. A repeated
// in-progress report is accepted.
func (s MissionStatus) CanAdvanceTo(next MissionStatus) bool {
	switch s {
	case MissionScheduled:
		return next == MissionInProgress || next.Terminal()
	case MissionInProgress:
		return next == MissionInProgress || next.Terminal()
	default:
		return false
	}
}

// Frequency is the repeat interval of a recurring mission
type Frequency string

// Supported frequencies
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// RecurrenceRule is only present on recurring missions
type RecurrenceRule struct {
	Frequency Frequency `json:"frequency" validate:"required,oneof=daily weekly monthly"`
}

// DroneRef is a weak reference to a drone. The API returns either the bare
// id or the populated drone document.
type DroneRef string

// UnmarshalJSON accepts "id" or {"_id": "id", ...}
func (r *DroneRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var d struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*r = DroneRef(d.ID)
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = DroneRef(id)
	return nil
}

// Mission holds the structure for a mission returned by the API
type Mission struct {
	ID              string          `json:"_id"`
	OrganizationID  string          `json:"organizationId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Type            MissionType     `json:"type"`
	Status          MissionStatus   `json:"status"`
	Location        Location        `json:"location"`
	ScheduledTime   time.Time       `json:"scheduledTime"`
	RecurrenceRule  *RecurrenceRule `json:"recurrenceRule,omitempty"`
	ScheduledDrones []DroneRef      `json:"scheduledDrones"`
}

// MissionInput is the request body of POST /missions. A nil RecurrenceRule
// is omitted from the payload entirely.
type MissionInput struct {
	OrganizationID  string          `json:"organizationId" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	Type            MissionType     `json:"type" validate:"required,oneof=one-time recurring"`
	Status          MissionStatus   `json:"status" validate:"required,eq=scheduled"`
	Location        Location        `json:"location"`
	ScheduledTime   time.Time       `json:"scheduledTime" validate:"required"`
	RecurrenceRule  *RecurrenceRule `json:"recurrenceRule,omitempty" validate:"required_if=Type recurring,excluded_if=Type one-time"`
	ScheduledDrones []string        `json:"scheduledDrones"`
}

// MissionForm is the state of the planning form. It may still hold a
// frequency picked before the type was switched back to one-time.
type MissionForm struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Type            MissionType   `json:"type"`
	Status          MissionStatus `json:"status"`
	Location        Location      `json:"location"`
	Area            *Location     `json:"area,omitempty"`
	ScheduledTime   time.Time     `json:"scheduledTime"`
	Frequency       Frequency     `json:"frequency,omitempty"`
	ScheduledDrones []string      `json:"scheduledDrones"`
}

// Input converts the form into the request body for organizationID.
// One-time missions never carry a recurrence rule, whatever frequency the
// form still holds. A drawn area is sent as its center point when no
// explicit location was set.
func (f MissionForm) Input(organizationID string) MissionInput {
	in := MissionInput{
		OrganizationID:  organizationID,
		Name:            f.Name,
		Description:     f.Description,
		Type:            f.Type,
		Status:          f.Status,
		Location:        f.Location,
		ScheduledTime:   f.ScheduledTime,
		ScheduledDrones: append([]string{}, f.ScheduledDrones...),
	}
	if in.Type == "" {
		in.Type = MissionOneTime
	}
	if in.Status == "" {
		in.Status = MissionScheduled
	}
	if in.Location.IsEmpty() && f.Area != nil {
		if c, ok := f.Area.Center(); ok {
			in.Location = c
		}
	}
	if in.Type == MissionRecurring {
		in.RecurrenceRule = &RecurrenceRule{Frequency: f.Frequency}
	}
	return in
}

// MissionsResponse wraps GET /missions
type MissionsResponse struct {
	Missions []Mission `json:"missions"`
}

// MissionResponse wraps POST /missions
type MissionResponse struct {
	Mission Mission `json:"mission"`
}
