package store

import (
	"github.com/linesmerrill/drone-survey-sync/models"
)

// OpStatus is the progress of a single store operation
type OpStatus int

// Operation statuses
const (
	Idle OpStatus = iota
	Pending
	Succeeded
	Failed
)

var opStatusNames = [...]string{"idle", "pending", "succeeded", "failed"}

func (s OpStatus) String() string {
	if s < 0 || int(s) >= len(opStatusNames) {
		return "unknown"
	}
	return opStatusNames[s]
}

// MarshalText renders the status name in JSON snapshots
func (s OpStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Collection names a cached collection
type Collection string

// Cached collections
const (
	Organizations Collection = "organizations"
	Drones        Collection = "drones"
	Missions      Collection = "missions"
	Statistics    Collection = "statistics"
)

// scope tags a request with the organization it was issued for. A response
// is applied only while its scope is still current.
type scope struct {
	organizationID string
	generation     uint64
}

// state is owned by the Run goroutine
type state struct {
	organizations []models.Organization
	active        *models.Organization
	generation    uint64
	drones        []models.Drone
	missions      []models.Mission
	statistics    *models.Statistics

	fetches map[Collection]OpStatus
	creates map[Collection]OpStatus
	deletes map[string]OpStatus
}

func newState() *state {
	return &state{
		fetches: make(map[Collection]OpStatus),
		creates: make(map[Collection]OpStatus),
		deletes: make(map[string]OpStatus),
	}
}

func (st *state) scope() (scope, bool) {
	if st.active == nil {
		return scope{}, false
	}
	return scope{organizationID: st.active.ID, generation: st.generation}, true
}

func (st *state) current(sc scope) bool {
	return st.active != nil && st.active.ID == sc.organizationID && st.generation == sc.generation
}

func (st *state) activeID() string {
	if st.active == nil {
		return ""
	}
	return st.active.ID
}

func (st *state) droneIndex(id string) int {
	for i := range st.drones {
		if st.drones[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) missionIndex(id string) int {
	for i := range st.missions {
		if st.missions[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot is an immutable copy of the store state handed to readers
type Snapshot struct {
	Organizations      []models.Organization  `json:"organizations"`
	ActiveOrganization *models.Organization   `json:"activeOrganization"`
	Drones             []models.Drone         `json:"drones"`
	Missions           []models.Mission       `json:"missions"`
	Statistics         *models.Statistics     `json:"statistics"`
	Fetches            map[Collection]OpStatus `json:"fetches"`
	Creates            map[Collection]OpStatus `json:"creates"`
	Deletes            map[string]OpStatus     `json:"deletes"`
}

// FetchStatus returns the status of the last fetch of c
func (s Snapshot) FetchStatus(c Collection) OpStatus {
	return s.Fetches[c]
}

// DeleteStatus returns the status of the last delete of drone id
func (s Snapshot) DeleteStatus(id string) OpStatus {
	return s.Deletes[id]
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Organizations: append([]models.Organization{}, st.organizations...),
		Drones:        append([]models.Drone{}, st.drones...),
		Missions:      make([]models.Mission, len(st.missions)),
		Fetches:       make(map[Collection]OpStatus, len(st.fetches)),
		Creates:       make(map[Collection]OpStatus, len(st.creates)),
		Deletes:       make(map[string]OpStatus, len(st.deletes)),
	}
	for i, m := range st.missions {
		if m.ScheduledDrones != nil {
			m.ScheduledDrones = append([]models.DroneRef{}, m.ScheduledDrones...)
		}
		if m.RecurrenceRule != nil {
			rule := *m.RecurrenceRule
			m.RecurrenceRule = &rule
		}
		snap.Missions[i] = m
	}
	if st.active != nil {
		org := *st.active
		snap.ActiveOrganization = &org
	}
	if st.statistics != nil {
		stats := *st.statistics
		snap.Statistics = &stats
	}
	for k, v := range st.fetches {
		snap.Fetches[k] = v
	}
	for k, v := range st.creates {
		snap.Creates[k] = v
	}
	for k, v := range st.deletes {
		snap.Deletes[k] = v
	}
	return snap
}
