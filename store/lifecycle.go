package store

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/events"
	"github.com/linesmerrill/drone-survey-sync/models"
)

// Subscriber registers push event handlers. *events.Channel implements it.
type Subscriber interface {
	Subscribe(event string, h events.Handler) func()
}

// Reasons a lifecycle event is dropped
const (
	dropUnknownKind       = "unknown_kind"
	dropUnknownMission    = "unknown_mission"
	dropInvalidTransition = "invalid_transition"
	dropMalformed         = "malformed"
)

// BindEvents subscribes the store to the mission lifecycle events of sub.
// Calling the returned func removes the subscriptions.
func (s *Store) BindEvents(sub Subscriber) (unbind func()) {
	unsubs := make([]func(), 0, len(models.LifecycleEvents))
	for name, kind := range models.LifecycleEvents {
		name, kind := name, kind
		unsubs = append(unsubs, sub.Subscribe(name, func(payload json.RawMessage) {
			var body struct {
				MissionID string `json:"missionId"`
			}
			if err := json.Unmarshal(payload, &body); err != nil || body.MissionID == "" {
				s.metrics.EventsDropped.WithLabelValues(dropMalformed).Inc()
				zap.S().Warnw("malformed lifecycle event", "event", name, "payload", string(payload))
				return
			}
			s.IngestLifecycleEvent(models.LifecycleEvent{Kind: kind, MissionID: body.MissionID})
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// IngestLifecycleEvent applies a mission status transition reported by the
// push channel. It returns once the event has been applied or dropped, so
// events from one goroutine are applied in the order received.
//
// An in-progress event increments activeMissions every time it is applied,
// including repeats for the same mission. A completed event increments
// completedMissions and decrements scheduledMissions, floored at zero; when
// the cached mission was in progress activeMissions is decremented too. An
// aborted event changes only the mission status.
func (s *Store) IngestLifecycleEvent(ev models.LifecycleEvent) {
	ctx := s.runContext()
	if err := s.do(ctx, func(st *state) { s.applyLifecycle(st, ev) }); err != nil {
		zap.S().Debugw("lifecycle event not applied", "missionId", ev.MissionID, "error", err)
	}
}

// applyLifecycle runs on the store goroutine
func (s *Store) applyLifecycle(st *state, ev models.LifecycleEvent) {
	next, ok := ev.TargetStatus()
	if !ok {
		s.drop(ev, dropUnknownKind)
		return
	}
	i := st.missionIndex(ev.MissionID)
	if i < 0 {
		s.drop(ev, dropUnknownMission)
		return
	}

	prev := st.missions[i].Status
	if prev == "" {
		prev = models.MissionScheduled
	}
	if !prev.CanAdvanceTo(next) {
		s.drop(ev, dropInvalidTransition)
		return
	}

	st.missions[i].Status = next

	switch ev.Kind {
	case models.LifecycleInProgress:
		stats := st.ensureStatistics()
		stats.ActiveMissions++
	case models.LifecycleCompleted:
		stats := st.ensureStatistics()
		stats.CompletedMissions++
		stats.ScheduledMissions = decrement(stats.ScheduledMissions)
		if prev == models.MissionInProgress {
			stats.ActiveMissions = decrement(stats.ActiveMissions)
		}
	}

	s.metrics.EventsApplied.WithLabelValues(string(ev.Kind)).Inc()
	zap.S().Debugw("lifecycle event applied", "missionId", ev.MissionID, "from", prev, "to", next)
}

func (s *Store) drop(ev models.LifecycleEvent, reason string) {
	s.metrics.EventsDropped.WithLabelValues(reason).Inc()
	zap.S().Debugw("lifecycle event dropped", "missionId", ev.MissionID, "kind", ev.Kind, "reason", reason)
}

func (st *state) ensureStatistics() *models.Statistics {
	if st.statistics == nil {
		st.statistics = &models.Statistics{}
	}
	return st.statistics
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
