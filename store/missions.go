package store

import (
	"context"
	"fmt"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// FetchMissions refetches missions for the active organization. On
// failure the cached missions are kept.
func (s *Store) FetchMissions(ctx context.Context) error {
	sc, err := s.currentScope(ctx)
	if err != nil {
		return err
	}
	if err := s.do(ctx, func(st *state) {
		if st.current(sc) {
			st.fetches[Missions] = Pending
		}
	}); err != nil {
		return err
	}
	return s.loadMissions(ctx, sc)
}

func (s *Store) loadMissions(ctx context.Context, sc scope) error {
	rctx, cancel := s.requestContext(ctx)
	missions, err := s.client.ListMissions(rctx, sc.organizationID)
	cancel()

	// the response is applied even when ctx ended during the request
	post := context.WithoutCancel(ctx)
	stale := false
	applyErr := s.do(post, func(st *state) {
		if !st.current(sc) {
			stale = true
			return
		}
		if err != nil {
			st.fetches[Missions] = Failed
			return
		}
		st.missions = missions
		st.fetches[Missions] = Succeeded
	})
	switch {
	case applyErr != nil:
		return applyErr
	case stale:
		s.discard(Missions, sc)
		return ErrScopeChanged
	case err != nil:
		s.fail("list_missions", err)
		return err
	}
	return nil
}

// CreateMission schedules a mission for the active organization. One-time
// missions are sent without a recurrence rule; recurring missions need a
// valid frequency. Every scheduled drone must be cached and available.
// The created mission is prepended to the cached missions so lifecycle
// events for it are not dropped.
func (s *Store) CreateMission(ctx context.Context, form models.MissionForm) (models.Mission, error) {
	var (
		sc        scope
		ok        bool
		unusable  string
		hasActive bool
	)
	err := s.do(ctx, func(st *state) {
		sc, ok = st.scope()
		hasActive = ok
		if !ok {
			return
		}
		for _, id := range form.ScheduledDrones {
			i := st.droneIndex(id)
			if i < 0 || st.drones[i].Status != models.DroneAvailable {
				unusable = id
				return
			}
		}
	})
	if err != nil {
		return models.Mission{}, err
	}
	if !hasActive {
		s.notifier.Error("Select an organization first.")
		return models.Mission{}, ErrNoActiveOrganization
	}
	if unusable != "" {
		err := fmt.Errorf("%w: %s", ErrDroneUnavailable, unusable)
		s.notifier.Error(err.Error())
		return models.Mission{}, err
	}

	in := form.Input(sc.organizationID)
	if err := s.validate.Struct(in); err != nil {
		s.notifier.Error(userMessage(err))
		return models.Mission{}, err
	}
	if err := s.do(ctx, func(st *state) { st.creates[Missions] = Pending }); err != nil {
		return models.Mission{}, err
	}

	rctx, cancel := s.requestContext(ctx)
	mission, err := s.client.CreateMission(rctx, in)
	cancel()
	post := context.WithoutCancel(ctx)
	if err != nil {
		s.fail("create_mission", err)
		_ = s.do(post, func(st *state) { st.creates[Missions] = Failed })
		return models.Mission{}, err
	}
	if mission.OrganizationID == "" {
		mission.OrganizationID = in.OrganizationID
	}

	err = s.do(post, func(st *state) {
		st.creates[Missions] = Succeeded
		if mission.ID == "" || st.activeID() != mission.OrganizationID {
			return
		}
		st.missions = prepend(st.missions, mission, func(m models.Mission) bool { return m.ID == mission.ID })
	})
	if err != nil {
		return mission, err
	}
	s.notifier.Success("Mission scheduled successfully.")
	return mission, nil
}
