package store

import (
	"context"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// FetchDrones refetches drones for the active organization. On failure the
// cached drones are kept.
func (s *Store) FetchDrones(ctx context.Context) error {
	sc, err := s.currentScope(ctx)
	if err != nil {
		return err
	}
	if err := s.do(ctx, func(st *state) {
		if st.current(sc) {
			st.fetches[Drones] = Pending
		}
	}); err != nil {
		return err
	}
	return s.loadDrones(ctx, sc)
}

func (s *Store) loadDrones(ctx context.Context, sc scope) error {
	rctx, cancel := s.requestContext(ctx)
	drones, err := s.client.ListDrones(rctx, sc.organizationID)
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
			st.fetches[Drones] = Failed
			return
		}
		st.drones = drones
		st.fetches[Drones] = Succeeded
	})
	switch {
	case applyErr != nil:
		return applyErr
	case stale:
		s.discard(Drones, sc)
		return ErrScopeChanged
	case err != nil:
		s.fail("list_drones", err)
		return err
	}
	return nil
}

// CreateDrone registers a drone for the active organization and prepends
// the server record to the cached drones.
func (s *Store) CreateDrone(ctx context.Context, in models.DroneInput) (models.Drone, error) {
	sc, err := s.currentScope(ctx)
	if err != nil {
		s.notifier.Error("Select an organization first.")
		return models.Drone{}, err
	}
	if in.OrganizationID == "" {
		in.OrganizationID = sc.organizationID
	}
	if err := s.validate.Struct(in); err != nil {
		s.notifier.Error(userMessage(err))
		return models.Drone{}, err
	}
	if err := s.do(ctx, func(st *state) { st.creates[Drones] = Pending }); err != nil {
		return models.Drone{}, err
	}

	rctx, cancel := s.requestContext(ctx)
	drone, err := s.client.CreateDrone(rctx, in)
	cancel()
	post := context.WithoutCancel(ctx)
	if err != nil {
		s.fail("create_drone", err)
		_ = s.do(post, func(st *state) { st.creates[Drones] = Failed })
		return models.Drone{}, err
	}
	if drone.OrganizationID == "" {
		drone.OrganizationID = in.OrganizationID
	}

	err = s.do(post, func(st *state) {
		st.creates[Drones] = Succeeded
		if st.activeID() != drone.OrganizationID {
			return
		}
		st.drones = prepend(st.drones, drone, func(d models.Drone) bool { return d.ID == drone.ID })
	})
	if err != nil {
		return drone, err
	}
	s.notifier.Success("Drone added successfully.")
	return drone, nil
}

// DeleteDrone deletes a drone and removes it from the cached drones. A
// drone that is already gone locally is not an error.
func (s *Store) DeleteDrone(ctx context.Context, id string) error {
	if err := s.do(ctx, func(st *state) { st.deletes[id] = Pending }); err != nil {
		return err
	}

	rctx, cancel := s.requestContext(ctx)
	removed, err := s.client.DeleteDrone(rctx, id)
	cancel()
	post := context.WithoutCancel(ctx)
	if err != nil {
		s.fail("delete_drone", err)
		_ = s.do(post, func(st *state) { st.deletes[id] = Failed })
		return err
	}
	if removed.ID == "" {
		removed.ID = id
	}

	err = s.do(post, func(st *state) {
		st.deletes[id] = Succeeded
		if i := st.droneIndex(removed.ID); i >= 0 {
			st.drones = append(st.drones[:i:i], st.drones[i+1:]...)
		}
	})
	if err != nil {
		return err
	}
	s.notifier.Success("Drone removed successfully.")
	return nil
}
