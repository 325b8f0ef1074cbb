package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// ListOrganizations fetches organizations and replaces the cached list.
// When no organization is active the first one returned becomes active.
// On failure the cached list is kept.
func (s *Store) ListOrganizations(ctx context.Context) error {
	if err := s.do(ctx, func(st *state) { st.fetches[Organizations] = Pending }); err != nil {
		return err
	}

	rctx, cancel := s.requestContext(ctx)
	orgs, err := s.client.ListOrganizations(rctx)
	cancel()
	post := context.WithoutCancel(ctx)
	if err != nil {
		s.fail("list_organizations", err)
		_ = s.do(post, func(st *state) { st.fetches[Organizations] = Failed })
		return err
	}

	return s.do(post, func(st *state) {
		st.organizations = orgs
		st.fetches[Organizations] = Succeeded
		if st.active == nil && len(orgs) > 0 {
			s.activate(st, orgs[0])
		}
	})
}

// CreateOrganization creates an organization and prepends it to the cached
// list. It does not change the active organization.
func (s *Store) CreateOrganization(ctx context.Context, in models.OrganizationInput) (models.Organization, error) {
	if err := s.validate.Struct(in); err != nil {
		s.notifier.Error(userMessage(err))
		return models.Organization{}, err
	}
	if err := s.do(ctx, func(st *state) { st.creates[Organizations] = Pending }); err != nil {
		return models.Organization{}, err
	}

	rctx, cancel := s.requestContext(ctx)
	org, err := s.client.CreateOrganization(rctx, in)
	cancel()
	post := context.WithoutCancel(ctx)
	if err != nil {
		s.fail("create_organization", err)
		_ = s.do(post, func(st *state) { st.creates[Organizations] = Failed })
		return models.Organization{}, err
	}

	err = s.do(post, func(st *state) {
		st.organizations = prepend(st.organizations, org, func(o models.Organization) bool { return o.ID == org.ID })
		st.creates[Organizations] = Succeeded
	})
	if err != nil {
		return org, err
	}
	s.notifier.Success("Organization added successfully.")
	return org, nil
}

// SetActiveOrganization selects org as the scope for drones, missions and
// statistics. Selecting the already active organization does nothing.
// Otherwise the scoped collections are cleared and refetched; fetch
// failures are reported per collection.
func (s *Store) SetActiveOrganization(ctx context.Context, org models.Organization) error {
	return s.do(ctx, func(st *state) { s.activate(st, org) })
}

// activate runs on the store goroutine
func (s *Store) activate(st *state, org models.Organization) {
	if st.active != nil && st.active.ID == org.ID {
		o := org
		st.active = &o
		return
	}

	o := org
	st.active = &o
	st.generation++
	st.drones = nil
	st.missions = nil
	st.statistics = nil
	st.deletes = make(map[string]OpStatus)
	st.fetches[Drones] = Pending
	st.fetches[Missions] = Pending
	st.fetches[Statistics] = Pending

	sc := scope{organizationID: o.ID, generation: st.generation}
	s.metrics.Resyncs.Inc()
	zap.S().Infow("active organization changed", "organizationId", o.ID, "generation", sc.generation)

	ctx := s.runContext()
	go func() { _ = s.loadDrones(ctx, sc) }()
	go func() { _ = s.loadMissions(ctx, sc) }()
	go func() { _ = s.loadStatistics(ctx, sc) }()
}

// discard records a response that arrived for a scope that is no longer
// current
func (s *Store) discard(c Collection, sc scope) {
	s.metrics.StaleResponses.WithLabelValues(string(c)).Inc()
	zap.S().Debugw("discarding stale response",
		"collection", c,
		"organizationId", sc.organizationID,
		"generation", sc.generation,
	)
}

// prepend puts v first and drops any other element matching same
func prepend[T any](list []T, v T, same func(T) bool) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	for _, e := range list {
		if !same(e) {
			out = append(out, e)
		}
	}
	return out
}
