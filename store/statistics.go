package store

import (
	"context"
)

// FetchStatistics replaces the statistics snapshot of the active
// organization. On failure the previous snapshot stays in place.
func (s *Store) FetchStatistics(ctx context.Context) error {
	sc, err := s.currentScope(ctx)
	if err != nil {
		return err
	}
	if err := s.do(ctx, func(st *state) {
		if st.current(sc) {
			st.fetches[Statistics] = Pending
		}
	}); err != nil {
		return err
	}
	return s.loadStatistics(ctx, sc)
}

func (s *Store) loadStatistics(ctx context.Context, sc scope) error {
	rctx, cancel := s.requestContext(ctx)
	stats, err := s.client.Statistics(rctx, sc.organizationID)
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
			st.fetches[Statistics] = Failed
			return
		}
		st.statistics = &stats
		st.fetches[Statistics] = Succeeded
	})
	switch {
	case applyErr != nil:
		return applyErr
	case stale:
		s.discard(Statistics, sc)
		return ErrScopeChanged
	case err != nil:
		s.fail("statistics", err)
		return err
	}
	return nil
}
