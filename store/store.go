// Package store is the client-side entity store. It caches the
// organization-scoped collections, merges create/delete acknowledgements
// and lifecycle push events, and re-fetches scoped collections whenever
// the active organization changes.
//
// All mutations are messages applied by Run on a single goroutine in the
// order they were queued. REST calls happen outside that goroutine and
// post their results back as messages.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// Errors returned by store operations
var (
	ErrNoActiveOrganization = errors.New("no active organization")
	ErrScopeChanged         = errors.New("active organization changed while the request was in flight")
	ErrDroneUnavailable     = errors.New("drone is not available for scheduling")
	ErrStopped              = errors.New("store is not running")
)

// Client is the REST surface the store depends on
type Client interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	CreateOrganization(ctx context.Context, in models.OrganizationInput) (models.Organization, error)
	Statistics(ctx context.Context, organizationID string) (models.Statistics, error)
	ListDrones(ctx context.Context, organizationID string) ([]models.Drone, error)
	CreateDrone(ctx context.Context, in models.DroneInput) (models.Drone, error)
	DeleteDrone(ctx context.Context, id string) (models.Drone, error)
	ListMissions(ctx context.Context, organizationID string) ([]models.Mission, error)
	CreateMission(ctx context.Context, in models.MissionInput) (models.Mission, error)
}

type message struct {
	apply func(*state)
	done  chan struct{}
}

// Store is the single source of truth for cached entities. Create one per
// process with New and pass it to its consumers.
type Store struct {
	client         Client
	notifier       Notifier
	metrics        *Metrics
	validate       *validator.Validate
	requestTimeout time.Duration

	inbox   chan message
	started chan struct{}
	stopped chan struct{}
	runOnce sync.Once
	baseCtx context.Context

	mu      sync.RWMutex
	snap    Snapshot
	changes chan struct{}

	st *state
}

// Option configures a Store
type Option func(*Store)

// WithNotifier sets where transient notifications are sent
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithMetrics sets the collectors the store reports to
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithRequestTimeout bounds background fetches. Zero means no timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.requestTimeout = d
	}
}

// WithQueueSize sets the inbox capacity
func WithQueueSize(n int) Option {
	return func(s *Store) {
		s.inbox = make(chan message, n)
	}
}

// New creates a store backed by client. Call Run before using it.
func New(client Client, opts ...Option) *Store {
	s := &Store{
		client:   client,
		notifier: LogNotifier{},
		validate: validator.New(),
		inbox:    make(chan message, 64),
		started:  make(chan struct{}),
		stopped:  make(chan struct{}),
		baseCtx:  context.Background(),
		changes:  make(chan struct{}, 1),
		st:       newState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.snap = s.st.snapshot()
	return s
}

// Run applies queued mutations until ctx is done. It must be called once.
func (s *Store) Run(ctx context.Context) error {
	err := errors.New("store already running")
	s.runOnce.Do(func() {
		s.baseCtx = ctx
		close(s.started)
		defer close(s.stopped)

		zap.S().Debug("entity store started")
		for {
			select {
			case <-ctx.Done():
				zap.S().Debug("entity store stopped")
				err = ctx.Err()
				return
			case m := <-s.inbox:
				m.apply(s.st)
				s.publish()
				close(m.done)
			}
		}
	})
	return err
}

// Snapshot returns the latest published state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Changes is signalled after every applied mutation. Signals coalesce.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) publish() {
	snap := s.st.snapshot()
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// do queues fn and waits until Run has applied it
func (s *Store) do(ctx context.Context, fn func(*state)) error {
	m := message{apply: fn, done: make(chan struct{})}
	select {
	case s.inbox <- m:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// runContext is the context background work runs under
func (s *Store) runContext() context.Context {
	select {
	case <-s.started:
		return s.baseCtx
	default:
		return context.Background()
	}
}

func (s *Store) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(ctx, s.requestTimeout)
	}
	return context.WithCancel(ctx)
}

// currentScope reads the active organization scope
func (s *Store) currentScope(ctx context.Context) (scope, error) {
	var sc scope
	var ok bool
	if err := s.do(ctx, func(st *state) { sc, ok = st.scope() }); err != nil {
		return scope{}, err
	}
	if !ok {
		return scope{}, ErrNoActiveOrganization
	}
	return sc, nil
}

// fail reports a failed request through the notifier
func (s *Store) fail(operation string, err error) {
	s.metrics.RequestFailures.WithLabelValues(operation).Inc()
	zap.S().Errorw("request failed", "operation", operation, "error", err)
	s.notifier.Error(userMessage(err))
}
