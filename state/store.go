package state

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinescope/catalog"
)

// Listener receives a snapshot after every committed transition
type Listener func(AppState)

type subscriber struct {
	id uint64
	fn Listener
}

// Store owns the browsing state. Apply and ApplyIf are the only ways to
// change it; readers get snapshots.
//
// Listeners run synchronously on the goroutine that committed the
// transition, in commit order. A transition applied from inside a listener
// is reduced immediately, but its notification is queued until the running
// listener returns, so listeners never run reentrantly.
type Store struct {
	mu          sync.Mutex
	state       AppState
	subscribers []subscriber
	nextID      uint64

	pending  []AppState
	draining bool

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithInitialCategory sets the category active before the first fetch
func WithInitialCategory(category catalog.Category) Option {
	return func(s *Store) {
		if category.Valid() {
			s.state.Category = category
		}
	}
}

// WithLogger sets the logger used for transition tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source used to stamp errors
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store holding the initial state
func New(opts ...Option) *Store {
	s := &Store{
		state:  Initial(catalog.NowPlaying),
		now:    time.Now,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns a snapshot of the current state
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.clone()
}

// Subscribe registers a listener and returns a function that removes it.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

// Apply commits a transition and notifies listeners
func (s *Store) Apply(t Transition) error {
	_, err := s.ApplyIf(t, nil)
	return err
}

// ApplyIf commits t only if guard reports true. The guard runs inside the
// store's critical section, so no other transition can land between the
// check and the commit. A nil guard always commits.
func (s *Store) ApplyIf(t Transition, guard func() bool) (bool, error) {
	s.mu.Lock()

	if guard != nil && !guard() {
		s.mu.Unlock()
		return false, nil
	}

	next, err := reduce(s.state, t, s.now)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	next.Version = s.state.Version + 1
	s.state = next
	s.pending = append(s.pending, next.clone())

	s.logger.Debug().
		Str("transition", t.Kind()).
		Uint64("version", next.Version).
		Str("category", next.Category.String()).
		Int("page", next.Page).
		Int("total_pages", next.TotalPages).
		Msg("Applied transition")

	if s.draining {
		// Delivered by the drain loop already running up the stack or on
		// another goroutine.
		s.mu.Unlock()
		return true, nil
	}

	s.draining = true
	defer func() {
		s.draining = false
		s.mu.Unlock()
	}()
	s.drain()

	return true, nil
}

// drain delivers queued snapshots in commit order. It is called with mu held
// and returns with mu held, releasing it while listeners run.
func (s *Store) drain() {
	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		subscribers := slices.Clone(s.subscribers)

		s.mu.Unlock()
		func() {
			defer s.mu.Lock()
			for _, sub := range subscribers {
				sub.fn(snapshot.clone())
			}
		}()
	}
}
