// Package dispatch turns user intents into catalog requests and state
// transitions.
//
// Every load takes a token from a monotonic counter before it touches the
// store. When a fetch completes, its result is committed only if its token
// is still the latest one issued; older completions are dropped, whatever
// order they arrive in. Intents are meant to be called from one goroutine
// (the UI loop); fetches run on their own goroutines.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/state"
)

// Direction selects the neighbouring page for ChangePage
type Direction int

const (
	// Next moves one page forward
	Next Direction = iota
	// Prev moves one page back
	Prev
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

// request identifies what a load asked for
type request struct {
	mode  catalog.Mode
	param string
	page  int
}

// Dispatcher maps intents onto store transitions
type Dispatcher struct {
	store   *state.Store
	fetcher catalog.Fetcher
	logger  zerolog.Logger
	now     func() time.Time

	token atomic.Uint64
	wg    sync.WaitGroup

	mu      sync.Mutex
	last    request
	settled bool
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClock overrides the time source used to stamp errors
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New creates a dispatcher committing into store and fetching through fetcher
func New(store *state.Store, fetcher catalog.Fetcher, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		settled: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start loads the first page of the store's current category
func (d *Dispatcher) Start(ctx context.Context) uint64 {
	s := d.store.State()
	tok := d.nextToken()
	d.load(ctx, tok, request{mode: catalog.ModeCategory, param: s.Category.String(), page: 1})
	return tok
}

// ChangeCategory switches to category and loads its first page. It is a
// no-op when category is already shown and no search is active.
func (d *Dispatcher) ChangeCategory(ctx context.Context, category catalog.Category) (uint64, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, category)
	}

	s := d.store.State()
	if s.Category == category && s.SearchQuery == "" && d.token.Load() > 0 {
		d.logger.Debug().Str("category", category.String()).Msg("Category already active")
		return 0, nil
	}

	// The token is taken before the transition so that any completion still
	// in flight is already stale when the category flips.
	tok := d.nextToken()
	if err := d.store.Apply(state.CategoryChanged{Category: category}); err != nil {
		return 0, err
	}

	d.load(ctx, tok, request{mode: catalog.ModeCategory, param: category.String(), page: 1})
	return tok, nil
}

// ChangePage loads the neighbouring page in direction dir, clamped to
// [1, TotalPages]. It is a no-op when the clamped page is the current one
// or when the same page is already being fetched.
func (d *Dispatcher) ChangePage(ctx context.Context, dir Direction) (uint64, error) {
	var delta int
	switch dir {
	case Next:
		delta = 1
	case Prev:
		delta = -1
	default:
		return 0, fmt.Errorf("unknown page direction: %d", dir)
	}

	s := d.store.State()
	if s.TotalPages == 0 {
		return 0, nil
	}

	candidate := min(max(s.Page+delta, 1), s.TotalPages)
	if candidate == s.Page {
		return 0, nil
	}

	mode, param := s.Query()
	req := request{mode: mode, param: param, page: candidate}
	if d.pending(req) {
		return 0, nil
	}

	tok := d.nextToken()
	d.load(ctx, tok, req)
	return tok, nil
}

// SetSearchQuery echoes query into the store and loads its first page of
// results. A blank query returns to the active category.
func (d *Dispatcher) SetSearchQuery(ctx context.Context, query string) uint64 {
	s := d.store.State()
	if query == s.SearchQuery && d.token.Load() > 0 {
		return 0
	}

	tok := d.nextToken()
	if err := d.store.Apply(state.SearchQueryChanged{Query: query}); err != nil {
		// SearchQueryChanged has no failure mode; keep going with the load.
		d.logger.Error().Err(err).Msg("Failed to apply search query")
	}

	req := request{mode: catalog.ModeCategory, param: s.Category.String(), page: 1}
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		req = request{mode: catalog.ModeSearch, param: trimmed, page: 1}
	}

	d.load(ctx, tok, req)
	return tok
}

// Reload fetches the current view again. Callers use it to retry after a
// failure; the dispatcher never retries on its own.
func (d *Dispatcher) Reload(ctx context.Context) uint64 {
	s := d.store.State()
	mode, param := s.Query()

	tok := d.nextToken()
	d.load(ctx, tok, request{mode: mode, param: param, page: s.Page})
	return tok
}

// Token returns the most recently issued request token
func (d *Dispatcher) Token() uint64 {
	return d.token.Load()
}

// Wait blocks until every issued load has completed or been discarded
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) nextToken() uint64 {
	return d.token.Add(1)
}

// pending reports whether req is the latest request and has not settled yet
func (d *Dispatcher) pending(req request) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return !d.settled && d.last == req
}

func (d *Dispatcher) load(ctx context.Context, tok uint64, req request) {
	d.mu.Lock()
	d.last = req
	d.settled = false
	d.mu.Unlock()

	d.logger.Debug().
		Uint64("token", tok).
		Str("mode", req.mode.String()).
		Str("param", req.param).
		Int("page", req.page).
		Msg("Loading movie list")

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		result, err := d.fetcher.FetchList(ctx, req.mode, req.param, req.page)
		d.commit(tok, req, result, err)
	}()
}

// commit applies the outcome of load tok if tok is still the latest token
func (d *Dispatcher) commit(tok uint64, req request, result *catalog.ListResult, fetchErr error) {
	var t state.Transition
	if fetchErr != nil {
		t = state.ErrorOccurred{Error: state.ErrorInfo{
			Message:    UserMessage(fetchErr),
			OccurredAt: d.now(),
		}}
	} else {
		t = state.ListLoaded{
			List:       result.Results,
			Page:       req.page,
			TotalPages: result.TotalPages,
			Mode:       req.mode,
			Param:      req.param,
		}
	}

	applied, err := d.store.ApplyIf(t, func() bool {
		return d.token.Load() == tok
	})

	d.mu.Lock()
	if d.token.Load() == tok {
		d.settled = true
	}
	d.mu.Unlock()

	switch {
	case err != nil:
		d.logger.Error().Err(err).Uint64("token", tok).Msg("Failed to commit movie list")
	case !applied:
		d.logger.Debug().
			Uint64("token", tok).
			Uint64("latest", d.token.Load()).
			Msg("Discarded stale response")
	case fetchErr != nil:
		d.logger.Warn().
			Err(fetchErr).
			Uint64("token", tok).
			Str("mode", req.mode.String()).
			Str("param", req.param).
			Int("page", req.page).
			Msg("Failed to load movie list")
	default:
		d.logger.Debug().
			Uint64("token", tok).
			Int("count", len(result.Results)).
			Msg("Committed movie list")
	}
}
