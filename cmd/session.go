package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/dispatch"
	"github.com/s0up4200/cinescope/filter"
	"github.com/s0up4200/cinescope/selector"
	"github.com/s0up4200/cinescope/state"
)

// errLoadFailed is returned by one-shot commands whose final state carries an error
var errLoadFailed = errors.New("failed to load movies")

// session couples a store with the dispatcher that feeds it
type session struct {
	store      *state.Store
	dispatcher *dispatch.Dispatcher
	filter     filter.Filter
	details    bool
}

func newSession(category catalog.Category) *session {
	store := state.New(
		state.WithInitialCategory(category),
		state.WithLogger(logger),
	)

	return &session{
		store:      store,
		dispatcher: dispatch.New(store, fetcher, logger),
	}
}

// defaultCategory returns the configured start category
func defaultCategory() catalog.Category {
	category, err := catalog.ParseCategory(cfg.UI.DefaultCategory)
	if err != nil {
		return catalog.NowPlaying
	}
	return category
}

// pageTo moves forward one page at a time until page is reached or the
// catalog runs out of pages.
func (s *session) pageTo(ctx context.Context, page int) error {
	for s.store.State().Page < page {
		tok, err := s.dispatcher.ChangePage(ctx, dispatch.Next)
		if err != nil {
			return err
		}
		s.dispatcher.Wait()
		if tok == 0 || s.store.State().Error != nil {
			break
		}
	}
	return nil
}

// render writes the current snapshot to w
func (s *session) render(ctx context.Context, w io.Writer, snapshot state.AppState) error {
	movies, err := selector.Filter(ctx, snapshot, s.filter)
	if err != nil {
		return err
	}

	options := FormatOptions{
		ShowDetails: s.details,
		ImageBase:   cfg.Catalog.ImageBaseURL,
		Owned:       ownedMarks(ctx, movies),
	}

	_, err = fmt.Fprint(w, formatter.FormatState(snapshot, movies, options))
	return err
}

// finish renders the final state and turns a committed error into a failure
func (s *session) finish(ctx context.Context, w io.Writer) error {
	snapshot := s.store.State()
	if err := s.render(ctx, w, snapshot); err != nil {
		return err
	}
	if snapshot.Error != nil {
		return fmt.Errorf("%w: %s", errLoadFailed, snapshot.Error.Message)
	}
	return nil
}

// ownedMarks asks Radarr which movies are already in the library
func ownedMarks(ctx context.Context, movies []catalog.Movie) map[int64]bool {
	if libraryClient == nil || len(movies) == 0 {
		return nil
	}

	marks, err := libraryClient.Annotate(ctx, movies)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to check Radarr library")
		return nil
	}
	return marks
}

// compileFilter compiles a --filter expression, if any
func compileFilter(expression string) (filter.Filter, error) {
	if expression == "" {
		return nil, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}
