package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/dispatch"
	"github.com/s0up4200/cinescope/selector"
	"github.com/s0up4200/cinescope/state"
)

const shellHelp = `Commands:
  cat <category>   switch category (now_playing, popular, top_rated, upcoming)
  next, prev       change page
  search <query>   search by title
  clear            clear the search and return to the category
  reload           fetch the current page again
  filter [expr]    set or clear the list filter
  details          toggle detailed output
  slides [n]       pick random backdrops from the current list
  help             show this help
  quit             leave the shell
`

// shellCmd runs the interactive browser
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Browse interactively",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category to start with")
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := defaultCategory()
	if categoryFlag != "" {
		var err error
		category, err = catalog.ParseCategory(categoryFlag)
		if err != nil {
			return err
		}
	}

	s := newSession(category)
	unsubscribe := s.store.Subscribe(s.renderer(ctx, os.Stdout))
	defer unsubscribe()

	fmt.Print(shellHelp)
	s.dispatcher.Start(ctx)
	s.dispatcher.Wait()

	return s.loop(ctx, os.Stdin, os.Stdout)
}

// renderer returns a listener that prints every snapshot that changed what
// the user sees: a new error, the start of a load, or a new list.
func (s *session) renderer(ctx context.Context, w io.Writer) state.Listener {
	prev := s.store.State()
	return func(next state.AppState) {
		defer func() { prev = next }()

		switch {
		case next.Error != nil && (prev.Error == nil || *prev.Error != *next.Error):
			fmt.Fprintf(w, "⚠ %s (type 'reload' to retry)\n", next.Error.Message)
		case selector.Heading(prev) != selector.Heading(next):
			fmt.Fprintf(w, "Loading %s...\n", selector.Heading(next))
		case listChanged(prev, next) || (prev.Error != nil && next.Error == nil):
			if err := s.render(ctx, w, next); err != nil {
				fmt.Fprintf(w, "⚠ %v\n", err)
			}
		}
	}
}

// listChanged reports whether next holds a different committed list than prev
func listChanged(prev, next state.AppState) bool {
	if !next.Loaded {
		return false
	}
	if !prev.Loaded || prev.Page != next.Page || prev.TotalPages != next.TotalPages || len(prev.List) != len(next.List) {
		return true
	}
	for i := range next.List {
		if prev.List[i].ID != next.List[i].ID {
			return true
		}
	}
	return false
}

// loop reads commands until quit or end of input
func (s *session) loop(ctx context.Context, in io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(w, "cinescope> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		done, err := s.execute(ctx, strings.TrimSpace(scanner.Text()), w)
		if err != nil {
			fmt.Fprintf(w, "⚠ %v\n", err)
		}
		s.dispatcher.Wait()

		if done || ctx.Err() != nil {
			return nil
		}
	}
}

// execute runs one shell command and reports whether the shell should exit
func (s *session) execute(ctx context.Context, line string, w io.Writer) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "":
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(w, shellHelp)
	case "cat", "category":
		category, err := catalog.ParseCategory(arg)
		if err != nil {
			return false, err
		}
		tok, err := s.dispatcher.ChangeCategory(ctx, category)
		if err != nil {
			return false, err
		}
		if tok == 0 {
			fmt.Fprintf(w, "Already showing %s\n", category.DisplayName())
		}
	case "next", "n":
		return false, s.changePage(ctx, dispatch.Next, w)
	case "prev", "p":
		return false, s.changePage(ctx, dispatch.Prev, w)
	case "search", "s":
		if arg == "" {
			return false, fmt.Errorf("usage: search <query>")
		}
		s.dispatcher.SetSearchQuery(ctx, arg)
	case "clear":
		s.dispatcher.SetSearchQuery(ctx, "")
	case "reload", "r":
		s.dispatcher.Reload(ctx)
	case "filter":
		f, err := compileFilter(arg)
		if err != nil {
			return false, err
		}
		s.filter = f
		return false, s.render(ctx, w, s.store.State())
	case "details":
		s.details = !s.details
		return false, s.render(ctx, w, s.store.State())
	case "slides":
		n := cfg.UI.SlideshowSize
		if arg != "" {
			if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
				return false, fmt.Errorf("usage: slides [n]")
			}
		}
		snapshot := s.store.State()
		slides, err := selector.Slideshow(snapshot, n, cfg.Catalog.ImageBaseURL, nil)
		if err != nil {
			return false, err
		}
		fmt.Fprint(w, formatter.FormatSlides(selector.Heading(snapshot), slides))
	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", name)
	}

	return false, nil
}

func (s *session) changePage(ctx context.Context, dir dispatch.Direction, w io.Writer) error {
	tok, err := s.dispatcher.ChangePage(ctx, dir)
	if err != nil {
		return err
	}
	if tok == 0 {
		fmt.Fprintf(w, "No %s page\n", dir)
	}
	return nil
}
