package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchPage int

// searchCmd searches the catalog by title
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "page of results to show")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().BoolVar(&showDetails, "details", false, "show release date, votes and overview")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query is empty")
	}
	if searchPage < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	s := newSession(defaultCategory())
	s.filter = f
	s.details = showDetails

	logger.Debug().Str("query", query).Int("page", searchPage).Msg("Searching movies")

	s.dispatcher.SetSearchQuery(ctx, query)
	s.dispatcher.Wait()

	if s.store.State().Error == nil {
		if err := s.pageTo(ctx, searchPage); err != nil {
			return err
		}
	}

	return s.finish(ctx, os.Stdout)
}
