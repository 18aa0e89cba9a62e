package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinescope/catalog"
)

var (
	categoryFlag string
	pageFlag     int
	filterExpr   string
	showDetails  bool
)

// browseCmd lists one page of a category
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List movies of a category",
	Long: `List one page of now playing, popular, top rated or upcoming movies.

Filter expressions narrow the page, for example:
  cinescope browse --category popular --filter 'VoteAverage >= 7.5 and hasBackdrop()'`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category: now_playing, popular, top_rated, upcoming")
	browseCmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "page to show")
	browseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	browseCmd.Flags().BoolVar(&showDetails, "details", false, "show release date, votes and overview")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := defaultCategory()
	if categoryFlag != "" {
		var err error
		category, err = catalog.ParseCategory(categoryFlag)
		if err != nil {
			return err
		}
	}

	if pageFlag < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	s := newSession(category)
	s.filter = f
	s.details = showDetails

	logger.Debug().Str("category", category.String()).Int("page", pageFlag).Msg("Browsing movies")

	s.dispatcher.Start(ctx)
	s.dispatcher.Wait()

	if s.store.State().Error == nil {
		if err := s.pageTo(ctx, pageFlag); err != nil {
			return err
		}
	}

	return s.finish(ctx, os.Stdout)
}
