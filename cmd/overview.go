package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/dispatch"
)

var overviewCount int

// overviewCmd shows the top of every category at once
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the first movies of every category",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)

	overviewCmd.Flags().IntVarP(&overviewCount, "count", "n", 5, "movies per category")
}

func runOverview(cmd *cobra.Command, args []string) error {
	overview, err := catalog.FetchOverview(cmd.Context(), fetcher, 1)
	if err != nil {
		return fmt.Errorf("%s: %w", dispatch.UserMessage(err), err)
	}

	fmt.Print(formatter.FormatOverview(overview, max(overviewCount, 1)))
	return nil
}
