package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/selector"
)

var slideCount int

// slideshowCmd picks random backdrops from a category
var slideshowCmd = &cobra.Command{
	Use:   "slideshow",
	Short: "Pick random backdrops from a category",
	RunE:  runSlideshow,
}

func init() {
	rootCmd.AddCommand(slideshowCmd)

	slideshowCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category to pick from")
	slideshowCmd.Flags().IntVarP(&slideCount, "count", "n", 0, "number of slides (default from ui.slideshow_size)")
}

func runSlideshow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := defaultCategory()
	if categoryFlag != "" {
		var err error
		category, err = catalog.ParseCategory(categoryFlag)
		if err != nil {
			return err
		}
	}

	n := cfg.UI.SlideshowSize
	if cmd.Flags().Changed("count") {
		n = slideCount
	}

	s := newSession(category)
	s.dispatcher.Start(ctx)
	s.dispatcher.Wait()

	snapshot := s.store.State()
	if snapshot.Error != nil {
		return fmt.Errorf("%w: %s", errLoadFailed, snapshot.Error.Message)
	}

	slides, err := selector.Slideshow(snapshot, n, cfg.Catalog.ImageBaseURL, nil)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, formatter.FormatSlides(selector.Heading(snapshot), slides))
	return nil
}
