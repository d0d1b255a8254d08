package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/internal/view"
)

var (
	searchSave bool
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <place...>",
	Short: "Look up current air quality for a place",
	Long:  "Looks up city details and current air quality, shows the AQI category, and optionally saves the result.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		return runSearch(ctx, os.Stdout, env.Fetcher, env.Records, env.Validator, strings.Join(args, " "), searchOptions{
			save:  searchSave,
			json:  searchJSON,
			color: useColor(os.Stdout),
		})
	},
}

type searchOptions struct {
	save  bool
	json  bool
	color bool
}

// lookupFunc is the fetch step of a search; *fetcher.Fetcher provides it.
type lookupFunc interface {
	Go(ctx context.Context, place string) <-chan fetcher.Outcome
}

// runSearch performs one lookup and renders the details screen. A failed
// lookup is rendered, not returned, matching what the details screen shows.
func runSearch(ctx context.Context, w io.Writer, f lookupFunc, records *store.Records, v *aqi.Validator, query string, opts searchOptions) error {
	place, err := view.SearchRequest{Query: query}.Normalize()
	if err != nil {
		return eris.New(fetcher.MessageOf(err))
	}

	out := <-f.Go(ctx, place)
	d := view.NewDetails(place, out.Lookup, out.Err, v)

	if opts.save && d.CanSave {
		d.Saved = records.Save(ctx, d.Place, d.Combined())
	}

	if opts.json {
		return view.RenderJSON(w, d)
	}
	if err := view.RenderDetails(w, d, opts.color); err != nil {
		return err
	}
	if opts.save {
		fmt.Fprintln(w, saveNotice(d))
	}
	return nil
}

func saveNotice(d view.DetailsScreen) string {
	if d.Saved {
		return view.SavedNotice
	}
	return view.SaveFailed
}

func init() {
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "save the result when it is a complete reading")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the details screen as JSON")
	rootCmd.AddCommand(searchCmd)
}
