package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/model"
	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/internal/view"
)

var (
	batchSave        bool
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up every city listed in a file",
	Long:  "Reads one city per line (blank lines and # comments are skipped), looks them up concurrently, and prints a summary table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "batch: open input")
		}
		defer f.Close() //nolint:errcheck

		places, err := readPlaces(f)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		results, err := processBatch(ctx, places, concurrency, env.Fetcher.Fetch, env.Records, env.Validator, batchSave)
		if err != nil {
			return err
		}
		return formatBatchResults(os.Stdout, results)
	},
}

// readPlaces returns the non-blank, non-comment lines of r, trimmed.
func readPlaces(r io.Reader) ([]string, error) {
	var places []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		places = append(places, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read input")
	}
	return places, nil
}

// batchResult is one row of the summary table.
type batchResult struct {
	Place  string
	Screen view.DetailsScreen
	Err    error
}

// fetchFunc is the callback signature for looking up one place.
type fetchFunc func(ctx context.Context, place string) (*model.Lookup, error)

// processBatch looks up places concurrently. Individual failures are kept
// in the results and never abort the batch. Results keep input order.
func processBatch(ctx context.Context, places []string, concurrency int, fetch fetchFunc, records *store.Records, v *aqi.Validator, save bool) ([]batchResult, error) {
	if len(places) == 0 {
		zap.L().Info("no places to look up")
		return nil, nil
	}

	zap.L().Info("processing batch",
		zap.Int("places", len(places)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make([]batchResult, len(places))
	var succeeded, failed, saved atomic.Int64

	for i, place := range places {
		g.Go(func() error {
			l, err := fetch(gctx, place)
			d := view.NewDetails(place, l, err, v)
			results[i] = batchResult{Place: place, Screen: d, Err: err}

			if err != nil {
				failed.Add(1)
				zap.L().Warn("lookup failed", zap.String("place", place), zap.Stringer("kind", fetcher.KindOf(err)))
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)

			if save && d.CanSave && records.Save(gctx, d.Place, d.Combined()) {
				results[i].Screen.Saved = true
				saved.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("saved", saved.Load()),
	)
	return results, ctx.Err()
}

func formatBatchResults(w io.Writer, results []batchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tAQI\tCATEGORY\tSAVED\tERROR")
	for _, r := range results {
		c := r.Screen.Classification
		aqiCol := "-"
		if r.Err == nil && c.Index >= 0 {
			aqiCol = fmt.Sprintf("%d", c.Index)
		}
		category := c.Tier.String()
		if r.Err != nil {
			category = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Place, aqiCol, category, yesNo(r.Screen.Saved), r.Screen.Error)
	}
	return eris.Wrap(tw.Flush(), "batch: write results")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "save every complete reading")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent lookups (default from config)")
	rootCmd.AddCommand(batchCmd)
}
