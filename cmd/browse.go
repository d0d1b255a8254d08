package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/internal/view"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive search over saved and new cities",
	Long: `Shows saved cities and reads commands from stdin:

  <city>      look up a city
  open N      show the saved reading for entry N
  delete N    delete every saved reading for entry N
  save        save the last lookup
  list        refresh the saved list
  quit        exit`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		b := &browser{
			in:        bufio.NewReader(os.Stdin),
			out:       os.Stdout,
			lookups:   env.Fetcher,
			records:   env.Records,
			validator: env.Validator,
			color:     useColor(os.Stdout),
		}
		return b.run(ctx)
	},
}

// browser is the interactive search screen. Lookups run on their own
// goroutine; results are rendered on the input loop.
type browser struct {
	in        *bufio.Reader
	out       io.Writer
	lookups   lookupFunc
	records   *store.Records
	validator *aqi.Validator
	color     bool

	screen  view.SearchScreen
	current *view.DetailsScreen
}

const browsePrompt = "> "

func (b *browser) run(ctx context.Context) error {
	b.refresh(ctx)
	b.renderList()

	for {
		fmt.Fprint(b.out, browsePrompt)
		line, err := b.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(b.out)
			return nil
		}

		if done := b.handle(ctx, strings.TrimSpace(line)); done {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle executes one command line and reports whether to exit.
func (b *browser) handle(ctx context.Context, line string) bool {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "list":
		b.refresh(ctx)
		b.renderList()
	case "save":
		b.save(ctx)
	case "open":
		if place, ok := b.entry(arg); ok {
			b.open(ctx, place)
		}
	case "delete":
		if place, ok := b.entry(arg); ok {
			_ = deletePlace(ctx, b.out, b.in, b.records, place, false)
			b.refresh(ctx)
			b.renderList()
		}
	default:
		b.search(ctx, line)
	}
	return false
}

func (b *browser) refresh(ctx context.Context) {
	sums, err := b.records.Store().ListSummaries(ctx)
	if err != nil {
		zap.L().Error("browse: list saved places", zap.Error(err))
		sums = nil
	}
	b.screen = view.SearchScreen{Places: sums}
}

func (b *browser) renderList() {
	fmt.Fprintln(b.out, "Saved cities:")
	if err := view.RenderSearch(b.out, b.screen); err != nil {
		zap.L().Warn("browse: render list", zap.Error(err))
	}
}

func (b *browser) entry(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(b.out, "Expected an entry number, got %q\n", arg)
		return "", false
	}
	place, ok := b.screen.Place(n)
	if !ok {
		fmt.Fprintf(b.out, "No saved city #%d\n", n)
		return "", false
	}
	return place, true
}

func (b *browser) open(ctx context.Context, place string) {
	rec, err := b.records.Store().GetOne(ctx, place)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			zap.L().Error("browse: load saved record", zap.String("place", place), zap.Error(err))
		}
		fmt.Fprintf(b.out, "No saved data for %q\n", place)
		return
	}
	b.current = nil
	if err := view.RenderRecord(b.out, *rec, b.color); err != nil {
		zap.L().Warn("browse: render record", zap.Error(err))
	}
}

func (b *browser) search(ctx context.Context, query string) {
	place, err := view.SearchRequest{Query: query}.Normalize()
	if err != nil {
		return
	}

	fmt.Fprintln(b.out, view.SummaryScreen{Place: place}.Title())
	fmt.Fprintln(b.out, view.LoadingText)

	select {
	case out := <-b.lookups.Go(ctx, place):
		d := view.NewDetails(place, out.Lookup, out.Err, b.validator)
		b.current = &d
		if err := view.RenderDetails(b.out, d, b.color); err != nil {
			zap.L().Warn("browse: render details", zap.Error(err))
		}
	case <-ctx.Done():
	}
}

func (b *browser) save(ctx context.Context) {
	if b.current == nil || !b.current.CanSave || b.current.Saved {
		fmt.Fprintln(b.out, view.NoDataLabel)
		return
	}
	if !b.records.Save(ctx, b.current.Place, b.current.Combined()) {
		fmt.Fprintln(b.out, view.SaveFailed)
		return
	}
	b.current.Saved = true
	fmt.Fprintln(b.out, view.SavedNotice)
	b.refresh(ctx)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
