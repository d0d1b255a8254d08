package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/internal/view"
)

var (
	savedJSON bool
	deleteYes bool
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Inspect and manage saved cities",
	Long:  "Commands for listing, viewing, and deleting saved air quality readings.",
}

// -- saved list --

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cities with record counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		sums, err := env.Store.ListSummaries(ctx)
		if err != nil {
			return eris.Wrap(err, "saved list")
		}
		screen := view.SearchScreen{Places: sums}
		if savedJSON {
			return view.RenderJSON(os.Stdout, screen)
		}
		return view.RenderSearch(os.Stdout, screen)
	},
}

// -- saved show --

var savedShowCmd = &cobra.Command{
	Use:   "show <place>",
	Short: "Show the first saved reading for a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		place := strings.Join(args, " ")
		rec, err := env.Store.GetOne(ctx, place)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return eris.Errorf("no saved data for %q", place)
			}
			return eris.Wrap(err, "saved show")
		}
		if savedJSON {
			return view.RenderJSON(os.Stdout, view.NewSavedDetails(*rec))
		}
		return view.RenderRecord(os.Stdout, *rec, useColor(os.Stdout))
	},
}

// -- saved delete --

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <place>",
	Short: "Delete every saved reading for a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		in := bufio.NewReader(os.Stdin)
		return deletePlace(ctx, os.Stdout, in, env.Records, strings.Join(args, " "), deleteYes)
	},
}

// errNothingDeleted is returned when a confirmed delete removed no rows.
var errNothingDeleted = eris.New("nothing deleted")

// deletePlace asks for confirmation unless yes is set, then deletes every
// record for place and prints the outcome. Declining is not an error.
func deletePlace(ctx context.Context, w io.Writer, in *bufio.Reader, records *store.Records, place string, yes bool) error {
	place = strings.TrimSpace(place)
	if !yes {
		count := records.CountRecords(ctx, place)
		if !confirm(w, in, view.DeletePrompt(place, count)) {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if records.DeleteAll(ctx, place) {
		fmt.Fprintln(w, view.DeletedNotice(place))
		return nil
	}
	fmt.Fprintln(w, view.DeleteFailedNotice(place))
	return errNothingDeleted
}

// confirm prints prompt with a y/N suffix and reads one answer line.
func confirm(w io.Writer, in *bufio.Reader, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	savedCmd.PersistentFlags().BoolVar(&savedJSON, "json", false, "print as JSON")
	savedDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	savedCmd.AddCommand(savedListCmd, savedShowCmd, savedDeleteCmd)
	rootCmd.AddCommand(savedCmd)
}
