package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/airquality-cli/internal/model"
)

const swatchWidth = 6

// Swatch returns a block of the given #RRGGBB color using 24-bit ANSI
// escapes, or a bracketed hex code when color is off.
func Swatch(hex string, color bool) string {
	if !color {
		return "[" + hex + "]"
	}
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "[" + hex + "]"
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, strings.Repeat(" ", swatchWidth))
}

// Colorize writes s in the given #RRGGBB foreground color.
func Colorize(s, hex string, color bool) string {
	r, g, b, ok := parseHex(hex)
	if !color || !ok {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// RenderDetails writes the details screen: summary line, classification
// swatch, place info, reading and save state.
func RenderDetails(w io.Writer, d DetailsScreen, color bool) error {
	c := d.Classification
	var b strings.Builder
	fmt.Fprintln(&b, SummaryScreen{Place: d.Place}.Title())
	fmt.Fprintf(&b, "%s %s\n\n", Swatch(c.Color, color), Colorize(c.Label, c.Color, color))
	fmt.Fprintln(&b, d.PlaceText)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, d.ReadingText)
	if !d.Saved {
		fmt.Fprintf(&b, "\n[%s]\n", d.SaveLabel())
	}
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "view: render details")
}

// RenderRecord writes a stored record with its classification recomputed.
func RenderRecord(w io.Writer, rec model.SavedRecord, color bool) error {
	d := NewSavedDetails(rec)
	if err := RenderDetails(w, d, color); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nSaved %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	return eris.Wrap(err, "view: render record")
}

// RenderSearch writes the numbered list of saved places.
func RenderSearch(w io.Writer, s SearchScreen) error {
	if len(s.Places) == 0 {
		_, err := fmt.Fprintln(w, NoSavedCities)
		return eris.Wrap(err, "view: render search")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCITY\tRECORDS")
	for i, p := range s.Places {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, p.Place, p.Records)
	}
	return eris.Wrap(tw.Flush(), "view: render search")
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "view: render json")
}
