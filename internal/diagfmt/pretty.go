package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/2gis/2gisqt5android/internal/diag"
)

type palette struct {
	err, warn, info, note, code, loc *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		note: color.New(color.FgBlue),
		code: color.New(color.Faint),
		loc:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.loc} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints every diagnostic of bag in its current order as
//
//	<location>: <severity> <CODE>: <message>
//
// followed by indented notes when ShowNotes is set. Callers sort the bag
// first when they want a stable order.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
		loc := withPath(d.Primary, opts.PathMode, opts.BaseDir).String()
		if loc == "" {
			loc = "<input>"
		}
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.Label()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if err != nil {
			return err
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			nloc := withPath(n.Location, opts.PathMode, opts.BaseDir).String()
			prefix := "  " + p.note.Sprint("note") + ": "
			if nloc != "" {
				prefix += nloc + ": "
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, n.Msg); err != nil {
				return err
			}
		}
	}
	if !opts.Summary || (errs == 0 && warns == 0) {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s, %s\n",
		p.err.Sprint(plural(errs, "error")),
		p.warn.Sprint(plural(warns, "warning")))
	return err
}

// Short writes the one-line-per-diagnostic format shared with golden tests.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
