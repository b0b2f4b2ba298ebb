package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/2gis/2gisqt5android/internal/buildpipeline"
	"github.com/2gis/2gisqt5android/internal/driver"
	"github.com/2gis/2gisqt5android/internal/observ"
)

// printRunSummary prints one line about what the run did.
func printRunSummary(out io.Writer, sum *driver.Summary, wrote bool) {
	cached := 0
	for _, r := range sum.Results {
		if r.Cached {
			cached++
		}
	}
	line := fmt.Sprintf("%d %s", len(sum.Results), plural(len(sum.Results), "definition"))
	if cached > 0 {
		line += fmt.Sprintf(", %d cached", cached)
	}
	if n := sum.Failures(); n > 0 {
		line += fmt.Sprintf(", %d failed", n)
	}
	line += fmt.Sprintf(" in %.1f ms", observ.Millis(sum.Timings.Sum(
		buildpipeline.StageLoad, buildpipeline.StageGenerate, buildpipeline.StageWrite)))
	if wrote {
		line += fmt.Sprintf("; wrote %d, unchanged %d", sum.Written, sum.Unchanged)
	}
	fmt.Fprintln(out, line)
}

// printTimings writes the phase table, or its JSON report for tools.
func printTimings(out io.Writer, timer *observ.Timer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(timer.Report())
	}
	_, err := io.WriteString(out, timer.Summary())
	return err
}
