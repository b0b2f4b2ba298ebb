package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/diagfmt"
	"github.com/2gis/2gisqt5android/internal/version"
)

type outputOptions struct {
	format     string
	withNotes  bool
	fullPath   bool
	baseDir    string
	invocation []string
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var opts outputOptions
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(strings.TrimSpace(format))
	switch opts.format {
	case "pretty", "short", "json", "sarif":
	default:
		return opts, fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", format)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	return opts, nil
}

func (o outputOptions) pathMode() diagfmt.PathMode {
	if o.fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}

// printDiagnostics renders bag in the selected format. Pretty output is
// skipped for an empty bag; machine formats always produce a document.
func printDiagnostics(w io.Writer, bag *diag.Bag, o outputOptions) error {
	switch o.format {
	case "json":
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{
			PathMode:     o.pathMode(),
			BaseDir:      o.baseDir,
			IncludeNotes: o.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, diagfmt.SarifRunMeta{
			ToolName:       appName,
			ToolVersion:    version.Version,
			InvocationArgs: o.invocation,
			PathMode:       o.pathMode(),
			BaseDir:        o.baseDir,
		})
	case "short":
		if bag.Len() == 0 {
			return nil
		}
		return diagfmt.Short(w, bag, o.withNotes)
	default:
		if bag.Len() == 0 {
			return nil
		}
		return diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			PathMode:  o.pathMode(),
			BaseDir:   o.baseDir,
			ShowNotes: o.withNotes,
			Summary:   true,
		})
	}
}
