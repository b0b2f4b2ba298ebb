package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/2gis/2gisqt5android/internal/driver"
	"github.com/2gis/2gisqt5android/internal/project"
)

var errNoInputs = fmt.Errorf("%w; pass definition files or directories explicitly", project.ErrNoManifest)

// runSettings is the merged view of the manifest and the command flags.
type runSettings struct {
	manifest   *project.Manifest
	inputs     []string
	globalInfo string
	outDir     string
	format     driver.OutputFormat
	jobs       int
	cache      bool
}

// resolveSettings merges, in increasing priority: defaults, the manifest
// found from dir (or --manifest), positional inputs and explicit flags.
// Without positional inputs a manifest is required.
func resolveSettings(cmd *cobra.Command, args []string, dir string) (*runSettings, error) {
	s := &runSettings{format: driver.FormatJSON, outDir: "gen"}

	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if manifestPath == "" {
		manifestPath, err = project.FindManifest(dir)
		if err != nil && !errors.Is(err, project.ErrNoManifest) {
			return nil, err
		}
	}
	if manifestPath != "" {
		m, err := project.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		s.manifest = m
		s.inputs = m.InputPaths()
		s.globalInfo = m.Resolve(m.Config.Project.GlobalInfo)
		s.outDir = m.Resolve(m.Config.Output.Dir)
		s.jobs = m.Config.Output.Jobs
		s.cache = m.Config.Output.Cache
		if s.format, err = driver.ParseOutputFormat(m.Config.Output.Format); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		s.inputs = args
	}
	if len(s.inputs) == 0 {
		return nil, errNoInputs
	}

	flags := cmd.Flags()
	if flags.Changed("global-info") {
		if s.globalInfo, err = flags.GetString("global-info"); err != nil {
			return nil, fmt.Errorf("failed to get global-info flag: %w", err)
		}
	}
	if flags.Changed("out") {
		if s.outDir, err = flags.GetString("out"); err != nil {
			return nil, fmt.Errorf("failed to get out flag: %w", err)
		}
	}
	if flags.Changed("out-format") {
		value, err := flags.GetString("out-format")
		if err != nil {
			return nil, fmt.Errorf("failed to get out-format flag: %w", err)
		}
		if s.format, err = driver.ParseOutputFormat(value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if s.cache, err = flags.GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		s.cache = false
	}
	if s.jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative")
	}
	return s, nil
}

// baseDir is where relative diagnostic paths are measured from.
func (s *runSettings) baseDir() string {
	if s.manifest != nil {
		return s.manifest.Root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// cacheName is the cache directory under the user cache root; manifests
// get one per project name.
func (s *runSettings) cacheName() string {
	if s.manifest != nil {
		return filepath.Join(appName, s.manifest.Config.Project.Name)
	}
	return appName
}
