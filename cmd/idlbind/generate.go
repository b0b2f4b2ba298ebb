package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2gis/2gisqt5android/internal/driver"
	"github.com/2gis/2gisqt5android/internal/observ"
	"github.com/2gis/2gisqt5android/internal/trace"
)

var (
	generateCmd = newRunCmd("generate [flags] [definitions...]",
		"Generate binding contexts and write the changed ones",
		`Generate loads definition files (or every definition file under the given
directories), builds a context per interface and dictionary and writes the
outputs whose content changed. Without arguments the inputs come from the
nearest idlbind.toml.`, true)
	checkCmd = newRunCmd("check [flags] [definitions...]",
		"Build every context and report diagnostics without writing", "", false)
)

// newRunCmd builds generate (write) or check.
func newRunCmd(use, short, long string, write bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, write)
		},
	}
	flags := cmd.Flags()
	flags.String("manifest", "", "path to "+appName+".toml (default: searched upwards)")
	flags.String("global-info", "", "global info TOML with cross-file definitions")
	flags.String("out-format", "json", "context encoding (json|msgpack)")
	flags.Int("jobs", 0, "max parallel definitions (0=auto)")
	flags.Bool("cache", false, "reuse contexts from the disk cache")
	flags.Bool("no-cache", false, "ignore the disk cache even when the manifest enables it")
	flags.String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	flags.Bool("with-notes", false, "include diagnostic notes in output")
	flags.Bool("fullpath", false, "emit absolute file paths in output")
	flags.String("ui", "auto", "progress display (auto|on|off)")
	if write {
		flags.StringP("out", "o", "gen", "output directory")
	}
	return cmd
}

// runGenerate drives both generate and check. It returns an error when the
// run could not complete or when any definition failed.
func runGenerate(cmd *cobra.Command, args []string, write bool) error {
	cleanupProfile, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProfile()
	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			dumpTraceRing(cmd.ErrOrStderr(), tracer, "panic")
			panic(r)
		}
	}()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, args, wd)
	if err != nil {
		return err
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	cfg := driver.Config{
		Inputs:         settings.inputs,
		GlobalInfo:     settings.globalInfo,
		Format:         settings.format,
		Jobs:           settings.jobs,
		MaxDiagnostics: maxDiagnostics,
		Timer:          timer,
	}
	if write {
		cfg.OutDir = settings.outDir
	}
	if settings.cache {
		cache, err := driver.OpenDiskCache(settings.cacheName())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache disabled: %v\n", err)
		} else {
			cfg.Cache = cache
		}
	}

	var sum *driver.Summary
	if !quiet && out.format == "pretty" && shouldUseTUI(mode) {
		sum, err = runWithUI(ctx, cmd.Name(), cfg)
	} else {
		sum, err = driver.Run(ctx, cfg)
	}
	if err != nil {
		dumpTraceRing(cmd.ErrOrStderr(), tracer, "run failed")
		return err
	}

	out.baseDir = settings.baseDir()
	out.invocation = append([]string{appName, cmd.Name()}, args...)
	if err := printDiagnostics(cmd.OutOrStdout(), sum.Bag, out); err != nil {
		return err
	}
	if !quiet && out.format == "pretty" {
		printRunSummary(cmd.OutOrStdout(), sum, write)
	}
	if showTimings {
		if err := printTimings(cmd.ErrOrStderr(), timer, out.format == "json"); err != nil {
			return err
		}
	}

	if sum.Failed() {
		dumpTraceRing(cmd.ErrOrStderr(), tracer, "definitions failed")
		if n := sum.Failures(); n > 0 {
			return fmt.Errorf("%d %s failed", n, plural(n, "definition"))
		}
		return fmt.Errorf("errors reported")
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "s") {
		return word + "es"
	}
	return word + "s"
}
