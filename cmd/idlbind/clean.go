package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2gis/2gisqt5android/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the disk cache and, with --outputs, the output directory",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().String("manifest", "", "path to "+appName+".toml (default: searched upwards)")
	cleanCmd.Flags().Bool("outputs", false, "also remove the output directory")
}

func runClean(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, nil, wd)
	if err != nil && !errors.Is(err, errNoInputs) {
		return err
	}
	if settings == nil {
		settings = &runSettings{}
	}

	cache, err := driver.OpenDiskCache(settings.cacheName())
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dropped cache %s\n", cache.Dir())

	removeOutputs, err := cmd.Flags().GetBool("outputs")
	if err != nil {
		return fmt.Errorf("failed to get outputs flag: %w", err)
	}
	if !removeOutputs {
		return nil
	}
	if settings.manifest == nil {
		return fmt.Errorf("--outputs needs a manifest to locate the output directory")
	}
	if err := os.RemoveAll(settings.outDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", settings.outDir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", settings.outDir)
	return nil
}
