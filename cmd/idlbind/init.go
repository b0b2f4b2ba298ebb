package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2gis/2gisqt5android/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Create an " + appName + ".toml project manifest",
	Long: `Init writes a project manifest, an empty global info file and an idl/
directory for definition files. If [path|name] is omitted the current
directory is used; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}
	created, err := initProject(target)
	if err != nil {
		return err
	}
	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s project in %s\n", appName, rel)
	for _, name := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}
	return nil
}

// initProject lays out a project in target and returns the entries it
// created. An existing manifest is an error; other existing entries are
// kept.
func initProject(target string) ([]string, error) {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "bindings"
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	created := []string{project.ManifestName}

	infoPath := filepath.Join(target, "global_info.toml")
	if _, err := os.Stat(infoPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(infoPath, []byte(defaultGlobalInfo), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write global info: %w", err)
		}
		created = append(created, "global_info.toml")
	}
	idlDir := filepath.Join(target, "idl")
	if _, err := os.Stat(idlDir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(idlDir, 0o755); err != nil {
			return nil, err
		}
		created = append(created, "idl/")
	}
	return created, nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# %s project manifest
[project]
name = %q
inputs = ["idl"]
global_info = "global_info.toml"

[output]
dir = "gen"
format = "json"
jobs = 0
cache = false
`, appName, name)
}

const defaultGlobalInfo = `# Names defined outside the inputs of this project.
interfaces = []
dictionaries = []
enums = {}
`
