// Package project locates and reads the idlbind.toml manifest and the global
// info file that seeds the type registry.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file searched for from the working directory upwards.
const ManifestName = "idlbind.toml"

// ErrNoManifest is returned by FindManifest when no manifest exists on the
// way to the filesystem root.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Project ProjectConfig `toml:"project"`
	Output  OutputConfig  `toml:"output"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
	// Inputs are definition files or directories relative to the manifest.
	Inputs []string `toml:"inputs"`
	// GlobalInfo is the global info TOML relative to the manifest.
	GlobalInfo string `toml:"global_info"`
}

type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"`
	Cache  bool   `toml:"cache"`
}

// FindManifest walks from startDir to the root looking for ManifestName.
func FindManifest(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoManifest
		}
		dir = parent
	}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%s: missing [project].name", path)
	}
	if len(cfg.Project.Inputs) == 0 {
		return nil, fmt.Errorf("%s: [project].inputs must list at least one path", path)
	}
	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = "json"
	case "json", "msgpack":
	default:
		return nil, fmt.Errorf("%s: [output].format must be json or msgpack, got %q", path, cfg.Output.Format)
	}
	if cfg.Output.Jobs < 0 {
		return nil, fmt.Errorf("%s: [output].jobs must not be negative", path)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "gen"
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// InputPaths returns the configured inputs resolved against the root.
func (m *Manifest) InputPaths() []string {
	out := make([]string, len(m.Config.Project.Inputs))
	for i, in := range m.Config.Project.Inputs {
		out[i] = m.Resolve(in)
	}
	return out
}
