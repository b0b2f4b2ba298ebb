package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/2gis/2gisqt5android/internal/types"
)

// GlobalInfo is the cross-definition knowledge the registry is built from.
type GlobalInfo struct {
	Interfaces             []string            `toml:"interfaces"`
	CallbackInterfaces     []string            `toml:"callback_interfaces"`
	Dictionaries           []string            `toml:"dictionaries"`
	CallbackFunctions      []string            `toml:"callback_functions"`
	GarbageCollected       []string            `toml:"garbage_collected"`
	WillBeGarbageCollected []string            `toml:"will_be_garbage_collected"`
	Enums                  map[string][]string `toml:"enums"`
	ImplementedAs          map[string]string   `toml:"implemented_as"`
	ComponentDirs          map[string]string   `toml:"component_dirs"`
	IncludePaths           map[string]string   `toml:"include_paths"`
	Parents                map[string]string   `toml:"parents"`
}

// LoadGlobalInfo reads the global info file and returns it with the digest
// of its bytes. An empty path yields an empty GlobalInfo.
func LoadGlobalInfo(path string) (GlobalInfo, Digest, error) {
	if path == "" {
		return GlobalInfo{}, Digest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return GlobalInfo{}, Digest{}, err
	}
	info, err := DecodeGlobalInfo(data)
	if err != nil {
		return GlobalInfo{}, Digest{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, DigestOf(data), nil
}

// DecodeGlobalInfo parses and validates global info TOML.
func DecodeGlobalInfo(data []byte) (GlobalInfo, error) {
	var info GlobalInfo
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&info)
	if err != nil {
		return GlobalInfo{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return GlobalInfo{}, fmt.Errorf("unknown key %s", undecoded[0])
	}
	return info, info.Validate()
}

// Validate rejects contradictory classifications.
func (g GlobalInfo) Validate() error {
	var errs []error
	for _, name := range g.GarbageCollected {
		if slices.Contains(g.WillBeGarbageCollected, name) {
			errs = append(errs, fmt.Errorf("%s is both garbage_collected and will_be_garbage_collected", name))
		}
	}
	for _, name := range g.Dictionaries {
		if slices.Contains(g.Interfaces, name) {
			errs = append(errs, fmt.Errorf("%s is both an interface and a dictionary", name))
		}
	}
	for name, values := range g.Enums {
		if len(values) == 0 {
			errs = append(errs, fmt.Errorf("enum %s has no values", name))
		}
	}
	for name, dir := range g.ComponentDirs {
		if dir == "" {
			errs = append(errs, fmt.Errorf("component dir of %s is empty", name))
		}
	}
	return errors.Join(errs...)
}

// Config converts the info into a registry configuration. Slices and maps
// are shared with g.
func (g GlobalInfo) Config() types.Config {
	return types.Config{
		Interfaces:             g.Interfaces,
		CallbackInterfaces:     g.CallbackInterfaces,
		Dictionaries:           g.Dictionaries,
		Enums:                  g.Enums,
		CallbackFunctions:      g.CallbackFunctions,
		GarbageCollected:       g.GarbageCollected,
		WillBeGarbageCollected: g.WillBeGarbageCollected,
		ImplementedAs:          g.ImplementedAs,
		ComponentDirs:          g.ComponentDirs,
		IncludePaths:           g.IncludePaths,
		Parents:                g.Parents,
	}
}
