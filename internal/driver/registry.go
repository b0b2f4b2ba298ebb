package driver

import (
	"maps"
	"slices"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/project"
	"github.com/2gis/2gisqt5android/internal/types"
)

// RegistryConfig merges the global info with what the loaded definitions
// declare about themselves. Global info wins where both speak.
func RegistryConfig(info project.GlobalInfo, inputs []Input) types.Config {
	cfg := info.Config()
	cfg.Interfaces = slices.Clone(cfg.Interfaces)
	cfg.CallbackInterfaces = slices.Clone(cfg.CallbackInterfaces)
	cfg.Dictionaries = slices.Clone(cfg.Dictionaries)
	cfg.CallbackFunctions = slices.Clone(cfg.CallbackFunctions)
	cfg.GarbageCollected = slices.Clone(cfg.GarbageCollected)
	cfg.WillBeGarbageCollected = slices.Clone(cfg.WillBeGarbageCollected)
	cfg.Enums = cloneMap(cfg.Enums)
	cfg.ImplementedAs = cloneMap(cfg.ImplementedAs)
	cfg.Parents = cloneMap(cfg.Parents)

	for _, in := range inputs {
		for _, iface := range in.Defs.Interfaces {
			declareInterface(&cfg, iface)
		}
		for _, dict := range in.Defs.Dictionaries {
			cfg.Dictionaries = append(cfg.Dictionaries, dict.Name)
		}
		for _, e := range in.Defs.Enums {
			if _, ok := cfg.Enums[e.Name]; !ok {
				cfg.Enums[e.Name] = e.Values
			}
		}
		cfg.CallbackFunctions = append(cfg.CallbackFunctions, in.Defs.CallbackFunctions...)
	}
	return cfg
}

func declareInterface(cfg *types.Config, iface *idl.Interface) {
	if iface.IsCallback {
		cfg.CallbackInterfaces = append(cfg.CallbackInterfaces, iface.Name)
	} else {
		cfg.Interfaces = append(cfg.Interfaces, iface.Name)
	}
	if _, ok := cfg.Parents[iface.Name]; !ok && iface.Parent != "" {
		cfg.Parents[iface.Name] = iface.Parent
	}
	ext := extattr.Parse(iface.ExtAttrs, nil)
	if impl, ok := ext.ImplementedAs(); ok {
		if _, ok := cfg.ImplementedAs[iface.Name]; !ok {
			cfg.ImplementedAs[iface.Name] = impl
		}
	}
	switch {
	case ext.Has(extattr.GarbageCollected):
		cfg.GarbageCollected = append(cfg.GarbageCollected, iface.Name)
	case ext.Has(extattr.WillBeGarbageCollected):
		cfg.WillBeGarbageCollected = append(cfg.WillBeGarbageCollected, iface.Name)
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return maps.Clone(m)
}
