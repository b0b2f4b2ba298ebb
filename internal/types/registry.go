package types

import (
	"maps"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// GCType classifies how instances of an interface are owned.
type GCType uint8

const (
	RefCounted GCType = iota
	GarbageCollected
	WillBeGarbageCollected
)

func (g GCType) String() string {
	switch g {
	case GarbageCollected:
		return "GarbageCollectedObject"
	case WillBeGarbageCollected:
		return "WillBeGarbageCollectedObject"
	default:
		return "RefCountedObject"
	}
}

// Config is the global information a registry is built from. It is loaded
// once before any definition is processed.
type Config struct {
	Interfaces             []string
	CallbackInterfaces     []string
	Dictionaries           []string
	Enums                  map[string][]string
	CallbackFunctions      []string
	GarbageCollected       []string
	WillBeGarbageCollected []string
	ImplementedAs          map[string]string
	ComponentDirs          map[string]string
	IncludePaths           map[string]string
	Parents                map[string]string
}

// Registry resolves base names and answers per-name global questions. It is
// immutable after NewRegistry and safe for concurrent readers.
type Registry struct {
	interfaces    *set.Set[string]
	callbackIface *set.Set[string]
	dictionaries  *set.Set[string]
	callbacks     *set.Set[string]
	gc            *set.Set[string]
	willBeGC      *set.Set[string]
	enums         map[string][]string
	implementedAs map[string]string
	componentDirs map[string]string
	includePaths  map[string]string
	parents       map[string]string
}

func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		interfaces:    set.From(cfg.Interfaces),
		callbackIface: set.From(cfg.CallbackInterfaces),
		dictionaries:  set.From(cfg.Dictionaries),
		callbacks:     set.From(cfg.CallbackFunctions),
		gc:            set.From(cfg.GarbageCollected),
		willBeGC:      set.From(cfg.WillBeGarbageCollected),
		enums:         make(map[string][]string, len(cfg.Enums)),
		implementedAs: maps.Clone(cfg.ImplementedAs),
		componentDirs: maps.Clone(cfg.ComponentDirs),
		includePaths:  maps.Clone(cfg.IncludePaths),
		parents:       maps.Clone(cfg.Parents),
	}
	for name, values := range cfg.Enums {
		r.enums[name] = append([]string(nil), values...)
	}
	return r
}

// Named resolves a single base name. Names no table knows become
// UnresolvedType.
func (r *Registry) Named(name string) Type {
	switch {
	case integerNames[name] || floatNames[name] || name == "boolean":
		return PrimitiveType{Base: name}
	case name == "ScalarValueString":
		return StringType{Base: "USVString"}
	case stringNames[name]:
		return StringType{Base: name}
	case builtinNames[name]:
		return BuiltinType{Base: name}
	}
	if values, ok := r.enums[name]; ok {
		return EnumType{Base: name, Values: values}
	}
	switch {
	case r.dictionaries.Contains(name):
		return DictionaryType{Base: name}
	case r.callbacks.Contains(name):
		return CallbackType{Base: name}
	case r.isInterfaceName(name):
		return InterfaceType{Base: name}
	}
	// [NamedConstructor] and interface objects are typed as FooConstructor.
	if base, ok := strings.CutSuffix(name, "Constructor"); ok && r.isInterfaceName(base) {
		return InterfaceType{Base: name}
	}
	return UnresolvedType{Base: name}
}

func (r *Registry) isInterfaceName(name string) bool {
	return r.interfaces.Contains(name) || r.callbackIface.Contains(name) ||
		nonWrapperNames[name] || knownInterfaceNames[name] ||
		typedArrayNames[name] || bufferNames[name]
}

// IsCallbackInterface reports a callback interface name.
func (r *Registry) IsCallbackInterface(name string) bool {
	return r.callbackIface.Contains(name)
}

// GCType classifies t by its base name.
func (r *Registry) GCType(t Type) GCType {
	return r.GCTypeOf(Base(t))
}

func (r *Registry) GCTypeOf(name string) GCType {
	switch {
	case r.gc.Contains(name):
		return GarbageCollected
	case r.willBeGC.Contains(name):
		return WillBeGarbageCollected
	default:
		return RefCounted
	}
}

// IsTraceable reports types whose native values must be visited by the
// collector.
func (r *Registry) IsTraceable(t Type) bool {
	return r.GCType(t) != RefCounted
}

// ImplementedAs returns the native class name for an interface, honouring
// overrides from the global information.
func (r *Registry) ImplementedAs(name string) string {
	if impl, ok := r.implementedAs[name]; ok && impl != "" {
		return impl
	}
	return name
}

// ComponentDir returns the component an interface belongs to.
func (r *Registry) ComponentDir(name string) (string, bool) {
	dir, ok := r.componentDirs[name]
	return dir, ok && dir != ""
}

// IncludePath returns the implementation header of an interface, if known.
func (r *Registry) IncludePath(name string) (string, bool) {
	path, ok := r.includePaths[name]
	return path, ok && path != ""
}

func (r *Registry) Parent(name string) (string, bool) {
	parent, ok := r.parents[name]
	return parent, ok && parent != ""
}

// Inherits reports whether name is ancestor or derives from it.
func (r *Registry) Inherits(name, ancestor string) bool {
	seen := make(map[string]bool)
	for name != "" && !seen[name] {
		if name == ancestor {
			return true
		}
		seen[name] = true
		name, _ = r.Parent(name)
	}
	return false
}

func (r *Registry) EnumValues(name string) ([]string, bool) {
	values, ok := r.enums[name]
	return values, ok
}
