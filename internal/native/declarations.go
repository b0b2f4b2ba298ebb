package native

import (
	"cmp"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/2gis/2gisqt5android/internal/types"
)

// Declarations accumulates the headers required by the types visited while
// building one definition. It is owned by a single builder run.
type Declarations struct {
	includes *set.TreeSet[string]
}

func NewDeclarations() *Declarations {
	return &Declarations{includes: set.NewTreeSet[string](cmp.Compare[string])}
}

// Add records include paths; empty strings are ignored.
func (d *Declarations) Add(paths ...string) {
	for _, p := range paths {
		if p != "" {
			d.includes.Insert(p)
		}
	}
}

// Includes returns the recorded paths in sorted order.
func (d *Declarations) Includes() []string {
	return d.includes.Slice()
}

func (d *Declarations) Contains(path string) bool {
	return d.includes.Contains(path)
}

func (d *Declarations) Len() int {
	return d.includes.Size()
}

// Reset empties the accumulator.
func (d *Declarations) Reset() {
	d.includes = set.NewTreeSet[string](cmp.Compare[string])
}

var includesForType = map[string][]string{
	"object":     {},
	"Dictionary": {"bindings/core/v8/Dictionary.h"},
	"EventHandler": {
		"bindings/core/v8/V8AbstractEventListener.h",
		"bindings/core/v8/V8EventListenerList.h",
	},
	"EventListener": {
		"bindings/core/v8/BindingSecurity.h",
		"bindings/core/v8/V8EventListenerList.h",
		"core/frame/LocalDOMWindow.h",
	},
	"HTMLCollection": {
		"bindings/core/v8/V8HTMLCollection.h",
		"core/dom/ClassCollection.h",
		"core/dom/TagCollection.h",
		"core/html/HTMLCollection.h",
		"core/html/HTMLDataListOptionsCollection.h",
		"core/html/HTMLFormControlsCollection.h",
		"core/html/HTMLTableRowsCollection.h",
	},
	"NodeList": {
		"bindings/core/v8/V8NodeList.h",
		"core/dom/NameNodeList.h",
		"core/dom/NodeList.h",
		"core/dom/StaticNodeList.h",
		"core/html/LabelsNodeList.h",
	},
	"Promise":               {"bindings/core/v8/ScriptPromise.h"},
	"SerializedScriptValue": {"bindings/core/v8/SerializedScriptValue.h"},
	"ScriptValue":           {"bindings/core/v8/ScriptValue.h"},
}

// IncludesForType returns the binding headers needed to convert t.
func (m *Mapper) IncludesForType(t types.Type) []string {
	t = Preprocess(t)
	switch inner := types.Inner(t).(type) {
	case types.UnionType:
		var out []string
		for _, member := range inner.Members {
			out = append(out, m.IncludesForType(member)...)
		}
		return out
	case types.ArrayType:
		return m.IncludesForType(inner.Elem)
	case types.SequenceType:
		return m.IncludesForType(inner.Elem)
	case types.RecordType:
		return m.IncludesForType(inner.Value)
	}

	base := types.Base(t)
	if paths, ok := includesForType[base]; ok {
		return paths
	}
	if types.IsBasicType(t) {
		return nil
	}
	// Named constructors are generated along with their interface.
	if strings.HasSuffix(base, "ConstructorConstructor") {
		return nil
	}
	base = strings.TrimSuffix(base, "Constructor")
	dir, ok := m.reg.ComponentDir(base)
	if !ok {
		return nil
	}
	return []string{"bindings/" + dir + "/v8/V8" + base + ".h"}
}

// AddIncludesForType records IncludesForType(t).
func (m *Mapper) AddIncludesForType(t types.Type) {
	m.decls.Add(m.IncludesForType(t)...)
}

// AddIncludesForInterface records the wrapper header of a named interface.
func (m *Mapper) AddIncludesForInterface(name string) {
	m.AddIncludesForType(m.reg.Named(name))
}

// ImplIncludesForType returns the headers the native implementation of a
// dictionary member of type t needs.
func (m *Mapper) ImplIncludesForType(t types.Type) []string {
	var out []string
	if !types.CppTypeHasNullValue(t) {
		out = append(out, "bindings/core/v8/Nullable.h")
	}
	t = Preprocess(t)
	if elem, ok := types.NativeArrayElementType(t); ok {
		out = append(out, m.ImplIncludesForType(elem)...)
		out = append(out, "wtf/Vector.h")
	}
	base := types.Base(t)
	if types.IsStringType(t) {
		out = append(out, "wtf/text/WTFString.h")
	}
	if path, ok := m.reg.IncludePath(base); ok {
		out = append(out, path)
	}
	out = append(out, includesForType[base]...)
	return out
}
