// Package native maps IDL types onto native (C++) type names and builds the
// conversion expressions between engine values and native values.
package native

import (
	"fmt"
	"strings"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/types"
)

// Mapper is bound to one definition run: the registry is shared and read
// only, the declarations accumulator belongs to the run.
type Mapper struct {
	reg   *types.Registry
	decls *Declarations
}

func NewMapper(reg *types.Registry, decls *Declarations) *Mapper {
	if decls == nil {
		decls = NewDeclarations()
	}
	return &Mapper{reg: reg, decls: decls}
}

func (m *Mapper) Registry() *types.Registry  { return m.reg }
func (m *Mapper) Declarations() *Declarations { return m.decls }

// Usage describes where a native type appears.
type Usage struct {
	Ext extattr.Set
	// Raw requests the conversion-local type (V8StringResource, Impl*).
	Raw bool
	// RValue marks arguments and return values.
	RValue bool
	// Variadic maps the argument type as the element of a vector.
	Variadic bool
	// InContainer marks elements of vectors, records and dictionaries.
	InContainer bool
}

var (
	sameAsIDLTypes = map[string]bool{
		"double": true, "float": true, "long long": true, "unsigned long long": true,
	}
	intTypes = map[string]bool{
		"byte": true, "long": true, "short": true,
	}
	unsignedTypes = map[string]bool{
		"octet": true, "unsigned int": true, "unsigned long": true, "unsigned short": true,
	}
	specialConversions = map[string]string{
		"Date":                "double",
		"Dictionary":          "Dictionary",
		"EventHandler":        "EventListener*",
		"NodeFilter":          "RefPtrWillBeRawPtr<NodeFilter>",
		"Promise":             "ScriptPromise",
		"ScriptValue":         "ScriptValue",
		"XPathNSResolver":     "RefPtrWillBeRawPtr<XPathNSResolver>",
		"boolean":             "bool",
		"unrestricted double": "double",
		"unrestricted float":  "float",
	}
	nonWrapperTypes = map[string]bool{
		"Dictionary": true, "EventHandler": true, "EventListener": true,
		"NodeFilter": true, "SerializedScriptValue": true,
	}
)

func mappingError(code diag.Code, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.KindMapping, code, format, args...)
}

// checkResolved rejects any type with an unresolved name anywhere inside.
func checkResolved(t types.Type) error {
	var bad string
	types.Walk(t, func(t types.Type) {
		if u, ok := t.(types.UnresolvedType); ok && bad == "" {
			bad = u.Base
		}
	})
	if bad != "" {
		return mappingError(diag.MapUnknownType, "no native representation for IDL type %q (in %s)", bad, t)
	}
	return nil
}

// Preprocess applies the internal substitutions: enums are strings, and
// any, object and callback functions are ScriptValue. Nullability is kept.
func Preprocess(t types.Type) types.Type {
	var out types.Type
	switch {
	case types.IsEnum(t):
		out = types.StringType{Base: "DOMString"}
	case types.IsCallbackFunction(t):
		out = types.BuiltinType{Base: "ScriptValue"}
	default:
		b, ok := types.Inner(t).(types.BuiltinType)
		if !ok || (b.Base != "any" && b.Base != "object") {
			return t
		}
		out = types.BuiltinType{Base: "ScriptValue"}
	}
	if types.IsNullable(t) {
		return types.NullableType{Inner: out}
	}
	return out
}

// CppType returns the native type for t in the given usage.
func (m *Mapper) CppType(t types.Type, u Usage) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	return m.cppType(t, u)
}

func (m *Mapper) cppType(t types.Type, u Usage) (string, error) {
	t = Preprocess(t)

	var elem types.Type
	if u.Variadic {
		if types.IsUnion(t) || types.IsDictionary(t) {
			return "", mappingError(diag.MapVariadicComposite, "variadic argument of type %s is not supported", t)
		}
		elem = t
	} else if e, ok := types.NativeArrayElementType(t); ok {
		elem = e
	}
	if elem != nil {
		inner, err := m.cppType(elem, Usage{InContainer: true})
		if err != nil {
			return "", err
		}
		vector := cppTemplateType(cppPtrType("Vector", "HeapVector", m.reg.GCType(elem)), inner)
		if u.RValue {
			return "const " + vector + "&", nil
		}
		return vector, nil
	}

	if rec, ok := types.Inner(t).(types.RecordType); ok {
		key, err := m.cppType(rec.Key, Usage{InContainer: true})
		if err != nil {
			return "", err
		}
		value, err := m.cppType(rec.Value, Usage{InContainer: true})
		if err != nil {
			return "", err
		}
		vector := cppTemplateType("Vector", cppTemplateType("std::pair", key+", "+value))
		if u.RValue {
			return "const " + vector + "&", nil
		}
		return vector, nil
	}

	base := types.Base(t)
	switch {
	case sameAsIDLTypes[base]:
		return base, nil
	case intTypes[base]:
		return "int", nil
	case unsignedTypes[base]:
		return "unsigned", nil
	}
	if special, ok := specialConversions[base]; ok {
		return special, nil
	}
	if nonWrapperTypes[base] {
		if u.RValue {
			return "PassRefPtr<" + base + ">", nil
		}
		return "RefPtr<" + base + ">", nil
	}
	if types.IsStringType(t) {
		if !u.Raw {
			return "String", nil
		}
		return "V8StringResource<" + stringMode(t, u.Ext) + ">", nil
	}
	if types.IsArrayBufferOrView(t) && u.Raw {
		return m.reg.ImplementedAs(base) + "*", nil
	}
	if types.IsInterfaceType(t) {
		impl := m.reg.ImplementedAs(base)
		if u.Raw {
			return impl + "*", nil
		}
		newType := "RawPtr"
		if u.InContainer {
			newType = "Member"
		}
		oldType := "RefPtr"
		if u.RValue {
			oldType = "PassRefPtr"
		}
		return cppTemplateType(cppPtrType(oldType, newType, m.reg.GCType(t)), impl), nil
	}
	if types.IsDictionary(t) {
		return base, nil
	}
	if types.IsUnion(t) {
		return types.Name(types.Inner(t)), nil
	}
	if base == "void" {
		return "void", nil
	}
	if base == "" {
		return "", mappingError(diag.MapUnknownType, "no native representation for IDL type %s", t)
	}
	return base + "*", nil
}

// stringMode selects the V8StringResource null handling.
func stringMode(t types.Type, ext extattr.Set) string {
	if ext.TreatNullAs() == "EmptyString" {
		return "TreatNullAsEmptyString"
	}
	if types.IsNullable(t) || ext.TreatNullAs() == "NullString" {
		if ext.TreatUndefinedAs() == "NullString" {
			return "TreatNullAndUndefinedAsNullString"
		}
		return "TreatNullAsNullString"
	}
	return ""
}

// cppTemplateType specialises template with inner, keeping ">>" apart.
func cppTemplateType(template, inner string) string {
	if strings.HasSuffix(inner, ">") {
		return fmt.Sprintf("%s<%s >", template, inner)
	}
	return fmt.Sprintf("%s<%s>", template, inner)
}

// cppPtrType picks the pointer or container flavour for a GC class.
func cppPtrType(oldType, newType string, gc types.GCType) string {
	switch gc {
	case types.GarbageCollected:
		return newType
	case types.WillBeGarbageCollected:
		if oldType == "Vector" {
			return "WillBe" + newType
		}
		return oldType + "WillBe" + newType
	default:
		return oldType
	}
}

// TemplateType is the exported form of cppTemplateType for context builders.
func TemplateType(template, inner string) string {
	return cppTemplateType(template, inner)
}

// PointerType returns class wrapped in the pointer flavour matching gc, e.g.
// PointerType("PassRefPtr", "RawPtr", WillBeGarbageCollected, "Node") is
// "PassRefPtrWillBeRawPtr<Node>".
func PointerType(oldType, newType string, gc types.GCType, class string) string {
	return cppTemplateType(cppPtrType(oldType, newType, gc), class)
}

// Initializer returns the C++ initialisation suffix for a local of type t.
func (m *Mapper) Initializer(t types.Type) string {
	t = Preprocess(t)
	if _, ok := types.NativeArrayElementType(t); ok {
		return ""
	}
	if types.IsUnion(t) || types.IsRecord(t) || types.IsDictionary(t) {
		return ""
	}
	base := types.Base(t)
	switch {
	case types.IsNumericType(t):
		return " = 0"
	case base == "boolean":
		return " = false"
	case nonWrapperTypes[base], specialConversions[base] != "", types.IsStringType(t):
		return ""
	}
	return " = nullptr"
}

// Literal converts an IDL literal into a C++ literal of type t.
func Literal(t types.Type, value string) string {
	if unsignedTypes[types.Base(t)] {
		return value + "u"
	}
	return value
}

// UseOutputParameter reports types returned through an out parameter.
func UseOutputParameter(t types.Type) bool {
	return types.IsDictionary(t) || types.IsUnion(t)
}

// IsRelease reports whether return values of t are released into the
// wrapper.
func IsRelease(t types.Type) bool {
	return types.IsInterfaceType(t) && !types.IsUnion(t)
}
