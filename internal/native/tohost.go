package native

import (
	"strings"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/types"
)

const defaultCreationContext = "info.Holder()"

var v8SetReturnValue = map[string]string{
	"boolean":           "v8SetReturnValueBool(info, {cpp_value})",
	"int":               "v8SetReturnValueInt(info, {cpp_value})",
	"unsigned":          "v8SetReturnValueUnsigned(info, {cpp_value})",
	"DOMString":         "v8SetReturnValueString(info, {cpp_value}, info.GetIsolate())",
	"ByteString":        "v8SetReturnValueString(info, {cpp_value}, info.GetIsolate())",
	"USVString":         "v8SetReturnValueString(info, {cpp_value}, info.GetIsolate())",
	"StringOrNull":      "v8SetReturnValueStringOrNull(info, {cpp_value}, info.GetIsolate())",
	"StringOrUndefined": "v8SetReturnValueStringOrUndefined(info, {cpp_value}, info.GetIsolate())",
	"void":              "",
	// set directly
	"float":               "v8SetReturnValue(info, {cpp_value})",
	"unrestricted float":  "v8SetReturnValue(info, {cpp_value})",
	"double":              "v8SetReturnValue(info, {cpp_value})",
	"unrestricted double": "v8SetReturnValue(info, {cpp_value})",
	// converted first, then set
	"array":                 "v8SetReturnValue(info, {cpp_value})",
	"record":                "v8SetReturnValue(info, {cpp_value})",
	"Date":                  "v8SetReturnValue(info, {cpp_value})",
	"EventHandler":          "v8SetReturnValue(info, {cpp_value})",
	"ScriptValue":           "v8SetReturnValue(info, {cpp_value})",
	"SerializedScriptValue": "v8SetReturnValue(info, {cpp_value})",
	// wrappers
	"DOMWrapperForMainWorld": "v8SetReturnValueForMainWorld(info, WTF::getPtr({cpp_value}))",
	"DOMWrapperFast":         "v8SetReturnValueFast(info, WTF::getPtr({cpp_value}), {script_wrappable})",
	"DOMWrapperDefault":      "v8SetReturnValue(info, {cpp_value})",
	"DictionaryOrUnion":      "v8SetReturnValue(info, result)",
}

var cppValueToV8Value = map[string]string{
	"Date":                "v8DateOrNaN({cpp_value}, {isolate})",
	"DOMString":           "v8String({isolate}, {cpp_value})",
	"ByteString":          "v8String({isolate}, {cpp_value})",
	"USVString":           "v8String({isolate}, {cpp_value})",
	"boolean":             "v8Boolean({cpp_value}, {isolate})",
	"int":                 "v8::Integer::New({isolate}, {cpp_value})",
	"unsigned":            "v8::Integer::NewFromUnsigned({isolate}, {cpp_value})",
	"float":               "v8::Number::New({isolate}, {cpp_value})",
	"unrestricted float":  "v8::Number::New({isolate}, {cpp_value})",
	"double":              "v8::Number::New({isolate}, {cpp_value})",
	"unrestricted double": "v8::Number::New({isolate}, {cpp_value})",
	"void":                "v8Undefined()",
	"StringOrNull":        "{cpp_value}.isNull() ? v8::Handle<v8::Value>(v8::Null({isolate})) : v8String({isolate}, {cpp_value})",
	"StringOrUndefined":   "{cpp_value}.isNull() ? v8Undefined() : v8String({isolate}, {cpp_value})",
	// special cases
	"EventHandler":          "{cpp_value} ? v8::Handle<v8::Value>(V8AbstractEventListener::cast({cpp_value})->getListenerObject(impl->executionContext())) : v8::Handle<v8::Value>(v8::Null({isolate}))",
	"ScriptValue":           "{cpp_value}.v8Value()",
	"SerializedScriptValue": "{cpp_value} ? {cpp_value}->deserialize() : v8::Handle<v8::Value>(v8::Null({isolate}))",
	// general
	"array":             "v8Array({cpp_value}, {creation_context}, {isolate})",
	"record":            "v8Record({cpp_value}, {creation_context}, {isolate})",
	"DOMWrapper":        "toV8({cpp_value}, {creation_context}, {isolate})",
	"DictionaryOrUnion": "toV8({cpp_value}, {creation_context}, {isolate})",
}

// preprocessForHost applies the host-side substitutions: Promise is
// returned as ScriptValue, 64-bit integers as double, and reflected
// unsigned attributes are clamped to [0, 2^31).
func preprocessForHost(t types.Type, cppValue string, ext extattr.Set) (types.Type, string) {
	t = Preprocess(t)
	if types.Name(t) == "Promise" {
		t = types.BuiltinType{Base: "ScriptValue"}
	}
	switch types.Base(t) {
	case "long long", "unsigned long long":
		nullable := types.IsNullable(t)
		t = types.PrimitiveType{Base: "double"}
		if nullable {
			t = types.NullableType{Inner: t}
		}
		cppValue = "static_cast<double>(" + cppValue + ")"
	}
	if ext.Has(extattr.Reflect) {
		switch types.Base(t) {
		case "unsigned long", "unsigned short":
			cppValue = strings.ReplaceAll(cppValue, "getUnsignedIntegralAttribute", "getIntegralAttribute")
			cppValue = "std::max(0, static_cast<int>(" + cppValue + "))"
		}
	}
	return t, cppValue
}

// ConversionType names the native to host conversion used for t, e.g.
// "int", "StringOrNull", "DOMWrapper" or "array".
func (m *Mapper) ConversionType(t types.Type, ext extattr.Set) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	return m.conversionType(t, ext)
}

func (m *Mapper) conversionType(t types.Type, ext extattr.Set) (string, error) {
	if types.IsDictionary(t) || types.IsUnion(t) {
		return "DictionaryOrUnion", nil
	}
	if elem, ok := types.NativeArrayElementType(t); ok {
		if types.IsInterfaceType(elem) {
			m.AddIncludesForType(elem)
		}
		return "array", nil
	}
	if types.IsRecord(t) {
		return "record", nil
	}

	base := types.Base(t)
	switch {
	case intTypes[base]:
		return "int", nil
	case unsignedTypes[base]:
		return "unsigned", nil
	}
	if types.IsStringType(t) {
		if types.IsNullable(t) {
			return "StringOrNull", nil
		}
		treat, ok := ext.Value(extattr.TreatReturnedNullStringAs)
		if !ok {
			return base, nil
		}
		switch treat {
		case "Null":
			return "StringOrNull", nil
		case "Undefined":
			return "StringOrUndefined", nil
		}
		return "", mappingError(diag.MapUnsupportedConversion, "unrecognized TreatReturnedNullStringAs value: %q", treat)
	}
	if types.IsBasicType(t) || base == "ScriptValue" {
		return base, nil
	}

	m.AddIncludesForType(t)
	if _, ok := v8SetReturnValue[base]; ok {
		return base, nil
	}
	return "DOMWrapper", nil
}

// ToHost returns the expression converting a native value into an engine
// value. Empty isolate and creationContext use the callback defaults.
func (m *Mapper) ToHost(t types.Type, cppValue string, ext extattr.Set, isolate, creationContext string) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	return m.toHost(t, cppValue, ext, isolate, creationContext)
}

func (m *Mapper) toHost(t types.Type, cppValue string, ext extattr.Set, isolate, creationContext string) (string, error) {
	if isolate == "" {
		isolate = defaultIsolate
	}
	if creationContext == "" {
		creationContext = defaultCreationContext
	}
	t, cppValue = preprocessForHost(t, cppValue, ext)
	conv, err := m.conversionType(t, ext)
	if err != nil {
		return "", err
	}
	format, ok := cppValueToV8Value[conv]
	if !ok {
		return "", mappingError(diag.MapUnsupportedConversion, "no C++ -> V8 conversion for IDL type %s", t)
	}
	r := strings.NewReplacer(
		"{cpp_value}", cppValue,
		"{isolate}", isolate,
		"{creation_context}", creationContext,
	)
	return r.Replace(format), nil
}

// ReturnOptions parameterises SetReturnValue.
type ReturnOptions struct {
	// ScriptWrappable enables the fast wrapper path when non-empty.
	ScriptWrappable string
	ForMainWorld    bool
	Release         bool
}

// SetReturnValue returns the statement storing cppValue as the callback's
// return value.
func (m *Mapper) SetReturnValue(t types.Type, cppValue string, ext extattr.Set, opts ReturnOptions) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	t, cppValue = preprocessForHost(t, cppValue, ext)
	conv, err := m.conversionType(t, ext)
	if err != nil {
		return "", err
	}
	switch conv {
	case "Date", "EventHandler", "ScriptValue", "SerializedScriptValue", "array", "record":
		cppValue, err = m.toHost(t, cppValue, ext, "", "")
		if err != nil {
			return "", err
		}
	case "DOMWrapper":
		switch {
		case opts.ScriptWrappable == "":
			conv = "DOMWrapperDefault"
		case opts.ForMainWorld:
			conv = "DOMWrapperForMainWorld"
		default:
			conv = "DOMWrapperFast"
		}
	}
	format, ok := v8SetReturnValue[conv]
	if !ok {
		return "", mappingError(diag.MapUnsupportedConversion, "no v8SetReturnValue form for IDL type %s", t)
	}
	if opts.Release {
		cppValue += ".release()"
	}
	r := strings.NewReplacer("{cpp_value}", cppValue, "{script_wrappable}", opts.ScriptWrappable)
	return r.Replace(format), nil
}
