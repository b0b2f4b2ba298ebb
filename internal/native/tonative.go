package native

import (
	"fmt"
	"strings"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/types"
)

const defaultIsolate = "info.GetIsolate()"

var v8ValueToCppValue = map[string]string{
	// basic
	"Date":                "toCoreDate({v8_value})",
	"DOMString":           "{v8_value}",
	"ByteString":          "toByteString({arguments})",
	"USVString":           "toUSVString({arguments})",
	"boolean":             "{v8_value}->BooleanValue()",
	"float":               "toFloat({arguments})",
	"unrestricted float":  "toFloat({arguments})",
	"double":              "toDouble({arguments})",
	"unrestricted double": "toDouble({arguments})",
	"byte":                "toInt8({arguments})",
	"octet":               "toUInt8({arguments})",
	"short":               "toInt16({arguments})",
	"unsigned short":      "toUInt16({arguments})",
	"long":                "toInt32({arguments})",
	"unsigned long":       "toUInt32({arguments})",
	"long long":           "toInt64({arguments})",
	"unsigned long long":  "toUInt64({arguments})",
	// interfaces
	"Dictionary":            "Dictionary({v8_value}, {isolate})",
	"EventTarget":           "V8DOMWrapper::isDOMWrapper({v8_value}) ? toWrapperTypeInfo(v8::Handle<v8::Object>::Cast({v8_value}))->toEventTarget(v8::Handle<v8::Object>::Cast({v8_value})) : 0",
	"NodeFilter":            "toNodeFilter({v8_value}, info.Holder(), ScriptState::current({isolate}))",
	"Promise":               "ScriptPromise::cast(ScriptState::current({isolate}), {v8_value})",
	"SerializedScriptValue": "SerializedScriptValue::create({v8_value}, 0, 0, exceptionState, {isolate})",
	"ScriptValue":           "ScriptValue(ScriptState::current({isolate}), {v8_value})",
	"Window":                "toDOMWindow({v8_value}, {isolate})",
	"XPathNSResolver":       "toXPathNSResolver({isolate}, {v8_value})",
}

var trivialConversions = map[string]bool{
	"any":             true,
	"boolean":         true,
	"Date":            true,
	"Dictionary":      true,
	"NodeFilter":      true,
	"XPathNSResolver": true,
	"Promise":         true,
	"ScriptValue":     true,
}

// NeedsExceptionState reports conversions that can throw.
func NeedsExceptionState(t types.Type) bool {
	if types.IsArrayOrSequence(t) || types.IsUnion(t) || types.IsRecord(t) {
		return true
	}
	if types.IsNumericType(t) || types.IsDictionary(t) {
		return true
	}
	switch types.Name(types.Inner(t)) {
	case "ByteString", "USVString", "SerializedScriptValue":
		return true
	}
	return false
}

// IsTrivialConversion reports conversions that are a plain expression and
// cannot throw.
func IsTrivialConversion(t types.Type) bool {
	return trivialConversions[types.Base(t)] || types.IsWrapperType(t)
}

// NativeOptions parameterises host to native conversion.
type NativeOptions struct {
	// Variable receives dictionary and union results.
	Variable string
	// Index is the zero based argument index, or -1 for setters.
	Index int
	// TypeCheck selects the type-checked wrapper conversion.
	TypeCheck bool
	Isolate   string
}

func checkRange(ext extattr.Set) error {
	if ext.Has(extattr.EnforceRange) && ext.Has(extattr.Clamp) {
		return mappingError(diag.MapRangeConflict, "[EnforceRange] and [Clamp] cannot both be specified")
	}
	return nil
}

// ToNative returns the expression converting v8Value into a native value of
// type t.
func (m *Mapper) ToNative(t types.Type, ext extattr.Set, v8Value string, opts NativeOptions) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	if err := checkRange(ext); err != nil {
		return "", err
	}
	return m.toNative(t, ext, v8Value, opts)
}

func (m *Mapper) toNative(t types.Type, ext extattr.Set, v8Value string, opts NativeOptions) (string, error) {
	if opts.Isolate == "" {
		opts.Isolate = defaultIsolate
	}
	if types.Name(t) == "Void" {
		return "", nil
	}
	if elem, ok := types.NativeArrayElementType(t); ok {
		return m.toNativeArray(elem, v8Value, opts.Index, opts.Isolate)
	}
	if rec, ok := types.Inner(t).(types.RecordType); ok {
		value, err := m.cppType(rec.Value, Usage{InContainer: true})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("toImplRecord<%s>(%s, %d, %s, exceptionState)", value, v8Value, humanIndex(opts.Index), opts.Isolate), nil
	}

	t = Preprocess(t)
	m.AddIncludesForType(t)
	base := types.Base(t)
	if types.IsUnion(t) {
		base = types.Name(types.Inner(t))
	}

	var arguments string
	switch {
	case ext.Has(extattr.EnforceRange):
		arguments = strings.Join([]string{v8Value, "EnforceRange", "exceptionState"}, ", ")
	case ext.Has(extattr.Clamp):
		arguments = strings.Join([]string{v8Value, "Clamp", "exceptionState"}, ", ")
	case NeedsExceptionState(t):
		arguments = v8Value + ", exceptionState"
	default:
		arguments = v8Value
	}

	format, ok := v8ValueToCppValue[base]
	switch {
	case ok:
	case types.IsArrayBufferOrView(t):
		format = "{v8_value}->Is{idl_type}() ? V8{idl_type}::toImpl(v8::Handle<v8::{idl_type}>::Cast({v8_value})) : 0"
	case types.IsDictionary(t) || types.IsUnion(t):
		format = "V8{idl_type}::toImpl({isolate}, {v8_value}, {variable_name}, exceptionState)"
	case opts.TypeCheck:
		format = "V8{idl_type}::toImplWithTypeCheck({isolate}, {v8_value})"
	default:
		format = "V8{idl_type}::toImpl(v8::Handle<v8::Object>::Cast({v8_value}))"
	}
	r := strings.NewReplacer(
		"{arguments}", arguments,
		"{idl_type}", base,
		"{v8_value}", v8Value,
		"{variable_name}", opts.Variable,
		"{isolate}", opts.Isolate,
	)
	return r.Replace(format), nil
}

// humanIndex turns an argument index into the 1-based form used in
// exception messages; setters use 0.
func humanIndex(index int) int {
	if index < 0 {
		return 0
	}
	return index + 1
}

func (m *Mapper) toNativeArray(elem types.Type, v8Value string, index int, isolate string) (string, error) {
	idx := humanIndex(index)
	if types.IsInterfaceType(elem) && types.Name(elem) != "Dictionary" {
		m.AddIncludesForType(elem)
		refPtr := cppPtrType("RefPtr", "Member", m.reg.GCType(elem))
		name := types.Name(elem)
		return fmt.Sprintf("(to%sNativeArray<%s, V8%s>(%s, %d, %s, exceptionState))", refPtr, name, name, v8Value, idx, isolate), nil
	}
	cpp, err := m.cppType(elem, Usage{})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("toImplArray<%s>(%s, %d, %s, exceptionState)", cpp, v8Value, idx, isolate), nil
}

// LocalOptions parameterises ToLocal.
type LocalOptions struct {
	Variable  string
	Index     int
	TypeCheck bool
	// Assign stores into an existing variable instead of declaring one.
	Assign        bool
	Isolate       string
	PrivateScript bool
	ReturnPromise bool
	// ExceptionStateForString routes string conversions through the
	// exception state.
	ExceptionStateForString bool
}

// ToLocal returns the statement that converts v8Value and stores it in a
// local variable.
func (m *Mapper) ToLocal(t types.Type, ext extattr.Set, v8Value string, opts LocalOptions) (string, error) {
	if err := checkResolved(t); err != nil {
		return "", err
	}
	if err := checkRange(ext); err != nil {
		return "", err
	}
	if opts.Isolate == "" {
		opts.Isolate = defaultIsolate
	}
	thisCppType, err := m.cppType(t, Usage{Ext: ext, Raw: true})
	if err != nil {
		return "", err
	}
	t = Preprocess(t)

	switch types.Base(t) {
	case "void", "object", "EventHandler", "EventListener":
		return fmt.Sprintf("/* no V8 -> C++ conversion for IDL type: %s */", types.Name(t)), nil
	}

	cppValue, err := m.toNative(t, ext, v8Value, NativeOptions{
		Variable:  opts.Variable,
		Index:     opts.Index,
		TypeCheck: opts.TypeCheck,
		Isolate:   opts.Isolate,
	})
	if err != nil {
		return "", err
	}

	if types.IsDictionary(t) || types.IsUnion(t) {
		return fmt.Sprintf("TONATIVE_VOID_EXCEPTIONSTATE_ARGINTERNAL(%s, exceptionState)", cppValue), nil
	}

	if types.IsStringType(t) || NeedsExceptionState(t) {
		return macroConversion(t, thisCppType, cppValue, opts), nil
	}

	if !IsTrivialConversion(t) {
		return "", mappingError(diag.MapUnsupportedConversion, "unclassified V8 -> C++ conversion for IDL type: %s", types.Name(t))
	}
	assignment := opts.Variable + " = " + cppValue
	if opts.Assign {
		return assignment, nil
	}
	return thisCppType + " " + assignment, nil
}

// macroConversion picks the TONATIVE_* or TOSTRING_* macro.
func macroConversion(t types.Type, cppType, cppValue string, opts LocalOptions) string {
	args := []string{opts.Variable, cppValue}

	var macro string
	switch {
	case NeedsExceptionState(t):
		macro = "TONATIVE_VOID_EXCEPTIONSTATE"
		if opts.PrivateScript {
			macro = "TONATIVE_DEFAULT_EXCEPTIONSTATE"
		}
	case opts.ReturnPromise || opts.ExceptionStateForString:
		macro = "TOSTRING_VOID_EXCEPTIONSTATE"
	default:
		macro = "TOSTRING_VOID"
		if opts.PrivateScript {
			macro = "TOSTRING_DEFAULT"
		}
	}
	withState := strings.HasSuffix(macro, "_EXCEPTIONSTATE")
	if withState {
		args = append(args, "exceptionState")
	}
	if opts.PrivateScript {
		args = append(args, "false")
	}

	suffix := ""
	if opts.ReturnPromise {
		suffix += "_PROMISE"
		args = append(args, "info")
		if withState {
			args = append(args, "ScriptState::current("+opts.Isolate+")")
		}
	}
	if opts.Assign {
		suffix += "_INTERNAL"
	} else {
		args = append([]string{cppType}, args...)
	}
	return macro + suffix + "(" + strings.Join(args, ", ") + ")"
}
