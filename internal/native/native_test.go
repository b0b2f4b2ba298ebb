package native

import (
	"errors"
	"strings"
	"testing"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/types"
)

func testMapper() *Mapper {
	reg := types.NewRegistry(types.Config{
		Interfaces:             []string{"Node", "Blob", "Element", "EventTarget"},
		Dictionaries:           []string{"InitDict"},
		Enums:                  map[string][]string{"Mode": {"open", "closed"}},
		CallbackFunctions:      []string{"FrameCallback"},
		GarbageCollected:       []string{"Blob"},
		WillBeGarbageCollected: []string{"Node"},
		ImplementedAs:          map[string]string{"Element": "ElementImpl"},
		ComponentDirs:          map[string]string{"Node": "core", "Blob": "core", "Element": "core"},
		IncludePaths:           map[string]string{"Node": "core/dom/Node.h"},
	})
	return NewMapper(reg, NewDeclarations())
}

func parse(t *testing.T, m *Mapper, desc string) types.Type {
	t.Helper()
	typ, err := m.Registry().Parse(desc)
	if err != nil {
		t.Fatalf("parse %q: %v", desc, err)
	}
	return typ
}

func cppType(t *testing.T, m *Mapper, desc string, u Usage) string {
	t.Helper()
	got, err := m.CppType(parse(t, m, desc), u)
	if err != nil {
		t.Fatalf("CppType(%s): %v", desc, err)
	}
	return got
}

func TestSignedIntegerCollapse(t *testing.T) {
	m := testMapper()
	for _, desc := range []string{"byte", "short", "long"} {
		if got := cppType(t, m, desc, Usage{}); got != "int" {
			t.Errorf("%s: got %q, want int", desc, got)
		}
	}
	for _, desc := range []string{"octet", "unsigned short", "unsigned long"} {
		if got := cppType(t, m, desc, Usage{}); got != "unsigned" {
			t.Errorf("%s: got %q, want unsigned", desc, got)
		}
	}
	if got := cppType(t, m, "long long", Usage{}); got != "long long" {
		t.Errorf("long long: got %q", got)
	}
}

func unwrapVector(t *testing.T, s string) string {
	t.Helper()
	for _, prefix := range []string{"Vector<", "HeapVector<", "WillBeHeapVector<"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			rest = strings.TrimSuffix(rest, ">")
			return strings.TrimSuffix(rest, " ")
		}
	}
	t.Fatalf("%q is not a vector", s)
	return ""
}

func TestArrayElementRoundTrip(t *testing.T) {
	m := testMapper()
	for _, desc := range []string{"long", "DOMString", "double", "boolean", "Node", "Blob", "Element", "sequence<long>"} {
		direct := cppType(t, m, desc, Usage{InContainer: true})
		for _, container := range []string{desc + "[]", "sequence<" + desc + ">"} {
			if got := unwrapVector(t, cppType(t, m, container, Usage{})); got != direct {
				t.Errorf("%s: element %q, direct %q", container, got, direct)
			}
		}
	}
}

func TestInterfacePointerFlavours(t *testing.T) {
	m := testMapper()
	cases := []struct {
		desc string
		u    Usage
		want string
	}{
		{"Element", Usage{}, "RefPtr<ElementImpl>"},
		{"Element", Usage{RValue: true}, "PassRefPtr<ElementImpl>"},
		{"Element", Usage{Raw: true}, "ElementImpl*"},
		{"Node", Usage{}, "RefPtrWillBeRawPtr<Node>"},
		{"Node", Usage{InContainer: true}, "RefPtrWillBeMember<Node>"},
		{"Blob", Usage{}, "RawPtr<Blob>"},
		{"Blob", Usage{InContainer: true}, "Member<Blob>"},
		{"Blob[]", Usage{}, "HeapVector<Member<Blob> >"},
		{"Node[]", Usage{RValue: true}, "const WillBeHeapVector<RefPtrWillBeMember<Node> >&"},
		{"long", Usage{Variadic: true}, "Vector<int>"},
		{"EventListener", Usage{RValue: true}, "PassRefPtr<EventListener>"},
		{"EventHandler", Usage{}, "EventListener*"},
		{"Dictionary", Usage{}, "Dictionary"},
		{"Promise", Usage{}, "ScriptPromise"},
		{"any", Usage{}, "ScriptValue"},
		{"FrameCallback", Usage{}, "ScriptValue"},
		{"Mode", Usage{}, "String"},
		{"Uint8Array", Usage{Raw: true}, "Uint8Array*"},
		{"InitDict", Usage{}, "InitDict"},
		{"(Node or DOMString)", Usage{}, "NodeOrString"},
		{"long{DOMString}", Usage{}, "Vector<std::pair<String, int> >"},
		{"unrestricted double", Usage{}, "double"},
	}
	for _, c := range cases {
		if got := cppType(t, m, c.desc, c.u); got != c.want {
			t.Errorf("%s %+v: got %q, want %q", c.desc, c.u, got, c.want)
		}
	}
}

func TestStringModes(t *testing.T) {
	m := testMapper()
	raw := func(desc string, ext extattr.Set) string {
		return cppType(t, m, desc, Usage{Raw: true, Ext: ext})
	}
	if got := raw("DOMString", extattr.Set{}); got != "V8StringResource<>" {
		t.Errorf("default mode: %q", got)
	}
	if got := raw("DOMString", extattr.Set{}.With(extattr.TreatNullAs, "EmptyString")); got != "V8StringResource<TreatNullAsEmptyString>" {
		t.Errorf("empty string mode: %q", got)
	}
	if got := raw("DOMString?", extattr.Set{}); got != "V8StringResource<TreatNullAsNullString>" {
		t.Errorf("nullable mode: %q", got)
	}
	ext := extattr.Set{}.With(extattr.TreatNullAs, "NullString").With(extattr.TreatUndefinedAs, "NullString")
	if got := raw("DOMString", ext); got != "V8StringResource<TreatNullAndUndefinedAsNullString>" {
		t.Errorf("null and undefined mode: %q", got)
	}
}

func TestMappingErrors(t *testing.T) {
	m := testMapper()
	_, err := m.CppType(parse(t, m, "sequence<Unknown>"), Usage{})
	if !errors.Is(err, diag.ErrMapping) || !strings.Contains(err.Error(), "Unknown") {
		t.Fatalf("expected mapping error naming the type, got %v", err)
	}
	_, err = m.CppType(parse(t, m, "(Node or DOMString)"), Usage{Variadic: true})
	if e, ok := diag.AsError(err); !ok || e.Code != diag.MapVariadicComposite {
		t.Fatalf("expected variadic composite error, got %v", err)
	}
	_, err = m.CppType(parse(t, m, "InitDict"), Usage{Variadic: true})
	if !errors.Is(err, diag.ErrMapping) {
		t.Fatalf("expected variadic dictionary error, got %v", err)
	}
	ext := extattr.Of(extattr.EnforceRange, extattr.Clamp)
	_, err = m.ToNative(parse(t, m, "long"), ext, "info[0]", NativeOptions{Index: 0})
	if e, ok := diag.AsError(err); !ok || e.Code != diag.MapRangeConflict {
		t.Fatalf("expected range conflict, got %v", err)
	}
}

func TestToNative(t *testing.T) {
	m := testMapper()
	cases := []struct {
		desc string
		ext  extattr.Set
		opts NativeOptions
		want string
	}{
		{"long", extattr.Set{}, NativeOptions{}, "toInt32(v, exceptionState)"},
		{"long", extattr.Of(extattr.Clamp), NativeOptions{}, "toInt32(v, Clamp, exceptionState)"},
		{"octet", extattr.Of(extattr.EnforceRange), NativeOptions{}, "toUInt8(v, EnforceRange, exceptionState)"},
		{"boolean", extattr.Set{}, NativeOptions{}, "v->BooleanValue()"},
		{"DOMString", extattr.Set{}, NativeOptions{}, "v"},
		{"Node", extattr.Set{}, NativeOptions{TypeCheck: true}, "V8Node::toImplWithTypeCheck(info.GetIsolate(), v)"},
		{"Node", extattr.Set{}, NativeOptions{}, "V8Node::toImpl(v8::Handle<v8::Object>::Cast(v))"},
		{"Uint8Array", extattr.Set{}, NativeOptions{}, "v->IsUint8Array() ? V8Uint8Array::toImpl(v8::Handle<v8::Uint8Array>::Cast(v)) : 0"},
		{"InitDict", extattr.Set{}, NativeOptions{Variable: "dict"}, "V8InitDict::toImpl(info.GetIsolate(), v, dict, exceptionState)"},
		{"long[]", extattr.Set{}, NativeOptions{Index: 1}, "toImplArray<int>(v, 2, info.GetIsolate(), exceptionState)"},
		{"sequence<Node>", extattr.Set{}, NativeOptions{Index: -1}, "(toRefPtrWillBeMemberNativeArray<Node, V8Node>(v, 0, info.GetIsolate(), exceptionState))"},
		{"sequence<Blob>", extattr.Set{}, NativeOptions{Index: 0}, "(toMemberNativeArray<Blob, V8Blob>(v, 1, info.GetIsolate(), exceptionState))"},
	}
	for _, c := range cases {
		got, err := m.ToNative(parse(t, m, c.desc), c.ext, "v", c.opts)
		if err != nil {
			t.Fatalf("%s: %v", c.desc, err)
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.desc, got, c.want)
		}
	}
	if !m.Declarations().Contains("bindings/core/v8/V8Node.h") {
		t.Fatalf("expected wrapper include, got %v", m.Declarations().Includes())
	}
}

func TestToLocal(t *testing.T) {
	m := testMapper()
	got, err := m.ToLocal(parse(t, m, "long"), extattr.Set{}, "info[0]", LocalOptions{Variable: "x", Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := "TONATIVE_VOID_EXCEPTIONSTATE(int, x, toInt32(info[0], exceptionState), exceptionState)"; got != want {
		t.Errorf("long: got %q, want %q", got, want)
	}

	got, err = m.ToLocal(parse(t, m, "DOMString"), extattr.Set{}, "info[0]", LocalOptions{Variable: "s"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "TOSTRING_VOID(V8StringResource<>, s, info[0])"; got != want {
		t.Errorf("string: got %q, want %q", got, want)
	}

	got, err = m.ToLocal(parse(t, m, "DOMString"), extattr.Set{}, "info[0]", LocalOptions{Variable: "s", Assign: true, ReturnPromise: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := "TOSTRING_VOID_EXCEPTIONSTATE_PROMISE_INTERNAL(s, info[0], exceptionState, info, ScriptState::current(info.GetIsolate()))"; got != want {
		t.Errorf("promise string: got %q, want %q", got, want)
	}

	got, err = m.ToLocal(parse(t, m, "boolean"), extattr.Set{}, "v8Value", LocalOptions{Variable: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "bool b = v8Value->BooleanValue()"; got != want {
		t.Errorf("boolean: got %q, want %q", got, want)
	}

	got, err = m.ToLocal(parse(t, m, "EventHandler"), extattr.Set{}, "v8Value", LocalOptions{Variable: "h"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "/* no V8 -> C++ conversion") {
		t.Errorf("event handler: got %q", got)
	}

	got, err = m.ToLocal(parse(t, m, "InitDict"), extattr.Set{}, "info[0]", LocalOptions{Variable: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "TONATIVE_VOID_EXCEPTIONSTATE_ARGINTERNAL(V8InitDict::toImpl(info.GetIsolate(), info[0], d, exceptionState), exceptionState)"; got != want {
		t.Errorf("dictionary: got %q, want %q", got, want)
	}
}

func TestToHostAndReturnValue(t *testing.T) {
	m := testMapper()
	toHost := func(desc, value string, ext extattr.Set) string {
		got, err := m.ToHost(parse(t, m, desc), value, ext, "", "")
		if err != nil {
			t.Fatalf("%s: %v", desc, err)
		}
		return got
	}
	if got := toHost("long", "x", extattr.Set{}); got != "v8::Integer::New(info.GetIsolate(), x)" {
		t.Errorf("long: %q", got)
	}
	if got := toHost("unsigned long long", "x", extattr.Set{}); got != "v8::Number::New(info.GetIsolate(), static_cast<double>(x))" {
		t.Errorf("unsigned long long: %q", got)
	}
	if got := toHost("DOMString?", "s", extattr.Set{}); got != "s.isNull() ? v8::Handle<v8::Value>(v8::Null(info.GetIsolate())) : v8String(info.GetIsolate(), s)" {
		t.Errorf("nullable string: %q", got)
	}
	if got := toHost("DOMString", "s", extattr.Set{}.With(extattr.TreatReturnedNullStringAs, "Undefined")); got != "s.isNull() ? v8Undefined() : v8String(info.GetIsolate(), s)" {
		t.Errorf("undefined string: %q", got)
	}
	if got := toHost("Node", "n", extattr.Set{}); got != "toV8(n, info.Holder(), info.GetIsolate())" {
		t.Errorf("wrapper: %q", got)
	}
	reflected := toHost("unsigned long", "impl->getUnsignedIntegralAttribute(HTMLNames::sizeAttr)", extattr.Of(extattr.Reflect))
	if reflected != "v8::Integer::NewFromUnsigned(info.GetIsolate(), std::max(0, static_cast<int>(impl->getIntegralAttribute(HTMLNames::sizeAttr))))" {
		t.Errorf("reflected: %q", reflected)
	}

	set := func(desc string, opts ReturnOptions) string {
		got, err := m.SetReturnValue(parse(t, m, desc), "v", extattr.Set{}, opts)
		if err != nil {
			t.Fatalf("%s: %v", desc, err)
		}
		return got
	}
	if got := set("Node", ReturnOptions{}); got != "v8SetReturnValue(info, v)" {
		t.Errorf("default wrapper: %q", got)
	}
	if got := set("Node", ReturnOptions{ScriptWrappable: "impl"}); got != "v8SetReturnValueFast(info, WTF::getPtr(v), impl)" {
		t.Errorf("fast wrapper: %q", got)
	}
	if got := set("Node", ReturnOptions{ScriptWrappable: "impl", ForMainWorld: true, Release: true}); got != "v8SetReturnValueForMainWorld(info, WTF::getPtr(v.release()))" {
		t.Errorf("main world wrapper: %q", got)
	}
	if got := set("long[]", ReturnOptions{}); got != "v8SetReturnValue(info, v8Array(v, info.Holder(), info.GetIsolate()))" {
		t.Errorf("array: %q", got)
	}
	if got := set("void", ReturnOptions{}); got != "" {
		t.Errorf("void: %q", got)
	}
	if got := set("Promise", ReturnOptions{}); got != "v8SetReturnValue(info, v.v8Value())" {
		t.Errorf("promise: %q", got)
	}
}

func TestInitializerAndLiteral(t *testing.T) {
	m := testMapper()
	cases := map[string]string{
		"long":      " = 0",
		"boolean":   " = false",
		"DOMString": "",
		"Node":      " = nullptr",
		"long[]":    "",
		"any":       "",
		"Mode":      "",
	}
	for desc, want := range cases {
		if got := m.Initializer(parse(t, m, desc)); got != want {
			t.Errorf("%s: got %q, want %q", desc, got, want)
		}
	}
	if got := Literal(parse(t, m, "unsigned short"), "3"); got != "3u" {
		t.Errorf("unsigned literal: %q", got)
	}
	if got := Literal(parse(t, m, "long"), "3"); got != "3" {
		t.Errorf("signed literal: %q", got)
	}
}

func TestImplIncludes(t *testing.T) {
	m := testMapper()
	got := m.ImplIncludesForType(parse(t, m, "Node[]"))
	want := []string{"bindings/core/v8/Nullable.h", "core/dom/Node.h", "wtf/Vector.h"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}
