package bindctx

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/testkit"
	"github.com/2gis/2gisqt5android/internal/trace"
	"github.com/2gis/2gisqt5android/internal/types"
)

func testRegistry() *types.Registry {
	return types.NewRegistry(types.Config{
		Interfaces:             []string{"EventTarget", "Node", "Element", "Document", "TestObject"},
		Dictionaries:           []string{"TestDict"},
		Enums:                  map[string][]string{"Mode": {"open", "closed"}},
		WillBeGarbageCollected: []string{"Node"},
		Parents:                map[string]string{"Node": "EventTarget", "Element": "Node", "Document": "Node"},
		ComponentDirs: map[string]string{
			"EventTarget": "core", "Node": "core", "Element": "core", "Document": "core", "TestObject": "core",
		},
		IncludePaths: map[string]string{"Node": "core/dom/Node.h"},
	})
}

func op(name, ret string, args ...*idl.Argument) *idl.Operation {
	return &idl.Operation{Name: name, ReturnType: ret, Arguments: args}
}

func arg(name, typ string) *idl.Argument {
	return &idl.Argument{Name: name, Type: typ}
}

func contexts(t *testing.T, v any) []Context {
	t.Helper()
	list, ok := v.([]Context)
	if !ok {
		t.Fatalf("expected []Context, got %T", v)
	}
	return list
}

func TestOverloadedMethodEndToEnd(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name: "TestObject",
		Operations: []*idl.Operation{
			op("f", "void", arg("x", "long")),
			op("f", "void", arg("x", "DOMString")),
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	methods := contexts(t, ctx["methods"])
	if len(methods) != 2 {
		t.Fatalf("methods = %d", len(methods))
	}
	if methods[0]["overload_index"] != 1 || methods[1]["overload_index"] != 2 {
		t.Fatalf("overload indexes %v %v", methods[0]["overload_index"], methods[1]["overload_index"])
	}
	if _, ok := methods[0]["overloads"]; ok {
		t.Fatalf("only the last overload carries the dispatch metadata")
	}
	ov, ok := methods[1]["overloads"].(Context)
	if !ok {
		t.Fatalf("overloads missing on last method")
	}
	if ov["minarg"] != 1 || ov["maxarg"] != 1 || ov["valid_arities"] != nil {
		t.Fatalf("overloads = %v", ov)
	}
	lengthTests := contexts(t, ov["length_tests"])
	if len(lengthTests) != 1 || lengthTests[0]["length"] != 1 {
		t.Fatalf("length tests = %v", lengthTests)
	}
	tests := contexts(t, lengthTests[0]["tests"])
	if len(tests) != 2 {
		t.Fatalf("tests = %v", tests)
	}
	// String fallback first, numeric fallback second.
	if tests[0]["test"] != "true" || tests[0]["overload_index"] != 2 {
		t.Errorf("first test = %v", tests[0])
	}
	if tests[1]["test"] != "true" || tests[1]["overload_index"] != 1 {
		t.Errorf("second test = %v", tests[1])
	}
	if methods[1]["length"] != 1 {
		t.Errorf("length = %v", methods[1]["length"])
	}
	if got := contexts(t, ctx["method_configuration_methods"]); len(got) != 1 || got[0]["overload_index"] != 2 {
		t.Errorf("method configuration bucket = %v", got)
	}
	if got := methods[0]["cpp_value"]; got != "impl->f(x)" {
		t.Errorf("cpp_value = %v", got)
	}

	longArg := contexts(t, methods[0]["arguments"])[0]
	if got, want := longArg["v8_value_to_local_cpp_value"], "TONATIVE_VOID_EXCEPTIONSTATE(int, x, toInt32(info[0], exceptionState), exceptionState)"; got != want {
		t.Errorf("long conversion = %v, want %v", got, want)
	}
	stringArg := contexts(t, methods[1]["arguments"])[0]
	if got, want := stringArg["v8_value_to_local_cpp_value"], "TOSTRING_VOID(V8StringResource<>, x, info[0])"; got != want {
		t.Errorf("string conversion = %v, want %v", got, want)
	}
}

func TestInterfaceIdentity(t *testing.T) {
	bag := diag.NewBag(10)
	b := NewBuilder(testRegistry(), Options{Reporter: diag.BagReporter{Bag: bag}, File: "Element.json"})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name:   "Element",
		Parent: "Node",
		ExtAttrs: idl.ExtAttrs{
			"WillBeGarbageCollected": "",
			"Conditional":            "B&A",
			"ActiveDOMObject":        "",
			"Bogus":                  "1",
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := map[string]any{
		"cpp_class":             "Element",
		"v8_class":              "V8Element",
		"parent_interface":      "Node",
		"gc_type":               "WillBeGarbageCollectedObject",
		"pass_cpp_type":         "PassRefPtrWillBeRawPtr<Element>",
		"conditional_string":    "ENABLE(A) && ENABLE(B)",
		"is_node":               true,
		"is_event_target":       true,
		"is_document":           false,
		"wrapper_configuration": "WrapperConfiguration::Dependent",
		"interface_length":      0,
	}
	for key, v := range want {
		if ctx[key] != v {
			t.Errorf("%s = %v, want %v", key, ctx[key], v)
		}
	}
	header, _ := ctx["header_includes"].([]string)
	if !slices.Contains(header, "bindings/core/v8/V8Node.h") || !slices.IsSorted(header) {
		t.Errorf("header includes = %v", header)
	}
	if cpp, _ := ctx["cpp_includes"].([]string); !slices.IsSorted(cpp) {
		t.Errorf("cpp includes not sorted: %v", cpp)
	}

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %v", items)
	}
	d := items[0]
	if d.Code != diag.ExtUnknownAttribute || d.Severity != diag.SevInfo || d.Primary.Definition != "Element" || d.Primary.File != "Element.json" {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestConstantsAndConstructors(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name:     "TestObject",
		ExtAttrs: idl.ExtAttrs{"RaisesException": "Constructor", "NamedConstructor": "Audio"},
		Constants: []*idl.Constant{
			{Name: "NAME", Type: "DOMString", Value: "x"},
			{Name: "ONE", Type: "unsigned short", Value: "1", ExtAttrs: idl.ExtAttrs{"Reflect": "one"}},
		},
		Constructors: []*idl.Operation{
			op("", "", arg("a", "long")),
			op("", "", arg("a", "DOMString"), &idl.Argument{Name: "b", Type: "long", IsOptional: true}),
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	consts := contexts(t, ctx["constants"])
	if consts[0]["value"] != `"x"` || consts[0]["reflected_name"] != "NAME" {
		t.Errorf("string constant = %v", consts[0])
	}
	if consts[1]["value"] != "1" || consts[1]["reflected_name"] != "one" {
		t.Errorf("reflected constant = %v", consts[1])
	}

	ctors := contexts(t, ctx["constructors"])
	if len(ctors) != 2 {
		t.Fatalf("constructors = %v", ctors)
	}
	if ctors[0]["cpp_value"] != "TestObject::create(a, exceptionState)" || ctors[0]["has_exception_state"] != true {
		t.Errorf("constructor = %v", ctors[0])
	}
	ov, ok := ctx["constructor_overloads"].(Context)
	if !ok {
		t.Fatalf("constructor overloads missing")
	}
	if ov["name"] != "Constructor" || ov["minarg"] != 1 || ov["maxarg"] != 2 {
		t.Errorf("constructor overloads = %v", ov)
	}
	if ctx["interface_length"] != 1 {
		t.Errorf("interface_length = %v", ctx["interface_length"])
	}
	named, ok := ctx["named_constructor"].(Context)
	if !ok || named["name"] != "Audio" || named["is_named_constructor"] != true {
		t.Fatalf("named constructor = %v", ctx["named_constructor"])
	}
	if named["cpp_value"] != "TestObject::create(exceptionState)" {
		t.Errorf("named constructor cpp_value = %v", named["cpp_value"])
	}
	if cpp, _ := ctx["cpp_includes"].([]string); !slices.Contains(cpp, "core/frame/LocalDOMWindow.h") {
		t.Errorf("constructor includes missing: %v", cpp)
	}
}

func TestAttributes(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name: "TestObject",
		Attributes: []*idl.Attribute{
			{Name: "url", Type: "DOMString", ExtAttrs: idl.ExtAttrs{"Reflect": "", "URL": ""}},
			{Name: "count", Type: "unsigned long", IsReadOnly: true, ExtAttrs: idl.ExtAttrs{"RuntimeEnabled": "FeatureX"}},
			{Name: "detail", Type: "any", IsReadOnly: true},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	attrs := contexts(t, ctx["attributes"])
	url, count := attrs[0], attrs[1]
	if url["cpp_value"] != "impl->getURLAttribute(HTMLNames::urlAttr)" || url["cpp_setter"] != "impl->setAttribute(HTMLNames::urlAttr, cppValue)" {
		t.Errorf("reflected attribute = %v / %v", url["cpp_value"], url["cpp_setter"])
	}
	if url["v8_value_to_local_cpp_value"] == nil {
		t.Errorf("writable attribute needs a setter conversion")
	}
	if count["cpp_value"] != "impl->count()" || count["v8_value_to_local_cpp_value"] != nil {
		t.Errorf("read only attribute = %v", count)
	}
	if count["runtime_enabled_function"] != "RuntimeEnabledFeatures::featureXEnabled" {
		t.Errorf("runtime enabled = %v", count["runtime_enabled_function"])
	}
	if got, _ := ctx["any_type_attributes"].([]string); !slices.Equal(got, []string{"detail"}) {
		t.Errorf("any_type_attributes = %v", got)
	}
	if ctx["has_accessors"] != true {
		t.Errorf("has_accessors = %v", ctx["has_accessors"])
	}
}

func TestSpecialOperations(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name: "TestObject",
		Operations: []*idl.Operation{
			{ReturnType: "Node", Specials: []string{"getter"}, Arguments: []*idl.Argument{arg("index", "unsigned long")}},
			{Name: "namedItem", ReturnType: "Node?", Specials: []string{"getter"}, Arguments: []*idl.Argument{arg("name", "DOMString")}},
			{ReturnType: "boolean", Specials: []string{"deleter"}, Arguments: []*idl.Argument{arg("name", "DOMString")}},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	indexed, ok := ctx["indexed_property_getter"].(Context)
	if !ok {
		t.Fatalf("indexed getter missing")
	}
	if indexed["name"] != "anonymousIndexedGetter" || indexed["cpp_value"] != "impl->anonymousIndexedGetter(index)" || indexed["is_null_expression"] != "!result" {
		t.Errorf("indexed getter = %v", indexed)
	}
	if named, _ := ctx["named_property_getter"].(Context); named == nil || named["name"] != "namedItem" {
		t.Errorf("named getter = %v", ctx["named_property_getter"])
	}
	if deleter, _ := ctx["named_property_deleter"].(Context); deleter == nil || deleter["name"] != "anonymousNamedDeleter" {
		t.Errorf("named deleter = %v", ctx["named_property_deleter"])
	}
	if ctx["indexed_property_setter"] != nil || ctx["indexed_property_deleter"] != nil {
		t.Errorf("unexpected indexed setter or deleter")
	}
	methods := contexts(t, ctx["methods"])
	if len(methods) != 1 || methods[0]["name"] != "namedItem" {
		t.Errorf("anonymous specials must not be methods: %v", methods)
	}
}

func TestDeleterMustReturnBoolean(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	_, err := b.BuildInterface(&idl.Interface{
		Name: "TestObject",
		Operations: []*idl.Operation{
			{ReturnType: "long", Specials: []string{"deleter"}, Arguments: []*idl.Argument{arg("index", "unsigned long")}},
		},
	})
	if !errors.Is(err, diag.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	e, _ := diag.AsError(err)
	if e.Location.Definition != "TestObject" || e.Location.Member != "anonymousIndexedDeleter" {
		t.Errorf("location = %+v", e.Location)
	}
}

func TestAmbiguousOverloadFails(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	_, err := b.BuildInterface(&idl.Interface{
		Name: "TestObject",
		Operations: []*idl.Operation{
			op("g", "void", arg("x", "long")),
			op("g", "void", arg("y", "long")),
		},
	})
	if !errors.Is(err, diag.ErrOverloadAmbiguity) {
		t.Fatalf("expected ambiguity, got %v", err)
	}
	e, _ := diag.AsError(err)
	if e.Location.Definition != "TestObject" || e.Location.Member != "g" || e.Arity != 1 {
		t.Errorf("error = %+v", e)
	}
}

func TestMappingErrorNamesMember(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	_, err := b.BuildInterface(&idl.Interface{
		Name:       "TestObject",
		Attributes: []*idl.Attribute{{Name: "thing", Type: "Bogus"}},
	})
	if !errors.Is(err, diag.ErrMapping) {
		t.Fatalf("expected mapping error, got %v", err)
	}
	if e, _ := diag.AsError(err); e.Location.Member != "thing" {
		t.Errorf("location = %+v", e.Location)
	}
}

func testDictionary() *idl.Dictionary {
	three, null := "3", "null"
	return &idl.Dictionary{
		Name: "TestDict",
		Members: []*idl.DictionaryMember{
			{Name: "zeta", Type: "long", Default: &three},
			{Name: "alpha", Type: "DOMString"},
			{Name: "mode", Type: "Mode"},
			{Name: "beta", Type: "long?", Default: &null},
		},
	}
}

func TestDictionary(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildDictionary(testDictionary())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	members := contexts(t, ctx["members"])
	var names []string
	for _, m := range members {
		names = append(names, m["name"].(string))
	}
	if !slices.Equal(names, []string{"alpha", "beta", "mode", "zeta"}) {
		t.Fatalf("members not sorted: %v", names)
	}
	zeta := members[3]
	if zeta["cpp_type"] != "int" || zeta["cpp_default_value"] != "3" || zeta["v8_default_value"] != "v8::Integer::New(isolate, 3)" {
		t.Errorf("zeta = %v", zeta)
	}
	if zeta["setter_name"] != "setZeta" || zeta["has_method_name"] != "hasZeta" {
		t.Errorf("zeta names = %v %v", zeta["setter_name"], zeta["has_method_name"])
	}
	if zeta["cpp_value_to_v8_value"] != "v8::Integer::New(isolate, impl.zeta())" {
		t.Errorf("zeta to v8 = %v", zeta["cpp_value_to_v8_value"])
	}
	if beta := members[1]; beta["v8_default_value"] != "v8::Null(isolate)" || beta["cpp_default_value"] != nil {
		t.Errorf("beta = %v", beta)
	}
	if mode := members[2]; mode["enum_validation_expression"] != `string == "open" || string == "closed"` {
		t.Errorf("mode = %v", mode["enum_validation_expression"])
	}
}

func TestDictionaryImpl(t *testing.T) {
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildDictionaryImpl(testDictionary())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	members := contexts(t, ctx["members"])
	if members[0]["name"] != "zeta" || members[3]["name"] != "beta" {
		t.Fatalf("impl members must keep declaration order")
	}
	zeta, alpha := members[0], members[1]
	if zeta["member_cpp_type"] != "Nullable<int>" || zeta["getter_expression"] != "m_zeta.get()" || zeta["has_method_expression"] != "!m_zeta.isNull()" {
		t.Errorf("zeta = %v", zeta)
	}
	if zeta["rvalue_cpp_type"] != "int" {
		t.Errorf("zeta rvalue = %v", zeta["rvalue_cpp_type"])
	}
	if alpha["member_cpp_type"] != "String" || alpha["getter_expression"] != "m_alpha" || alpha["has_method_expression"] != "!m_alpha.isNull()" {
		t.Errorf("alpha = %v", alpha)
	}
	header, _ := ctx["header_includes"].([]string)
	for _, want := range []string{"bindings/core/v8/Nullable.h", "platform/heap/Handle.h", "wtf/text/WTFString.h"} {
		if !slices.Contains(header, want) {
			t.Errorf("header includes lack %s: %v", want, header)
		}
	}
}

func TestDictionaryDefaultKeptVerbatim(t *testing.T) {
	five := "5"
	dict := &idl.Dictionary{
		Name:    "CountDict",
		Members: []*idl.DictionaryMember{{Name: "count", Type: "unsigned long", Default: &five}},
	}
	b := NewBuilder(testRegistry(), Options{})
	ctx, err := b.BuildDictionary(dict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := contexts(t, ctx["members"])[0]["cpp_default_value"]; got != "5" {
		t.Errorf("cpp_default_value = %v, want 5", got)
	}
	impl, err := b.BuildDictionaryImpl(dict)
	if err != nil {
		t.Fatalf("build impl: %v", err)
	}
	if got := contexts(t, impl["members"])[0]["cpp_default_value"]; got != "5" {
		t.Errorf("impl cpp_default_value = %v, want 5", got)
	}
}

func TestContextEncodesAndTraces(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	b := NewBuilder(testRegistry(), Options{Tracer: ring})
	ctx, err := b.BuildInterface(&idl.Interface{
		Name:     "TestObject",
		ExtAttrs: idl.ExtAttrs{"Bogus": ""},
		Operations: []*idl.Operation{
			op("f", "void", arg("x", "long")),
			op("f", "void", arg("x", "DOMString")),
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := json.Marshal(ctx); err != nil {
		t.Fatalf("context must encode: %v", err)
	}
	if err := testkit.CheckContext(ctx); err != nil {
		t.Fatalf("context holds a non-template value: %v", err)
	}

	var sawDefinition, sawUnknown bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Kind == trace.KindSpanEnd && ev.Name == "interface:TestObject":
			sawDefinition = ev.Detail == "ok"
		case ev.Kind == trace.KindPoint && ev.Name == "extattr.unknown":
			sawUnknown = ev.Detail == "Bogus"
		}
	}
	if !sawDefinition || !sawUnknown {
		t.Errorf("trace events missing: definition=%v unknown=%v", sawDefinition, sawUnknown)
	}
}
