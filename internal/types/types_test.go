package types

import (
	"errors"
	"testing"
)

func testRegistry() *Registry {
	return NewRegistry(Config{
		Interfaces:             []string{"Node", "Element", "Document", "Blob"},
		Dictionaries:           []string{"InitDict"},
		Enums:                  map[string][]string{"Mode": {"open", "closed"}},
		CallbackFunctions:      []string{"FrameCallback"},
		GarbageCollected:       []string{"Blob"},
		WillBeGarbageCollected: []string{"Node"},
		ImplementedAs:          map[string]string{"Document": "DocumentImpl"},
		Parents:                map[string]string{"Element": "Node", "Document": "Node"},
	})
}

func mustParse(t *testing.T, r *Registry, desc string) Type {
	t.Helper()
	typ, err := r.Parse(desc)
	if err != nil {
		t.Fatalf("parse %q: %v", desc, err)
	}
	return typ
}

func TestParseRecordOfArray(t *testing.T) {
	r := testRegistry()
	typ := mustParse(t, r, "uint8[]{string}")
	rec, ok := typ.(RecordType)
	if !ok {
		t.Fatalf("expected record, got %T", typ)
	}
	if Base(rec.Key) != "string" {
		t.Fatalf("unexpected key %s", rec.Key)
	}
	arr, ok := rec.Value.(ArrayType)
	if !ok {
		t.Fatalf("expected array value, got %T", rec.Value)
	}
	if Base(arr.Elem) != "uint8" {
		t.Fatalf("unexpected element %s", arr.Elem)
	}
	if got := typ.String(); got != "uint8[]{string}" {
		t.Fatalf("round trip: got %q", got)
	}
}

func TestParseRecordWithoutArray(t *testing.T) {
	r := testRegistry()
	typ := mustParse(t, r, "uint8{string}")
	rec, ok := typ.(RecordType)
	if !ok {
		t.Fatalf("expected record, got %T", typ)
	}
	if IsArrayOrSequence(rec.Value) {
		t.Fatalf("unexpected sequence layer in %s", typ)
	}
	if Base(rec.Value) != "uint8" || Base(rec.Key) != "string" {
		t.Fatalf("unexpected shape %s", typ)
	}
}

func TestParseComposite(t *testing.T) {
	r := testRegistry()
	typ := mustParse(t, r, "sequence<(Node or DOMString)?>")
	seq, ok := typ.(SequenceType)
	if !ok {
		t.Fatalf("expected sequence, got %T", typ)
	}
	if !IsNullable(seq.Elem) || !IsUnion(seq.Elem) {
		t.Fatalf("expected nullable union element, got %s", seq.Elem)
	}
	if got := Name(typ); got != "NodeOrStringOrNullSequence" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := mustParse(t, r, "unsigned  long long").String(); got != "unsigned long long" {
		t.Fatalf("whitespace not collapsed: %q", got)
	}
}

func TestParseRejects(t *testing.T) {
	r := testRegistry()
	for _, desc := range []string{
		"long??",
		"(Node or Node)",
		"(long or DOMString?)?",
		"",
		"sequence<long",
		"long-int",
	} {
		_, err := r.Parse(desc)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParseError for %q, got %v", desc, err)
		}
	}
}

func TestNamedResolution(t *testing.T) {
	r := testRegistry()
	cases := map[string]string{
		"long":            "types.PrimitiveType",
		"DOMString":       "types.StringType",
		"any":             "types.BuiltinType",
		"Node":            "types.InterfaceType",
		"InitDict":        "types.DictionaryType",
		"Mode":            "types.EnumType",
		"FrameCallback":   "types.CallbackType",
		"Float32Array":    "types.InterfaceType",
		"Missing":         "types.UnresolvedType",
		"NodeConstructor": "types.InterfaceType",
	}
	for name, want := range cases {
		if got := typeName(r.Named(name)); got != want {
			t.Errorf("%s: got %s, want %s", name, got, want)
		}
	}
}

func typeName(t Type) string {
	switch t.(type) {
	case PrimitiveType:
		return "types.PrimitiveType"
	case StringType:
		return "types.StringType"
	case BuiltinType:
		return "types.BuiltinType"
	case InterfaceType:
		return "types.InterfaceType"
	case DictionaryType:
		return "types.DictionaryType"
	case EnumType:
		return "types.EnumType"
	case CallbackType:
		return "types.CallbackType"
	case UnresolvedType:
		return "types.UnresolvedType"
	default:
		return "other"
	}
}

func TestNativeArrayElementType(t *testing.T) {
	r := testRegistry()
	for _, desc := range []string{"long", "Node", "DOMString?", "InitDict"} {
		elem := mustParse(t, r, desc)
		for _, container := range []Type{ArrayType{Elem: elem}, SequenceType{Elem: elem}} {
			got, ok := NativeArrayElementType(container)
			if !ok {
				t.Fatalf("%s: no element type", container)
			}
			if got.String() != elem.String() {
				t.Fatalf("%s: element %s, want %s", container, got, elem)
			}
		}
	}
	if _, ok := NativeArrayElementType(mustParse(t, r, "long")); ok {
		t.Fatalf("scalar reported an element type")
	}
}

func TestNullability(t *testing.T) {
	r := testRegistry()
	wrapper := mustParse(t, r, "Node?")
	if !IsImplicitNullable(wrapper) || IsExplicitNullable(wrapper) {
		t.Fatalf("wrapper nullable should be implicit")
	}
	numeric := mustParse(t, r, "long?")
	if IsImplicitNullable(numeric) || !IsExplicitNullable(numeric) {
		t.Fatalf("numeric nullable should be explicit")
	}
	union := mustParse(t, r, "(Node or DOMString)?")
	if IsImplicitNullable(union) || !IsExplicitNullable(union) {
		t.Fatalf("nullable union should be explicit")
	}
	if IsImplicitNullable(mustParse(t, r, "Node")) {
		t.Fatalf("non-nullable type reported implicit nullable")
	}
	if !CppTypeHasNullValue(mustParse(t, r, "Mode")) || !CppTypeHasNullValue(mustParse(t, r, "object")) {
		t.Fatalf("enum and object carry a null state")
	}
	if CppTypeHasNullValue(mustParse(t, r, "Dictionary")) {
		t.Fatalf("non-wrapper interface has no null state")
	}
}

func TestQueries(t *testing.T) {
	r := testRegistry()
	if !IsWrapperType(mustParse(t, r, "Blob")) || IsWrapperType(mustParse(t, r, "EventHandler")) {
		t.Fatalf("wrapper classification")
	}
	if !IsTypedArray(mustParse(t, r, "Uint8Array")) || IsTypedArray(mustParse(t, r, "ArrayBuffer")) {
		t.Fatalf("typed array classification")
	}
	if !IsArrayBufferOrView(mustParse(t, r, "DataView")) {
		t.Fatalf("DataView is a buffer view")
	}
	if !IsIntegerType(mustParse(t, r, "octet")) || IsIntegerType(mustParse(t, r, "double")) {
		t.Fatalf("integer classification")
	}
	if !IsNumericType(mustParse(t, r, "unrestricted float?")) {
		t.Fatalf("nullable float is numeric")
	}
	if !IsBasicType(mustParse(t, r, "Date")) || IsBasicType(mustParse(t, r, "any")) {
		t.Fatalf("basic classification")
	}
	if got := Name(mustParse(t, r, "unsigned long")); got != "UnsignedLong" {
		t.Fatalf("name: %q", got)
	}
	if got := Name(mustParse(t, r, "DOMString?")); got != "StringOrNull" {
		t.Fatalf("name: %q", got)
	}
}

func TestRegistryLookups(t *testing.T) {
	r := testRegistry()
	if r.GCTypeOf("Blob") != GarbageCollected || r.GCTypeOf("Node") != WillBeGarbageCollected || r.GCTypeOf("Document") != RefCounted {
		t.Fatalf("gc classification")
	}
	if r.ImplementedAs("Document") != "DocumentImpl" || r.ImplementedAs("Node") != "Node" {
		t.Fatalf("implemented as")
	}
	if !r.Inherits("Element", "Node") || r.Inherits("Node", "Element") {
		t.Fatalf("inheritance")
	}
	if _, ok := r.ComponentDir("Node"); ok {
		t.Fatalf("unexpected component for Node")
	}
	if !r.IsTraceable(mustParse(t, r, "Blob?")) {
		t.Fatalf("gc type should be traceable")
	}
}
