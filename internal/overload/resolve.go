package overload

import (
	"fmt"

	"github.com/2gis/2gisqt5android/internal/types"
)

// AlwaysTrue is the test of an entry that matches unconditionally.
const AlwaysTrue = "true"

// Test pairs a runtime dispatch test with the overload it selects.
type Test struct {
	Expr      string
	Signature *Signature
}

// LengthTests are the dispatch tests for calls passing Length arguments.
type LengthTests struct {
	Length int
	Tests  []Test
}

// ResolutionTests returns the dispatch tests for entries of one length, in
// the order they must be tried. A signature may appear under several tests;
// callers stop at the first match.
func ResolutionTests(entries []Entry) ([]Test, error) {
	switch len(entries) {
	case 0:
		return nil, nil
	case 1:
		return []Test{{Expr: AlwaysTrue, Signature: entries[0].Signature}}, nil
	}

	d, err := DistinguishingIndex(entries)
	if err != nil {
		return nil, err
	}
	value := fmt.Sprintf("info[%d]", d)

	args := make([]Argument, len(entries))
	for i, e := range entries {
		args[i] = e.Signature.Arguments[d]
	}
	first := func(match func(Argument) bool) (*Signature, bool) {
		for i, arg := range args {
			if match(arg) {
				return entries[i].Signature, true
			}
		}
		return nil, false
	}

	var tests []Test
	add := func(expr string, sig *Signature) {
		tests = append(tests, Test{Expr: expr, Signature: sig})
	}

	if sig, ok := first(func(a Argument) bool { return a.Optional }); ok {
		add(value+"->IsUndefined()", sig)
	}
	if sig, ok := first(func(a Argument) bool { return types.IsNullable(a.Type) }); ok {
		add("isUndefinedOrNull("+value+")", sig)
	}
	for i, arg := range args {
		if types.IsWrapperType(arg.Type) {
			add(fmt.Sprintf("V8%s::hasInstance(%s, isolate)", types.Base(arg.Type), value), entries[i].Signature)
		}
	}
	for i, arg := range args {
		if types.IsArrayOrSequence(arg.Type) {
			add(value+"->IsArray()", entries[i].Signature)
			break
		}
		if types.IsDictionary(arg.Type) || types.Base(arg.Type) == "Dictionary" {
			add(value+"->IsObject()", entries[i].Signature)
			break
		}
	}

	isStringish := func(a Argument) bool { return types.IsStringType(a.Type) || types.IsEnum(a.Type) }
	// only DOMString and enums make the exact number match worth testing
	isDOMStringOrEnum := func(a Argument) bool { return types.Base(a.Type) == "DOMString" || types.IsEnum(a.Type) }
	isNumeric := func(a Argument) bool { return types.IsNumericType(a.Type) }

	primitives := 0
	for _, arg := range args {
		if types.IsPrimitiveType(arg.Type) {
			primitives++
		}
	}
	if _, hasString := first(isDOMStringOrEnum); hasString && primitives > 1 {
		if sig, ok := first(isNumeric); ok {
			add(value+"->IsNumber()", sig)
		}
	}
	if sig, ok := first(isStringish); ok {
		add(AlwaysTrue, sig)
	}
	if sig, ok := first(isNumeric); ok {
		add(AlwaysTrue, sig)
	}
	return tests, nil
}

// BuildLengthTests computes the resolution tests for every bucket.
func BuildLengthTests(buckets []Bucket) ([]LengthTests, error) {
	out := make([]LengthTests, 0, len(buckets))
	for _, b := range buckets {
		tests, err := ResolutionTests(b.Entries)
		if err != nil {
			return nil, err
		}
		out = append(out, LengthTests{Length: b.Length, Tests: tests})
	}
	return out, nil
}
