package extattr

import (
	"slices"
	"testing"
)

func TestParseReportsUnknown(t *testing.T) {
	var unknown []string
	s := Parse(map[string]string{
		"Reflect":       "",
		"Bogus":         "1",
		"CallWith":      "ScriptState|ExecutionContext",
		"AnotherBogus":  "",
		"ImplementedAs": "fooImpl",
	}, func(name, value string) {
		unknown = append(unknown, name)
	})
	if want := []string{"AnotherBogus", "Bogus"}; !slices.Equal(unknown, want) {
		t.Fatalf("unknown = %v, want %v", unknown, want)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if !s.Has(Reflect) || s.Get(Reflect) != "" {
		t.Fatalf("bare Reflect not kept")
	}
	if !s.Contains(CallWith, "ExecutionContext") || s.Contains(CallWith, "Document") {
		t.Fatalf("CallWith membership wrong")
	}
	if impl, ok := s.ImplementedAs(); !ok || impl != "fooImpl" {
		t.Fatalf("ImplementedAs = %q, %v", impl, ok)
	}
	if want := []Key{CallWith, ImplementedAs, Reflect}; !slices.Equal(s.Keys(), want) {
		t.Fatalf("Keys = %v, want %v", s.Keys(), want)
	}
}

func TestSetIsImmutable(t *testing.T) {
	base := Of(Clamp)
	with := base.With(TreatNullAs, "NullString")
	without := with.Without(Clamp)
	if base.Has(TreatNullAs) {
		t.Fatalf("With modified the receiver")
	}
	if !with.Has(Clamp) || with.TreatNullAs() != "NullString" {
		t.Fatalf("With lost values")
	}
	if without.Has(Clamp) || !with.Has(Clamp) {
		t.Fatalf("Without modified the receiver")
	}
	var zero Set
	if zero.Has(Clamp) || zero.Len() != 0 || len(zero.Raw()) != 0 {
		t.Fatalf("zero set not empty")
	}
}

func TestKindedAttributes(t *testing.T) {
	s := Parse(map[string]string{"RaisesException": "Setter", "Custom": "Getter|Setter"}, nil)
	if !s.RaisesException("Setter") || s.RaisesException("Getter") {
		t.Fatalf("RaisesException=Setter misread")
	}
	if !s.IsCustom("Getter") || s.IsCustom("Wrap") {
		t.Fatalf("Custom=Getter|Setter misread")
	}
	bare := Of(RaisesException, Custom)
	if !bare.RaisesException("Constructor") || !bare.IsCustom("Wrap") {
		t.Fatalf("bare attributes should apply to every kind")
	}
}

func TestLookup(t *testing.T) {
	for k := KeyInvalid + 1; k < keyCount; k++ {
		got, ok := Lookup(k.String())
		if !ok || got != k {
			t.Fatalf("Lookup(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := Lookup(""); ok {
		t.Fatalf("empty name resolved")
	}
}
