package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormatShortDiagnostics(t *testing.T) {
	node := Location{File: "./idl/Node.json", Definition: "Node", Member: "appendChild"}
	diags := []Diagnostic{
		NewError(OvlNoDistinguishingIndex, node, "first line\nsecond").
			WithNote(node, "arity 1"),
		New(SevInfo, ExtUnknownAttribute, Location{Definition: "Attr"}, "unknown [Foo]"),
	}

	expected := "info EXT4001 Attr unknown [Foo]\n" +
		"error OVL2001 idl/Node.json:Node.appendChild first line second\n" +
		"note OVL2001 idl/Node.json:Node.appendChild arity 1"

	if got := FormatShortDiagnostics(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(KindOverloadAmbiguity, OvlNoDistinguishingIndex, "no index for %s", "f").
		WithArity(1, []string{"Long"}).
		At("Node", "f")
	wrapped := fmt.Errorf("generate Node: %w", err)

	if !errors.Is(wrapped, ErrOverloadAmbiguity) {
		t.Fatalf("expected ambiguity kind")
	}
	if errors.Is(wrapped, ErrMapping) {
		t.Fatalf("unexpected mapping kind")
	}
	e, ok := AsError(wrapped)
	if !ok {
		t.Fatalf("AsError failed")
	}
	if e.Location.Definition != "Node" || e.Location.Member != "f" {
		t.Fatalf("unexpected location %+v", e.Location)
	}
	if !strings.HasPrefix(e.Error(), "OverloadAmbiguityError in Node.f: ") {
		t.Fatalf("unexpected message %q", e.Error())
	}
	d := e.Diagnostic()
	if d.Code != OvlNoDistinguishingIndex || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}

	// outer layers must not overwrite a more specific location
	e.At("Other", "g")
	if e.Location.Definition != "Node" {
		t.Fatalf("location overwritten")
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	b := NewBag(2)
	loc := Location{Definition: "A"}
	if !b.Add(NewError(MapUnknownType, loc, "x")) || !b.Add(NewError(MapUnknownType, loc, "x")) {
		t.Fatalf("bag rejected within limit")
	}
	if b.Add(NewError(MapUnknownType, loc, "y")) {
		t.Fatalf("bag accepted beyond limit")
	}
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("dedup left %d items", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("expected errors")
	}

	huge := NewBag(1 << 20)
	if huge.Cap() != ^uint16(0) {
		t.Fatalf("expected clamped capacity, got %d", huge.Cap())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	loc := Location{Definition: "A", Member: "m"}
	for range 3 {
		ReportInfo(r, ExtUnknownAttribute, loc, "unknown [Foo]").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}
