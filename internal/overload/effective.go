package overload

import (
	"strings"

	"github.com/ahmetb/go-linq/v3"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/types"
)

// Entry is one element of an effective overload set: a signature together
// with a prefix of its type and optionality lists.
type Entry struct {
	Signature *Signature
	Types     []types.Type
	Optional  []bool
}

func (e Entry) Len() int { return len(e.Types) }

// typeNames are the identifier names used to compare types.
func (e Entry) typeNames() []string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = types.Name(t)
	}
	return names
}

// typeStrings are the IDL spellings used in messages.
func (e Entry) typeStrings() []string {
	out := make([]string, len(e.Types))
	for i, t := range e.Types {
		out[i] = t.String()
	}
	return out
}

// EffectiveSet expands signatures into their effective overload set. Each
// signature contributes its full argument list, then one entry per trailing
// optional argument dropped. Dropping stops above index 0; a signature whose
// arguments are all optional contributes the empty list once at the end.
func EffectiveSet(sigs []*Signature) []Entry {
	var set []Entry
	for _, sig := range sigs {
		n := len(sig.Arguments)
		t := make([]types.Type, n)
		o := make([]bool, n)
		for i, arg := range sig.Arguments {
			t[i] = arg.Type
			o[i] = arg.Optional
		}
		set = append(set, Entry{Signature: sig, Types: t, Optional: o})
		for i := n - 1; i > 0 && o[i]; i-- {
			set = append(set, Entry{Signature: sig, Types: t[:i], Optional: o[:i]})
		}
		if n > 0 && allTrue(o) {
			set = append(set, Entry{Signature: sig, Types: []types.Type{}, Optional: []bool{}})
		}
	}
	return set
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}

// Bucket is the entries of an effective overload set sharing one length.
type Bucket struct {
	Length  int
	Entries []Entry
}

// ByLength groups entries by type list length, shortest first. Entries keep
// their relative order within a bucket.
func ByLength(entries []Entry) []Bucket {
	var groups []linq.Group
	linq.From(entries).
		GroupByT(
			func(e Entry) int { return e.Len() },
			func(e Entry) Entry { return e },
		).
		OrderByT(func(g linq.Group) int { return g.Key.(int) }).
		ToSlice(&groups)

	buckets := make([]Bucket, 0, len(groups))
	for _, g := range groups {
		b := Bucket{Length: g.Key.(int), Entries: make([]Entry, 0, len(g.Group))}
		for _, item := range g.Group {
			b.Entries = append(b.Entries, item.(Entry))
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func ambiguity(code diag.Code, name string, arity int, typeList []string, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.KindOverloadAmbiguity, code, format, args...).
		WithArity(arity, typeList).
		At("", name)
}

// DistinguishingIndex returns the lowest argument index at which the types
// of same-length entries differ. The optionality lists must agree below it
// and the types at it must be pairwise distinct.
func DistinguishingIndex(entries []Entry) (int, error) {
	if len(entries) < 2 {
		return 0, diag.Errorf(diag.KindOverloadAmbiguity, diag.OvlNoDistinguishingIndex,
			"distinguishing index needs at least two entries, got %d", len(entries))
	}
	name := entries[0].Signature.DisplayName()
	length := entries[0].Len()
	names := make([][]string, len(entries))
	for i, e := range entries {
		if e.Len() != length {
			return 0, ambiguity(diag.OvlNoDistinguishingIndex, name, length, e.typeStrings(),
				"entries of %s have different lengths %d and %d", name, length, e.Len())
		}
		names[i] = e.typeNames()
	}

	index := -1
	for i := 0; i < length && index < 0; i++ {
		for _, list := range names[1:] {
			if list[i] != names[0][i] {
				index = i
				break
			}
		}
	}
	if index < 0 {
		typeList := entries[0].typeStrings()
		return 0, ambiguity(diag.OvlNoDistinguishingIndex, name, length, typeList,
			"no distinguishing index found for %s, length %d: all entries have the same type list [%s]",
			name, length, strings.Join(typeList, ", "))
	}

	for _, e := range entries[1:] {
		for j := range index {
			if e.Optional[j] != entries[0].Optional[j] {
				return 0, ambiguity(diag.OvlOptionalityMismatch, name, length, e.typeStrings(),
					"invalid optionality lists for %s, length %d: optionality differs below distinguishing argument index %d",
					name, length, index)
			}
		}
	}

	seen := make(map[string]bool, len(entries))
	atIndex := make([]string, len(entries))
	for i, e := range entries {
		atIndex[i] = e.Types[index].String()
	}
	for i := range entries {
		n := names[i][index]
		if seen[n] {
			return 0, ambiguity(diag.OvlIndistinctTypes, name, length, atIndex,
				"types of %s at distinguishing argument index %d are not distinct, length %d: [%s]",
				name, index, length, strings.Join(atIndex, ", "))
		}
		seen[n] = true
	}
	return index, nil
}
