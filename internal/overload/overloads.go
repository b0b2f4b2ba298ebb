package overload

import (
	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
)

// Overloads is the dispatch metadata of one overloaded name.
type Overloads struct {
	Name   string
	MinArg int
	MaxArg int
	// ValidArities is set only when the possible lengths have gaps.
	ValidArities []int
	LengthTests  []LengthTests

	DeprecateAllAs           string
	MeasureAllAs             string
	RuntimeEnabledAll        string
	PerContextEnabledAll     string
	HasCustomRegistrationAll bool
}

// common returns the value f yields for every signature, or the zero value
// and false when they disagree.
func common[T comparable](sigs []*Signature, f func(*Signature) T) (T, bool) {
	var zero T
	if len(sigs) == 0 {
		return zero, false
	}
	first := f(sigs[0])
	for _, sig := range sigs[1:] {
		if f(sig) != first {
			return zero, false
		}
	}
	return first, true
}

func commonString(sigs []*Signature, f func(*Signature) string) string {
	v, _ := common(sigs, f)
	return v
}

// Resolve computes the overload metadata for the signatures of one name.
func Resolve(sigs []*Signature) (*Overloads, error) {
	if len(sigs) < 2 {
		return nil, diag.Errorf(diag.KindOverloadAmbiguity, diag.OvlInfo,
			"overload resolution needs at least two signatures, got %d", len(sigs))
	}
	name := sigs[0].DisplayName()
	buckets := ByLength(EffectiveSet(sigs))

	if err := checkLength(name, sigs, buckets[0]); err != nil {
		return nil, err
	}
	if !sigs[0].Constructor {
		if err := checkAttributes(name, sigs); err != nil {
			return nil, err
		}
	}

	lengthTests, err := BuildLengthTests(buckets)
	if err != nil {
		return nil, err
	}

	lengths := make([]int, len(buckets))
	for i, b := range buckets {
		lengths[i] = b.Length
	}
	o := &Overloads{
		Name:        name,
		MinArg:      lengths[0],
		MaxArg:      lengths[len(lengths)-1],
		LengthTests: lengthTests,

		DeprecateAllAs:       commonString(sigs, func(s *Signature) string { return s.Ext.Get(extattr.DeprecateAs) }),
		MeasureAllAs:         commonString(sigs, func(s *Signature) string { return s.Ext.Get(extattr.MeasureAs) }),
		RuntimeEnabledAll:    commonString(sigs, (*Signature).RuntimeEnabledFunction),
		PerContextEnabledAll: commonString(sigs, (*Signature).PerContextEnabledFunction),
	}
	o.HasCustomRegistrationAll, _ = common(sigs, (*Signature).HasCustomRegistration)
	if o.MaxArg-o.MinArg != len(lengths)-1 {
		o.ValidArities = lengths
	}
	return o, nil
}

// checkLength rejects names whose advertised length would depend on which
// runtime features are enabled: every shortest entry is gated and the
// overloads do not share one gate.
func checkLength(name string, sigs []*Signature, shortest Bucket) error {
	for _, e := range shortest.Entries {
		if e.Signature.RuntimeEnabledFunction() == "" {
			return nil
		}
	}
	if commonString(sigs, (*Signature).RuntimeEnabledFunction) != "" {
		return nil
	}
	return diag.Errorf(diag.KindOverloadLength, diag.OvlAmbiguousLength,
		"function length of %s depends on runtime enabled features", name).
		WithArity(shortest.Length, shortest.Entries[0].typeStrings()).
		At("", name)
}

// checkAttributes requires every overload to carry, or every overload to
// lack, each custom registration attribute.
func checkAttributes(name string, sigs []*Signature) error {
	for _, k := range customRegistrationKeys {
		if _, ok := common(sigs, func(s *Signature) bool { return s.Ext.Has(k) }); !ok {
			return diag.Errorf(diag.KindOverloadAttributeConflict, diag.OvlAttributeConflict,
				"overloads of %s have conflicting extended attribute %s", name, k).
				At("", name)
		}
	}
	return nil
}
