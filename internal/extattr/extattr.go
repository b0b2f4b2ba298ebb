// Package extattr holds the closed set of extended attributes the generator
// understands. Raw attribute bags are parsed once into an immutable Set;
// anything outside the enumeration is dropped and reported.
package extattr

import (
	"maps"
	"slices"
	"strings"
)

// Key identifies a recognised extended attribute.
type Key uint8

const (
	KeyInvalid Key = iota
	ActiveDOMObject
	CachedAttribute
	CallWith
	CheckSecurity
	Clamp
	Conditional
	Constructor
	ConstructorCallWith
	Custom
	CustomConstructor
	CustomElementCallbacks
	Default
	DependentLifetime
	DeprecateAs
	DoNotCheckConstants
	DoNotCheckSecurity
	DoNotCheckSignature
	EnforceRange
	EventConstructor
	Exposed
	GarbageCollected
	Global
	ImplementedAs
	InitializedByEventConstructor
	LogActivity
	LogAllWorlds
	MeasureAs
	NamedConstructor
	NoInterfaceObject
	NotEnumerable
	OverrideBuiltins
	PartialInterfaceImplementedAs
	PerContextEnabled
	PerWorldBindings
	PrimaryGlobal
	PutForwards
	RaisesException
	ReadOnly
	Reflect
	ReflectEmpty
	ReflectInvalid
	ReflectMissing
	ReflectOnly
	Replaceable
	RuntimeEnabled
	SetWrapperReferenceFrom
	SetWrapperReferenceTo
	SpecialWrapFor
	TreatNullAs
	TreatReturnedNullStringAs
	TreatUndefinedAs
	TypeChecking
	URL
	Unforgeable
	WillBeGarbageCollected
	keyCount
)

var keyNames = [...]string{
	KeyInvalid:                    "",
	ActiveDOMObject:               "ActiveDOMObject",
	CachedAttribute:               "CachedAttribute",
	CallWith:                      "CallWith",
	CheckSecurity:                 "CheckSecurity",
	Clamp:                         "Clamp",
	Conditional:                   "Conditional",
	Constructor:                   "Constructor",
	ConstructorCallWith:           "ConstructorCallWith",
	Custom:                        "Custom",
	CustomConstructor:             "CustomConstructor",
	CustomElementCallbacks:        "CustomElementCallbacks",
	Default:                       "Default",
	DependentLifetime:             "DependentLifetime",
	DeprecateAs:                   "DeprecateAs",
	DoNotCheckConstants:           "DoNotCheckConstants",
	DoNotCheckSecurity:            "DoNotCheckSecurity",
	DoNotCheckSignature:           "DoNotCheckSignature",
	EnforceRange:                  "EnforceRange",
	EventConstructor:              "EventConstructor",
	Exposed:                       "Exposed",
	GarbageCollected:              "GarbageCollected",
	Global:                        "Global",
	ImplementedAs:                 "ImplementedAs",
	InitializedByEventConstructor: "InitializedByEventConstructor",
	LogActivity:                   "LogActivity",
	LogAllWorlds:                  "LogAllWorlds",
	MeasureAs:                     "MeasureAs",
	NamedConstructor:              "NamedConstructor",
	NoInterfaceObject:             "NoInterfaceObject",
	NotEnumerable:                 "NotEnumerable",
	OverrideBuiltins:              "OverrideBuiltins",
	PartialInterfaceImplementedAs: "PartialInterfaceImplementedAs",
	PerContextEnabled:             "PerContextEnabled",
	PerWorldBindings:              "PerWorldBindings",
	PrimaryGlobal:                 "PrimaryGlobal",
	PutForwards:                   "PutForwards",
	RaisesException:               "RaisesException",
	ReadOnly:                      "ReadOnly",
	Reflect:                       "Reflect",
	ReflectEmpty:                  "ReflectEmpty",
	ReflectInvalid:                "ReflectInvalid",
	ReflectMissing:                "ReflectMissing",
	ReflectOnly:                   "ReflectOnly",
	Replaceable:                   "Replaceable",
	RuntimeEnabled:                "RuntimeEnabled",
	SetWrapperReferenceFrom:       "SetWrapperReferenceFrom",
	SetWrapperReferenceTo:         "SetWrapperReferenceTo",
	SpecialWrapFor:                "SpecialWrapFor",
	TreatNullAs:                   "TreatNullAs",
	TreatReturnedNullStringAs:     "TreatReturnedNullStringAs",
	TreatUndefinedAs:              "TreatUndefinedAs",
	TypeChecking:                  "TypeChecking",
	URL:                           "URL",
	Unforgeable:                   "Unforgeable",
	WillBeGarbageCollected:        "WillBeGarbageCollected",
}

var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k := KeyInvalid + 1; k < keyCount; k++ {
		m[keyNames[k]] = k
	}
	return m
}()

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Key(?)"
}

// Lookup maps an attribute name to its key.
func Lookup(name string) (Key, bool) {
	k, ok := keyByName[name]
	return k, ok
}

// Set is an immutable parsed attribute bag. The zero value is empty.
// A present attribute without a value maps to "".
type Set struct {
	values map[Key]string
}

// Parse converts a raw attribute bag. Unknown names are skipped and passed
// to unknown when it is non-nil, in sorted order.
func Parse(raw map[string]string, unknown func(name, value string)) Set {
	if len(raw) == 0 {
		return Set{}
	}
	s := Set{values: make(map[Key]string, len(raw))}
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		k, ok := Lookup(name)
		if !ok {
			if unknown != nil {
				unknown(name, raw[name])
			}
			continue
		}
		s.values[k] = raw[name]
	}
	return s
}

// Of builds a set from recognised keys; each key takes a bare value.
func Of(keys ...Key) Set {
	s := Set{values: make(map[Key]string, len(keys))}
	for _, k := range keys {
		s.values[k] = ""
	}
	return s
}

// With returns a copy of s with k set to value.
func (s Set) With(k Key, value string) Set {
	out := Set{values: make(map[Key]string, len(s.values)+1)}
	maps.Copy(out.values, s.values)
	out.values[k] = value
	return out
}

// Without returns a copy of s lacking the given keys.
func (s Set) Without(keys ...Key) Set {
	out := Set{values: maps.Clone(s.values)}
	for _, k := range keys {
		delete(out.values, k)
	}
	return out
}

func (s Set) Has(k Key) bool {
	_, ok := s.values[k]
	return ok
}

func (s Set) Value(k Key) (string, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Get returns the value of k, or "" when absent or bare.
func (s Set) Get(k Key) string {
	return s.values[k]
}

// Contains reports whether the value of k, split on '|' and '&', includes
// value.
func (s Set) Contains(k Key, value string) bool {
	v, ok := s.values[k]
	if !ok || v == "" {
		return false
	}
	return slices.Contains(splitValues(v), value)
}

// HasAny reports whether any of keys is present.
func (s Set) HasAny(keys ...Key) bool {
	for _, k := range keys {
		if s.Has(k) {
			return true
		}
	}
	return false
}

func (s Set) Len() int { return len(s.values) }

// Keys returns the present keys in declaration order.
func (s Set) Keys() []Key {
	keys := slices.Collect(maps.Keys(s.values))
	slices.Sort(keys)
	return keys
}

// Raw renders the set back into a name to value map.
func (s Set) Raw() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k.String()] = v
	}
	return out
}

func splitValues(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == '&' })
}

// TreatNullAs returns the [TreatNullAs] value, e.g. "NullString".
func (s Set) TreatNullAs() string { return s.values[TreatNullAs] }

// TreatUndefinedAs returns the [TreatUndefinedAs] value.
func (s Set) TreatUndefinedAs() string { return s.values[TreatUndefinedAs] }

// TreatReturnedNullStringAs returns "Null", "Undefined" or "".
func (s Set) TreatReturnedNullStringAs() string { return s.values[TreatReturnedNullStringAs] }

// ImplementedAs returns the override name, if any.
func (s Set) ImplementedAs() (string, bool) {
	v, ok := s.values[ImplementedAs]
	return v, ok && v != ""
}

// RaisesException reports a bare [RaisesException] or one naming kind, as
// in [RaisesException=Setter].
func (s Set) RaisesException(kind string) bool {
	v, ok := s.values[RaisesException]
	if !ok {
		return false
	}
	return v == "" || v == kind
}

// IsCustom reports [Custom] applying to kind. A bare [Custom] applies to
// every kind.
func (s Set) IsCustom(kind string) bool {
	v, ok := s.values[Custom]
	if !ok {
		return false
	}
	return v == "" || slices.Contains(splitValues(v), kind)
}
