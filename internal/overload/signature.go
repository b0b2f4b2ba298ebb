// Package overload computes WebIDL effective overload sets and the runtime
// dispatch tests that pick one overload of a name from the call's arguments.
package overload

import (
	"cmp"
	"slices"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/types"
)

// Argument is one declared parameter of a callable.
type Argument struct {
	Name     string
	Type     types.Type
	Optional bool
	Variadic bool
}

// Signature is one declared callable of an overloaded name.
type Signature struct {
	Name        string
	Arguments   []Argument
	Static      bool
	Constructor bool
	Ext         extattr.Set
}

// customRegistrationKeys change how a method is installed on the prototype;
// overloads of one name must agree on each of them.
var customRegistrationKeys = []extattr.Key{
	extattr.DoNotCheckSecurity,
	extattr.DoNotCheckSignature,
	extattr.NotEnumerable,
	extattr.ReadOnly,
	extattr.Unforgeable,
}

// CustomRegistrationKeys returns the attributes that force custom
// registration of a method.
func CustomRegistrationKeys() []extattr.Key {
	return slices.Clone(customRegistrationKeys)
}

// DisplayName is used in messages; constructors have no name of their own.
func (s *Signature) DisplayName() string {
	if s.Name == "" || s.Constructor {
		return "Constructor"
	}
	return s.Name
}

// HasCustomRegistration reports static methods and methods carrying one of
// the custom registration attributes.
func (s *Signature) HasCustomRegistration() bool {
	return s.Static || s.Ext.HasAny(customRegistrationKeys...)
}

func (s *Signature) RuntimeEnabledFunction() string {
	return naming.RuntimeEnabledFunction(s.Ext)
}

func (s *Signature) PerContextEnabledFunction() string {
	return naming.PerContextEnabledFunction(s.Ext)
}

// RequiredArguments counts arguments before the first optional one.
func (s *Signature) RequiredArguments() int {
	for i, arg := range s.Arguments {
		if arg.Optional || arg.Variadic {
			return i
		}
	}
	return len(s.Arguments)
}

// Group holds the overloads of one name, in declaration order.
type Group struct {
	Name       string
	Static     bool
	Signatures []*Signature
}

// GroupOverloaded returns the names declared more than once. Regular and
// static callables are overloaded separately; regular groups come first and
// each half is sorted by name.
func GroupOverloaded(sigs []*Signature) []Group {
	var out []Group
	for _, static := range []bool{false, true} {
		byName := make(map[string][]*Signature)
		for _, sig := range sigs {
			if sig.Static == static {
				byName[sig.Name] = append(byName[sig.Name], sig)
			}
		}
		var half []Group
		for name, overloads := range byName {
			if len(overloads) > 1 {
				half = append(half, Group{Name: name, Static: static, Signatures: overloads})
			}
		}
		slices.SortFunc(half, func(a, b Group) int { return cmp.Compare(a.Name, b.Name) })
		out = append(out, half...)
	}
	return out
}
