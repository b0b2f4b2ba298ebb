package types

import "strings"

// Type is an IDL type as seen by the binding generator.
//
// The set of implementations is closed: every query in this package is a
// type switch over all of them, so adding a variant means revisiting each
// query.
type Type interface {
	// String returns the IDL spelling, e.g. "unsigned long?" or
	// "sequence<DOMString>".
	String() string
	isType()
}

// PrimitiveType is boolean or one of the numeric types.
type PrimitiveType struct {
	Base string
}

// StringType is DOMString, ByteString or USVString.
type StringType struct {
	Base string
}

// BuiltinType covers the remaining basic names that are neither primitive
// nor string: void, any, object, Date, Promise and ScriptValue.
type BuiltinType struct {
	Base string
}

// InterfaceType references an interface, including the non-wrapper
// interfaces (Dictionary, EventHandler, NodeFilter, ...).
type InterfaceType struct {
	Base string
}

// DictionaryType references an IDL dictionary.
type DictionaryType struct {
	Base string
}

// EnumType references an IDL enumeration.
type EnumType struct {
	Base   string
	Values []string
}

// CallbackType references a callback function.
type CallbackType struct {
	Base string
}

// SequenceType is sequence<Elem>.
type SequenceType struct {
	Elem Type
}

// ArrayType is Elem[].
type ArrayType struct {
	Elem Type
}

// RecordType is a string-keyed associative container, spelled Value{Key}.
type RecordType struct {
	Key   Type
	Value Type
}

// UnionType is (A or B or ...). Members are never nullable themselves.
type UnionType struct {
	Members []Type
}

// NullableType is Inner?. Inner is never a NullableType.
type NullableType struct {
	Inner Type
}

// UnresolvedType is a name that no registry table knows about.
type UnresolvedType struct {
	Base string
}

func (PrimitiveType) isType()  {}
func (StringType) isType()     {}
func (BuiltinType) isType()    {}
func (InterfaceType) isType()  {}
func (DictionaryType) isType() {}
func (EnumType) isType()       {}
func (CallbackType) isType()   {}
func (SequenceType) isType()   {}
func (ArrayType) isType()      {}
func (RecordType) isType()     {}
func (UnionType) isType()      {}
func (NullableType) isType()   {}
func (UnresolvedType) isType() {}

func (t PrimitiveType) String() string  { return t.Base }
func (t StringType) String() string     { return t.Base }
func (t BuiltinType) String() string    { return t.Base }
func (t InterfaceType) String() string  { return t.Base }
func (t DictionaryType) String() string { return t.Base }
func (t EnumType) String() string       { return t.Base }
func (t CallbackType) String() string   { return t.Base }
func (t UnresolvedType) String() string { return t.Base }

func (t SequenceType) String() string { return "sequence<" + t.Elem.String() + ">" }
func (t ArrayType) String() string    { return t.Elem.String() + "[]" }
func (t RecordType) String() string   { return t.Value.String() + "{" + t.Key.String() + "}" }
func (t NullableType) String() string { return t.Inner.String() + "?" }

func (t UnionType) String() string {
	parts := make([]string, len(t.Members))
	for i, member := range t.Members {
		parts[i] = member.String()
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// MakeNullable wraps t, collapsing an already nullable type.
func MakeNullable(t Type) Type {
	if n, ok := t.(NullableType); ok {
		return n
	}
	return NullableType{Inner: t}
}

// Inner strips one nullable layer.
func Inner(t Type) Type {
	if n, ok := t.(NullableType); ok {
		return n.Inner
	}
	return t
}
