package types

import "strings"

var typeNames = map[string]string{
	"any":                 "Any",
	"boolean":             "Boolean",
	"byte":                "Byte",
	"octet":               "Octet",
	"short":               "Short",
	"unsigned short":      "UnsignedShort",
	"long":                "Long",
	"unsigned long":       "UnsignedLong",
	"long long":           "LongLong",
	"unsigned long long":  "UnsignedLongLong",
	"unsigned int":        "UnsignedInt",
	"float":               "Float",
	"unrestricted float":  "UnrestrictedFloat",
	"double":              "Double",
	"unrestricted double": "UnrestrictedDouble",
	"DOMString":           "String",
	"ByteString":          "ByteString",
	"USVString":           "USVString",
	"object":              "Object",
	"void":                "Void",
	"Date":                "Date",
}

// Name returns the identifier-safe name used for generated symbols, e.g.
// "UnsignedLong", "StringOrNull", "NodeOrString", "LongSequence".
func Name(t Type) string {
	switch t := t.(type) {
	case NullableType:
		return Name(t.Inner) + "OrNull"
	case SequenceType:
		return Name(t.Elem) + "Sequence"
	case ArrayType:
		return Name(t.Elem) + "Array"
	case RecordType:
		return Name(t.Key) + Name(t.Value) + "Record"
	case UnionType:
		names := make([]string, len(t.Members))
		for i, member := range t.Members {
			names[i] = Name(member)
		}
		return strings.Join(names, "Or")
	default:
		base := Base(t)
		if name, ok := typeNames[base]; ok {
			return name
		}
		return base
	}
}

// MemberNames returns the names of a union's members, or nil.
func MemberNames(t Type) []string {
	u, ok := Inner(t).(UnionType)
	if !ok {
		return nil
	}
	names := make([]string, len(u.Members))
	for i, member := range u.Members {
		names[i] = Name(member)
	}
	return names
}
