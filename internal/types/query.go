package types

// Base-name tables. Integer and float families follow WebIDL; the typed array
// names are the ArrayBufferView subclasses the engine exposes.
var (
	integerNames = map[string]bool{
		"byte": true, "octet": true,
		"short": true, "unsigned short": true,
		"long": true, "unsigned long": true,
		"long long": true, "unsigned long long": true,
		"unsigned int": true,
	}
	floatNames = map[string]bool{
		"float": true, "unrestricted float": true,
		"double": true, "unrestricted double": true,
	}
	stringNames = map[string]bool{
		"DOMString": true, "ByteString": true, "USVString": true,
	}
	builtinNames = map[string]bool{
		"void": true, "any": true, "object": true,
		"Date": true, "Promise": true, "ScriptValue": true,
	}
	typedArrayNames = map[string]bool{
		"Float32Array": true, "Float64Array": true,
		"Int8Array": true, "Int16Array": true, "Int32Array": true,
		"Uint8Array": true, "Uint8ClampedArray": true,
		"Uint16Array": true, "Uint32Array": true,
	}
	bufferNames = map[string]bool{
		"ArrayBuffer": true, "ArrayBufferView": true, "DataView": true,
	}
	// nonWrapperNames are interface-like types with no wrapper object on the
	// host side.
	nonWrapperNames = map[string]bool{
		"Dictionary":            true,
		"EventHandler":          true,
		"EventListener":         true,
		"NodeFilter":            true,
		"SerializedScriptValue": true,
	}
	// knownInterfaceNames resolve to InterfaceType without a registry entry.
	knownInterfaceNames = map[string]bool{
		"XPathNSResolver": true,
	}
)

// Base returns the base name of a named type, looking through one nullable
// layer. Composite types have no base name and yield "".
func Base(t Type) string {
	switch t := t.(type) {
	case PrimitiveType:
		return t.Base
	case StringType:
		return t.Base
	case BuiltinType:
		return t.Base
	case InterfaceType:
		return t.Base
	case DictionaryType:
		return t.Base
	case EnumType:
		return t.Base
	case CallbackType:
		return t.Base
	case UnresolvedType:
		return t.Base
	case NullableType:
		return Base(t.Inner)
	case SequenceType, ArrayType, RecordType, UnionType:
		return ""
	default:
		return ""
	}
}

// IsNullable reports whether t is T?.
func IsNullable(t Type) bool {
	_, ok := t.(NullableType)
	return ok
}

func IsPrimitiveType(t Type) bool {
	_, ok := Inner(t).(PrimitiveType)
	return ok
}

func IsNumericType(t Type) bool {
	p, ok := Inner(t).(PrimitiveType)
	return ok && (integerNames[p.Base] || floatNames[p.Base])
}

func IsIntegerType(t Type) bool {
	p, ok := Inner(t).(PrimitiveType)
	return ok && integerNames[p.Base]
}

func IsStringType(t Type) bool {
	_, ok := Inner(t).(StringType)
	return ok
}

// IsBasicType reports primitive, string, Date and void.
func IsBasicType(t Type) bool {
	switch t := Inner(t).(type) {
	case PrimitiveType, StringType:
		return true
	case BuiltinType:
		return t.Base == "Date" || t.Base == "void"
	default:
		return false
	}
}

func IsInterfaceType(t Type) bool {
	_, ok := Inner(t).(InterfaceType)
	return ok
}

// IsWrapperType reports interface types that have a host-side wrapper
// object.
func IsWrapperType(t Type) bool {
	i, ok := Inner(t).(InterfaceType)
	return ok && !nonWrapperNames[i.Base]
}

func IsDictionary(t Type) bool {
	_, ok := Inner(t).(DictionaryType)
	return ok
}

func IsEnum(t Type) bool {
	_, ok := Inner(t).(EnumType)
	return ok
}

func IsUnion(t Type) bool {
	_, ok := Inner(t).(UnionType)
	return ok
}

func IsCallbackFunction(t Type) bool {
	_, ok := Inner(t).(CallbackType)
	return ok
}

func IsRecord(t Type) bool {
	_, ok := Inner(t).(RecordType)
	return ok
}

func IsArrayOrSequence(t Type) bool {
	switch Inner(t).(type) {
	case ArrayType, SequenceType:
		return true
	default:
		return false
	}
}

func IsTypedArray(t Type) bool {
	i, ok := Inner(t).(InterfaceType)
	return ok && typedArrayNames[i.Base]
}

func IsArrayBufferOrView(t Type) bool {
	i, ok := Inner(t).(InterfaceType)
	return ok && (typedArrayNames[i.Base] || bufferNames[i.Base])
}

// NativeArrayElementType returns the element of T[] or sequence<T>.
func NativeArrayElementType(t Type) (Type, bool) {
	switch t := Inner(t).(type) {
	case ArrayType:
		return t.Elem, true
	case SequenceType:
		return t.Elem, true
	default:
		return nil, false
	}
}

// CppTypeHasNullValue reports whether the native representation of t already
// has a null state: strings, wrapper pointers, enums (held as strings) and
// object (held as ScriptValue).
func CppTypeHasNullValue(t Type) bool {
	if IsStringType(t) || IsWrapperType(t) || IsEnum(t) {
		return true
	}
	b, ok := Inner(t).(BuiltinType)
	return ok && b.Base == "object"
}

// IsImplicitNullable reports T? where T carries its own null state.
// Nullable unions are never implicit.
func IsImplicitNullable(t Type) bool {
	if !IsNullable(t) || IsUnion(t) {
		return false
	}
	return CppTypeHasNullValue(t)
}

// IsExplicitNullable reports T? that needs a Nullable<> box.
func IsExplicitNullable(t Type) bool {
	return IsNullable(t) && !IsImplicitNullable(t)
}

// Walk visits t and every type nested in it, outermost first.
func Walk(t Type, visit func(Type)) {
	visit(t)
	switch t := t.(type) {
	case NullableType:
		Walk(t.Inner, visit)
	case SequenceType:
		Walk(t.Elem, visit)
	case ArrayType:
		Walk(t.Elem, visit)
	case RecordType:
		Walk(t.Key, visit)
		Walk(t.Value, visit)
	case UnionType:
		for _, member := range t.Members {
			Walk(member, visit)
		}
	}
}
