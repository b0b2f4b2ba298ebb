package bindctx

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/types"
)

var (
	dictionaryHeaderIncludes = []string{
		"bindings/core/v8/V8Binding.h",
		"platform/heap/Handle.h",
	}
	dictionaryCppIncludes = []string{
		"bindings/core/v8/Dictionary.h",
		"bindings/core/v8/ExceptionState.h",
	}
)

// nullLiteral is the default value spelling of an IDL null.
const nullLiteral = "null"

func setterName(cppName string) string { return "set" + naming.Capitalize(cppName) }
func hasMethodName(cppName string) string { return "has" + naming.Capitalize(cppName) }

// dictMember is a parsed member shared by both dictionary builders.
type dictMember struct {
	raw     *idl.DictionaryMember
	ext     extattr.Set
	typ     types.Type // nullable unwrapped
	cppName string
}

func (r *run) dictMembers(dict *idl.Dictionary) ([]dictMember, error) {
	out := make([]dictMember, 0, len(dict.Members))
	for _, m := range dict.Members {
		ext := r.ext(m.ExtAttrs, m.Name)
		t, err := r.parse(m.Type, m.Name)
		if err != nil {
			return nil, err
		}
		r.mapper.AddIncludesForType(t)
		out = append(out, dictMember{
			raw:     m,
			ext:     ext,
			typ:     types.Inner(t),
			cppName: naming.CppName(m.Name, ext),
		})
	}
	return out, nil
}

// cppDefault returns the default value as written, or nil for none and
// null. Unlike method argument defaults it carries no literal suffix.
func (m dictMember) cppDefault() any {
	if m.raw.Default == nil || *m.raw.Default == nullLiteral {
		return nil
	}
	return *m.raw.Default
}

// BuildDictionary returns the binding context of dict. Members are sorted by
// name.
func (b *Builder) BuildDictionary(dict *idl.Dictionary) (ctx Context, err error) {
	r := b.newRun("dictionary", dict.Name)
	defer func() { r.finish(err) }()

	ext := r.ext(dict.ExtAttrs, "")
	r.mapper.Declarations().Add(dictionaryCppIncludes...)
	members, err := r.dictMembers(dict)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(members, func(a, b dictMember) int { return cmp.Compare(a.raw.Name, b.raw.Name) })

	out := make([]Context, 0, len(members))
	for _, m := range members {
		mc, err := r.dictMember(m)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}

	header := native.NewDeclarations()
	header.Add(dictionaryHeaderIncludes...)
	var parent any
	if dict.Parent != "" {
		parent = naming.V8ClassName(dict.Parent)
		header.Add(r.mapper.IncludesForType(b.reg.Named(dict.Parent))...)
	}
	return Context{
		"cpp_class":       naming.CppName(dict.Name, ext),
		"v8_class":        naming.V8ClassName(dict.Name),
		"parent_v8_class": parent,
		"members":         out,
		"header_includes": header.Includes(),
		"cpp_includes":    r.cppIncludes(),
	}, nil
}

func (r *run) dictMember(m dictMember) (Context, error) {
	name := m.raw.Name
	cppType, err := r.mapper.CppType(m.typ, native.Usage{Ext: m.ext})
	if err != nil {
		return nil, r.fail(err, name)
	}
	toHost, err := r.mapper.ToHost(m.typ, fmt.Sprintf("impl.%s()", m.cppName), m.ext, "isolate", "creationContext")
	if err != nil {
		return nil, r.fail(err, name)
	}

	var v8Default any
	cppDefault := m.cppDefault()
	switch {
	case m.raw.Default != nil && *m.raw.Default == nullLiteral:
		v8Default = "v8::Null(isolate)"
	case cppDefault != nil:
		v, err := r.mapper.ToHost(m.typ, cppDefault.(string), extattr.Set{}, "isolate", "creationContext")
		if err != nil {
			return nil, r.fail(err, name)
		}
		v8Default = v
	}

	var enumCheck any
	if values, ok := r.b.reg.EnumValues(types.Base(m.typ)); ok && types.IsEnum(m.typ) {
		enumCheck = naming.EnumValidationExpression(values)
	}
	return Context{
		"name":                       name,
		"cpp_name":                   m.cppName,
		"cpp_type":                   cppType,
		"cpp_default_value":          cppDefault,
		"v8_default_value":           v8Default,
		"cpp_value_to_v8_value":      toHost,
		"enum_validation_expression": enumCheck,
		"has_method_name":            hasMethodName(m.cppName),
		"setter_name":                setterName(m.cppName),
		"is_object":                  types.Name(m.typ) == "Object",
	}, nil
}

// BuildDictionaryImpl returns the context of the native class backing dict.
// Members keep declaration order.
func (b *Builder) BuildDictionaryImpl(dict *idl.Dictionary) (ctx Context, err error) {
	r := b.newRun("dictionary-impl", dict.Name)
	defer func() { r.finish(err) }()

	ext := r.ext(dict.ExtAttrs, "")
	members, err := r.dictMembers(dict)
	if err != nil {
		return nil, err
	}
	header := native.NewDeclarations()
	header.Add("platform/heap/Handle.h")

	out := make([]Context, 0, len(members))
	for _, m := range members {
		mc, err := r.dictMemberImpl(m, header)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return Context{
		"cpp_class":       naming.CppName(dict.Name, ext),
		"members":         out,
		"header_includes": header.Includes(),
	}, nil
}

func (r *run) dictMemberImpl(m dictMember, header *native.Declarations) (Context, error) {
	name := m.raw.Name
	// Types without a null state of their own are boxed so that presence
	// can be tested.
	boxed := !types.CppTypeHasNullValue(m.typ)
	isObject := types.Name(m.typ) == "Object"

	memberType, err := r.mapper.CppType(m.typ, native.Usage{Ext: m.ext, InContainer: true})
	if err != nil {
		return nil, r.fail(err, name)
	}
	if boxed {
		memberType = native.TemplateType("Nullable", memberType)
	}
	rvalueType, err := r.mapper.CppType(m.typ, native.Usage{Ext: m.ext, RValue: true})
	if err != nil {
		return nil, r.fail(err, name)
	}

	field := "m_" + m.cppName
	getter := field
	if boxed {
		getter = field + ".get()"
	}
	var hasExpr string
	switch {
	case boxed || types.IsEnum(m.typ) || types.IsStringType(m.typ):
		hasExpr = "!" + field + ".isNull()"
	case isObject:
		hasExpr = fmt.Sprintf("!(%[1]s.isEmpty() || %[1]s.isNull() || %[1]s.isUndefined())", field)
	default:
		hasExpr = field
	}

	header.Add(r.mapper.ImplIncludesForType(m.typ)...)
	return Context{
		"name":                  name,
		"cpp_name":              m.cppName,
		"cpp_default_value":     m.cppDefault(),
		"getter_expression":     getter,
		"has_method_expression": hasExpr,
		"has_method_name":       hasMethodName(m.cppName),
		"setter_name":           setterName(m.cppName),
		"is_object":             isObject,
		"is_traceable":          r.b.reg.IsTraceable(m.typ),
		"member_cpp_type":       memberType,
		"rvalue_cpp_type":       rvalueType,
	}, nil
}
