package bindctx

import (
	"fmt"
	"strings"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/types"
)

// propertyKind is the key type of an indexed or named property.
type propertyKind struct {
	keyType string
	label   string
	keyArg  string
}

var (
	indexedProperty = propertyKind{keyType: "unsigned long", label: "Indexed", keyArg: "index"}
	namedProperty   = propertyKind{keyType: "DOMString", label: "Named", keyArg: "propertyName"}
)

// findSpecial returns the first operation declared with keyword whose
// arguments have the shape of kind: one key argument for getters and
// deleters, key and value for setters.
func (r *run) findSpecial(iface *idl.Interface, keyword string, kind propertyKind) (*idl.Operation, error) {
	arity := 1
	if keyword == "setter" {
		arity = 2
	}
	for _, op := range iface.Operations {
		if !op.HasSpecial(keyword) || len(op.Arguments) != arity {
			continue
		}
		t, err := r.parse(op.Arguments[0].Type, memberName(op, op.Arguments[0].Name))
		if err != nil {
			return nil, err
		}
		if t.String() == kind.keyType {
			return op, nil
		}
	}
	return nil, nil
}

// specialName is the native name of a special operation; anonymous ones get
// "anonymousIndexedGetter" and the like.
func specialName(op *idl.Operation, ext extattr.Set, keyword string, kind propertyKind) string {
	if op.Name == "" {
		return "anonymous" + kind.label + naming.Capitalize(keyword)
	}
	return naming.CppName(op.Name, ext)
}

func nullExpression(t types.Type) string {
	switch {
	case types.IsUnion(t):
		parts := make([]string, len(types.MemberNames(t)))
		for i := range parts {
			parts[i] = fmt.Sprintf("!result%dEnabled", i)
		}
		return strings.Join(parts, " && ")
	case types.IsStringType(t):
		return "result.isNull()"
	case types.IsInterfaceType(t):
		return "!result"
	}
	return ""
}

func (r *run) propertyGetter(iface *idl.Interface, kind propertyKind) (any, error) {
	op, err := r.findSpecial(iface, "getter", kind)
	if op == nil || err != nil {
		return nil, err
	}
	name := specialName(op, extattr.Set{}, "getter", kind)
	ext := r.ext(op.ExtAttrs, name)
	name = specialName(op, ext, "getter", kind)
	t, err := r.parse(returnType(op), name)
	if err != nil {
		return nil, err
	}
	cppType, err := r.mapper.CppType(t, native.Usage{Ext: ext})
	if err != nil {
		return nil, r.fail(err, name)
	}
	raises := ext.Has(extattr.RaisesException)
	args := []string{kind.keyArg}
	if raises {
		args = append(args, "exceptionState")
	}
	setReturn, err := r.mapper.SetReturnValue(t, "result", ext, native.ReturnOptions{
		ScriptWrappable: "impl",
		Release:         native.IsRelease(t),
	})
	if err != nil {
		return nil, r.fail(err, name)
	}
	custom, _ := ext.Value(extattr.Custom)
	return Context{
		"name":                          name,
		"cpp_type":                      cppType,
		"cpp_value":                     "impl->" + name + "(" + strings.Join(args, ", ") + ")",
		"is_custom":                     ext.Has(extattr.Custom) && (custom == "" || ext.Contains(extattr.Custom, "PropertyGetter")),
		"is_custom_property_enumerator": ext.Contains(extattr.Custom, "PropertyEnumerator"),
		"is_custom_property_query":      ext.Contains(extattr.Custom, "PropertyQuery"),
		"is_enumerable":                 !ext.Has(extattr.NotEnumerable),
		"is_null_expression":            nullExpression(t),
		"is_raises_exception":           raises,
		"union_arguments":               types.MemberNames(t),
		"v8_set_return_value":           setReturn,
	}, nil
}

func (r *run) propertySetter(o *owner, iface *idl.Interface, kind propertyKind) (any, error) {
	op, err := r.findSpecial(iface, "setter", kind)
	if op == nil || err != nil {
		return nil, err
	}
	name := specialName(op, extattr.Set{}, "setter", kind)
	ext := r.ext(op.ExtAttrs, name)
	name = specialName(op, ext, "setter", kind)
	t, err := r.parse(op.Arguments[1].Type, name)
	if err != nil {
		return nil, err
	}
	local, err := r.mapper.ToLocal(t, ext, "v8Value", native.LocalOptions{Variable: "propertyValue", Index: -1})
	if err != nil {
		return nil, r.fail(err, name)
	}
	raises := ext.Has(extattr.RaisesException)
	return Context{
		"name":                        name,
		"idl_type":                    types.Base(t),
		"has_type_checking_interface": (o.ext.Contains(extattr.TypeChecking, "Interface") || ext.Contains(extattr.TypeChecking, "Interface")) && types.IsWrapperType(t),
		"is_custom":                   ext.Has(extattr.Custom),
		"has_exception_state":         raises || types.IsIntegerType(t),
		"is_raises_exception":         raises,
		"v8_value_to_local_cpp_value": local,
	}, nil
}

func (r *run) propertyDeleter(iface *idl.Interface, kind propertyKind) (any, error) {
	op, err := r.findSpecial(iface, "deleter", kind)
	if op == nil || err != nil {
		return nil, err
	}
	name := specialName(op, extattr.Set{}, "deleter", kind)
	ext := r.ext(op.ExtAttrs, name)
	name = specialName(op, ext, "deleter", kind)
	t, err := r.parse(returnType(op), name)
	if err != nil {
		return nil, err
	}
	if t.String() != "boolean" {
		return nil, diag.Errorf(diag.KindStructural, diag.StrDeleterNotBoolean,
			"only deleters with boolean type are allowed, but type is %q", t.String()).
			At(r.definition, name).InFile(r.b.opts.File)
	}
	return Context{
		"name":                name,
		"is_custom":           ext.Has(extattr.Custom),
		"is_raises_exception": ext.Has(extattr.RaisesException),
	}, nil
}

func (r *run) specialOperations(o *owner, iface *idl.Interface, out Context) error {
	for _, kind := range []propertyKind{indexedProperty, namedProperty} {
		prefix := strings.ToLower(kind.label) + "_property_"
		getter, err := r.propertyGetter(iface, kind)
		if err != nil {
			return err
		}
		setter, err := r.propertySetter(o, iface, kind)
		if err != nil {
			return err
		}
		deleter, err := r.propertyDeleter(iface, kind)
		if err != nil {
			return err
		}
		out[prefix+"getter"] = getter
		out[prefix+"setter"] = setter
		out[prefix+"deleter"] = deleter
	}
	out["is_override_builtins"] = o.ext.Has(extattr.OverrideBuiltins)
	return nil
}
