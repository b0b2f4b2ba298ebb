package bindctx

import (
	"strings"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/types"
)

// reflectAccessors returns the content attribute getter and setter used by
// [Reflect] for t.
func reflectAccessors(t types.Type, ext extattr.Set) (getter, setter string) {
	switch types.Base(t) {
	case "boolean":
		return "fastHasAttribute", "setBooleanAttribute"
	case "long":
		return "getIntegralAttribute", "setIntegralAttribute"
	case "unsigned long", "unsigned short":
		return "getUnsignedIntegralAttribute", "setUnsignedIntegralAttribute"
	}
	if ext.Has(extattr.URL) {
		return "getURLAttribute", "setAttribute"
	}
	return "fastGetAttribute", "setAttribute"
}

func (r *run) attribute(o *owner, a *idl.Attribute) (Context, error) {
	span := r.memberSpan("attribute:" + a.Name)
	defer span.End("")

	ext := r.ext(a.ExtAttrs, a.Name)
	t, err := r.parse(a.Type, a.Name)
	if err != nil {
		return nil, err
	}
	cppType, err := r.mapper.CppType(t, native.Usage{Ext: ext, RValue: true})
	if err != nil {
		return nil, r.fail(err, a.Name)
	}
	r.mapper.AddIncludesForType(t)

	cppName := naming.CppName(a.Name, ext)
	getterRaises := ext.RaisesException("Getter")
	setterRaises := ext.RaisesException("Setter")
	_, isReflect := ext.Value(extattr.Reflect)

	var getterValue, setterValue string
	if isReflect {
		content := ext.Get(extattr.Reflect)
		if content == "" {
			content = strings.ToLower(a.Name)
		}
		qualified := "HTMLNames::" + content + "Attr"
		get, set := reflectAccessors(t, ext)
		getterValue = "impl->" + get + "(" + qualified + ")"
		setterValue = "impl->" + set + "(" + qualified + ", cppValue)"
		r.mapper.Declarations().Add("core/HTMLNames.h")
	} else {
		args := naming.CallWithArguments(ext, extattr.CallWith)
		if types.IsExplicitNullable(t) {
			args = append(args, "isNull")
		}
		if getterRaises {
			args = append(args, "exceptionState")
		}
		getterValue = naming.ScopedName(o.cppClass, ext, a.IsStatic, a.Name, cppName) + "(" + strings.Join(args, ", ") + ")"

		setArgs := append(naming.CallWithArguments(ext, extattr.CallWith), "cppValue")
		if setterRaises {
			setArgs = append(setArgs, "exceptionState")
		}
		setterValue = naming.ScopedName(o.cppClass, ext, a.IsStatic, a.Name, "set"+naming.Capitalize(cppName)) + "(" + strings.Join(setArgs, ", ") + ")"
	}

	opts := native.ReturnOptions{Release: native.IsRelease(t)}
	if !a.IsStatic {
		opts.ScriptWrappable = "impl"
	}
	setReturn, err := r.mapper.SetReturnValue(t, "cppValue", ext, opts)
	if err != nil {
		return nil, r.fail(err, a.Name)
	}
	toHost, err := r.mapper.ToHost(t, "cppValue", ext, "", "")
	if err != nil {
		return nil, r.fail(err, a.Name)
	}

	typeCheck := (o.ext.Contains(extattr.TypeChecking, "Interface") || ext.Contains(extattr.TypeChecking, "Interface")) &&
		types.IsWrapperType(t)
	var toLocal any
	if !a.IsReadOnly {
		local, err := r.mapper.ToLocal(t, ext, "v8Value", native.LocalOptions{
			Variable:  "cppValue",
			Index:     -1,
			TypeCheck: typeCheck,
		})
		if err != nil {
			return nil, r.fail(err, a.Name)
		}
		toLocal = local
	}

	var constructorType any
	if base := types.Base(t); types.IsInterfaceType(t) && strings.HasSuffix(base, "Constructor") {
		constructorType = strings.TrimSuffix(base, "Constructor")
	}
	if ext.HasAny(extattr.MeasureAs, extattr.DeprecateAs) {
		r.mapper.Declarations().Add("core/frame/UseCounter.h")
	}
	checkNode := ext.Contains(extattr.CheckSecurity, "Node")
	if checkNode {
		r.mapper.Declarations().Add("bindings/core/v8/BindingSecurity.h")
	}
	getterWorlds := naming.ActivityLoggingWorlds(ext, "Getter")
	setterWorlds := naming.ActivityLoggingWorlds(ext, "Setter")
	if len(getterWorlds) > 0 || len(setterWorlds) > 0 {
		r.mapper.Declarations().Add("bindings/core/v8/V8DOMActivityLogger.h")
	}

	return Context{
		"name":                                   a.Name,
		"cpp_name":                               cppName,
		"idl_type":                               t.String(),
		"cpp_type":                               cppType,
		"cpp_value":                              getterValue,
		"cpp_setter":                             setterValue,
		"cpp_value_to_v8_value":                  toHost,
		"v8_set_return_value":                    setReturn,
		"v8_value_to_local_cpp_value":            toLocal,
		"constructor_type":                       constructorType,
		"is_static":                              a.IsStatic,
		"is_read_only":                           a.IsReadOnly,
		"is_replaceable":                         ext.Has(extattr.Replaceable),
		"is_unforgeable":                         ext.Has(extattr.Unforgeable),
		"is_reflect":                             isReflect,
		"is_url":                                 ext.Has(extattr.URL),
		"is_nullable":                            types.IsNullable(t),
		"is_explicit_nullable":                   types.IsExplicitNullable(t),
		"is_implicit_nullable":                   types.IsImplicitNullable(t),
		"is_per_world_bindings":                  ext.Has(extattr.PerWorldBindings),
		"is_custom_getter":                       ext.IsCustom("Getter"),
		"is_custom_setter":                       ext.IsCustom("Setter"),
		"is_getter_raises_exception":             getterRaises,
		"is_setter_raises_exception":             setterRaises,
		"has_setter_exception_state":             setterRaises || native.NeedsExceptionState(t),
		"has_type_checking_interface":            typeCheck,
		"is_check_security_for_node":             checkNode,
		"is_call_with_execution_context":         ext.Contains(extattr.CallWith, "ExecutionContext"),
		"is_call_with_script_state":              ext.Contains(extattr.CallWith, "ScriptState"),
		"is_expose_js_accessors":                 !a.IsStatic && !ext.Has(extattr.Unforgeable) && !o.ext.HasAny(extattr.Global, extattr.PrimaryGlobal),
		"is_initialized_by_event_constructor":    ext.Has(extattr.InitializedByEventConstructor),
		"put_forwards":                           orNil(ext.Get(extattr.PutForwards)),
		"cached_attribute_validation_method":     orNil(ext.Get(extattr.CachedAttribute)),
		"runtime_enabled_function":               orNil(naming.RuntimeEnabledFunction(ext)),
		"per_context_enabled_function":           orNil(naming.PerContextEnabledFunction(ext)),
		"conditional_string":                     orNil(naming.ConditionalString(ext)),
		"measure_as":                             orNil(ext.Get(extattr.MeasureAs)),
		"deprecate_as":                           orNil(ext.Get(extattr.DeprecateAs)),
		"activity_logging_world_list_for_getter": getterWorlds,
		"activity_logging_world_list_for_setter": setterWorlds,
		"activity_logging_world_check":           naming.ActivityLoggingWorldCheck(ext),
	}, nil
}

// attributes builds every attribute plus the aggregate flags templates use
// to decide which registration tables to emit.
func (r *run) attributes(o *owner, iface *idl.Interface, out Context) error {
	attrs := make([]Context, 0, len(iface.Attributes))
	var accessors, configuration, constructorAttrs, perContext, replaceable bool
	var anyType []string
	for _, a := range iface.Attributes {
		ctx, err := r.attribute(o, a)
		if err != nil {
			return err
		}
		attrs = append(attrs, ctx)
		expose := ctx["is_expose_js_accessors"] == true
		accessors = accessors || expose
		if !expose && ctx["is_static"] == false && ctx["runtime_enabled_function"] == nil && ctx["per_context_enabled_function"] == nil {
			configuration = true
		}
		constructorAttrs = constructorAttrs || ctx["constructor_type"] != nil
		perContext = perContext || ctx["per_context_enabled_function"] != nil
		replaceable = replaceable || ctx["is_replaceable"] == true
		if ctx["idl_type"] == "any" {
			anyType = append(anyType, a.Name)
		}
	}
	out["attributes"] = attrs
	out["any_type_attributes"] = anyType
	out["has_accessors"] = accessors
	out["has_attribute_configuration"] = configuration
	out["has_constructor_attributes"] = constructorAttrs
	out["has_per_context_enabled_attributes"] = perContext
	out["has_replaceable_attributes"] = replaceable
	return nil
}
