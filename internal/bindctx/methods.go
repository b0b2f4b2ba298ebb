package bindctx

import (
	"fmt"
	"strings"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/overload"
	"github.com/2gis/2gisqt5android/internal/types"
)

// owner is what member builders need to know about the enclosing interface.
type owner struct {
	name     string
	cppClass string
	ext      extattr.Set
	gc       types.GCType
}

// callable is a method or constructor together with its signature.
type callable struct {
	sig *overload.Signature
	ctx Context
}

// signature converts op's arguments into resolver input.
func (r *run) signature(op *idl.Operation, ext extattr.Set, constructor bool) (*overload.Signature, error) {
	sig := &overload.Signature{Name: op.Name, Static: op.IsStatic, Constructor: constructor, Ext: ext}
	for _, a := range op.Arguments {
		t, err := r.parse(a.Type, memberName(op, a.Name))
		if err != nil {
			return nil, err
		}
		sig.Arguments = append(sig.Arguments, overload.Argument{
			Name:     a.Name,
			Type:     t,
			Optional: a.IsOptional,
			Variadic: a.IsVariadic,
		})
	}
	return sig, nil
}

func memberName(op *idl.Operation, arg string) string {
	name := op.Name
	if name == "" {
		name = "<anonymous>"
	}
	if arg == "" {
		return name
	}
	return name + "(" + arg + ")"
}

func (r *run) arguments(o *owner, op *idl.Operation, sig *overload.Signature) ([]Context, error) {
	out := make([]Context, 0, len(sig.Arguments))
	for i, arg := range sig.Arguments {
		ctx, err := r.argument(o, op, sig.Ext, arg, op.Arguments[i], i)
		if err != nil {
			return nil, err
		}
		out = append(out, ctx)
	}
	return out, nil
}

func (r *run) argument(o *owner, op *idl.Operation, opExt extattr.Set, arg overload.Argument, raw *idl.Argument, index int) (Context, error) {
	member := memberName(op, arg.Name)
	ext := r.ext(raw.ExtAttrs, member)
	t := arg.Type

	cppType, err := r.mapper.CppType(t, native.Usage{Ext: ext, RValue: true, Variadic: arg.Variadic})
	if err != nil {
		return nil, r.fail(err, member)
	}
	typeCheck := (o.ext.Contains(extattr.TypeChecking, "Interface") || opExt.Contains(extattr.TypeChecking, "Interface")) &&
		types.IsWrapperType(t)

	v8Value := fmt.Sprintf("info[%d]", index)
	var local string
	if arg.Variadic {
		elem, err := r.mapper.CppType(t, native.Usage{})
		if err != nil {
			return nil, r.fail(err, member)
		}
		r.mapper.AddIncludesForType(t)
		local = fmt.Sprintf("%s = toImplArguments<%s>(info, %d, exceptionState)", arg.Name, elem, index)
	} else {
		local, err = r.mapper.ToLocal(t, ext, v8Value, native.LocalOptions{
			Variable:  arg.Name,
			Index:     index,
			TypeCheck: typeCheck,
		})
		if err != nil {
			return nil, r.fail(err, member)
		}
	}

	ctx := Context{
		"name":                        arg.Name,
		"index":                       index,
		"idl_type":                    t.String(),
		"cpp_type":                    cppType,
		"cpp_value":                   arg.Name,
		"is_optional":                 arg.Optional,
		"is_variadic":                 arg.Variadic,
		"is_variadic_wrapper_type":    arg.Variadic && types.IsWrapperType(t),
		"is_nullable":                 types.IsNullable(t),
		"is_dictionary":               types.IsDictionary(t),
		"is_union_type":               types.IsUnion(t),
		"is_callback_interface":       r.b.reg.IsCallbackInterface(types.Base(t)),
		"has_type_checking_interface": typeCheck,
		"has_default":                 raw.Default != nil,
		"default_value":               nil,
		"enum_validation_expression":  nil,
		"v8_value_to_local_cpp_value": local,
	}
	if raw.Default != nil {
		ctx["default_value"] = native.Literal(t, *raw.Default)
	}
	if types.IsEnum(t) {
		values, _ := r.b.reg.EnumValues(types.Base(t))
		ctx["enum_validation_expression"] = naming.EnumValidationExpression(values)
	}
	return ctx, nil
}

// method builds the context of a named operation.
func (r *run) method(o *owner, op *idl.Operation) (*callable, error) {
	span := r.memberSpan("operation:" + op.Name)
	defer span.End("")

	ext := r.ext(op.ExtAttrs, op.Name)
	sig, err := r.signature(op, ext, false)
	if err != nil {
		return nil, err
	}
	ret, err := r.parse(returnType(op), op.Name)
	if err != nil {
		return nil, err
	}
	args, err := r.arguments(o, op, sig)
	if err != nil {
		return nil, err
	}

	cppType, err := r.mapper.CppType(ret, native.Usage{Ext: ext, RValue: true})
	if err != nil {
		return nil, r.fail(err, op.Name)
	}
	r.mapper.AddIncludesForType(ret)

	raises := ext.RaisesException("")
	needsState := raises
	for _, a := range sig.Arguments {
		if native.NeedsExceptionState(a.Type) {
			needsState = true
		}
	}

	cppName := naming.CppName(op.Name, ext)
	callArgs := naming.CallWithArguments(ext, extattr.CallWith)
	for _, a := range sig.Arguments {
		callArgs = append(callArgs, a.Name)
	}
	useOutput := native.UseOutputParameter(ret)
	if useOutput {
		callArgs = append(callArgs, "result")
	}
	if raises {
		callArgs = append(callArgs, "exceptionState")
	}
	cppValue := naming.ScopedName(o.cppClass, ext, op.IsStatic, op.Name, cppName) + "(" + strings.Join(callArgs, ", ") + ")"

	var setReturn, setReturnMainWorld string
	if types.Base(ret) != "void" {
		opts := native.ReturnOptions{Release: native.IsRelease(ret)}
		if !op.IsStatic {
			opts.ScriptWrappable = "impl"
		}
		if setReturn, err = r.mapper.SetReturnValue(ret, "result", ext, opts); err != nil {
			return nil, r.fail(err, op.Name)
		}
		opts.ForMainWorld = true
		if setReturnMainWorld, err = r.mapper.SetReturnValue(ret, "result", ext, opts); err != nil {
			return nil, r.fail(err, op.Name)
		}
	}

	checkFrame := o.ext.Contains(extattr.CheckSecurity, "Frame") && !ext.Has(extattr.DoNotCheckSecurity)
	checkNode := ext.Contains(extattr.CheckSecurity, "Node")
	if checkFrame || checkNode {
		r.mapper.Declarations().Add("bindings/core/v8/BindingSecurity.h")
	}
	if ext.HasAny(extattr.MeasureAs, extattr.DeprecateAs) {
		r.mapper.Declarations().Add("core/frame/UseCounter.h")
	}
	if ext.Contains(extattr.CallWith, "ScriptState") {
		r.mapper.Declarations().Add("bindings/core/v8/ScriptState.h")
	}
	worlds := naming.ActivityLoggingWorlds(ext, "")
	if len(worlds) > 0 {
		r.mapper.Declarations().Add("bindings/core/v8/V8DOMActivityLogger.h")
	}

	ctx := Context{
		"name":                               op.Name,
		"cpp_name":                           cppName,
		"idl_type":                           ret.String(),
		"cpp_type":                           cppType,
		"cpp_value":                          cppValue,
		"arguments":                          args,
		"number_of_arguments":                len(args),
		"number_of_required_arguments":       sig.RequiredArguments(),
		"is_static":                          op.IsStatic,
		"is_custom":                          ext.Has(extattr.Custom),
		"is_raises_exception":                raises,
		"has_exception_state":                needsState || checkNode,
		"is_call_with_script_state":          ext.Contains(extattr.CallWith, "ScriptState"),
		"is_call_with_execution_context":     ext.Contains(extattr.CallWith, "ExecutionContext"),
		"is_call_with_script_arguments":      ext.Contains(extattr.CallWith, "ScriptArguments"),
		"is_check_security_for_frame":        checkFrame,
		"is_check_security_for_node":         checkNode,
		"is_do_not_check_security":           ext.Has(extattr.DoNotCheckSecurity),
		"is_do_not_check_signature":          ext.Has(extattr.DoNotCheckSignature),
		"is_not_enumerable":                  ext.Has(extattr.NotEnumerable),
		"is_read_only":                       ext.Has(extattr.ReadOnly),
		"is_unforgeable":                     ext.Has(extattr.Unforgeable),
		"is_per_world_bindings":              ext.Has(extattr.PerWorldBindings),
		"has_custom_registration":            sig.HasCustomRegistration(),
		"runtime_enabled_function":           orNil(sig.RuntimeEnabledFunction()),
		"per_context_enabled_function":       orNil(sig.PerContextEnabledFunction()),
		"conditional_string":                 orNil(naming.ConditionalString(ext)),
		"deprecate_as":                       orNil(ext.Get(extattr.DeprecateAs)),
		"measure_as":                         orNil(ext.Get(extattr.MeasureAs)),
		"activity_logging_world_list":        worlds,
		"activity_logging_world_check":       naming.ActivityLoggingWorldCheck(ext),
		"use_output_parameter_for_result":    useOutput,
		"v8_set_return_value":                setReturn,
		"v8_set_return_value_for_main_world": setReturnMainWorld,
	}
	return &callable{sig: sig, ctx: ctx}, nil
}

func returnType(op *idl.Operation) string {
	if op.ReturnType == "" {
		return "void"
	}
	return op.ReturnType
}

// applyOverloads numbers the overloads of every name declared more than
// once and attaches the dispatch metadata to the last overload of each.
func (r *run) applyOverloads(calls []*callable) error {
	sigs := make([]*overload.Signature, len(calls))
	bySig := make(map[*overload.Signature]*callable, len(calls))
	for i, c := range calls {
		sigs[i] = c.sig
		bySig[c.sig] = c
	}
	for _, group := range overload.GroupOverloaded(sigs) {
		ctx, err := r.overloads(group.Signatures, bySig)
		if err != nil {
			return err
		}
		ctx["name"] = group.Name
		bySig[group.Signatures[len(group.Signatures)-1]].ctx["overloads"] = ctx
	}
	return nil
}

// overloads resolves one group, setting overload_index on each member.
func (r *run) overloads(sigs []*overload.Signature, bySig map[*overload.Signature]*callable) (Context, error) {
	index := make(map[*overload.Signature]int, len(sigs))
	for i, sig := range sigs {
		index[sig] = i + 1
		bySig[sig].ctx["overload_index"] = i + 1
	}
	name := sigs[0].DisplayName()
	span := r.memberSpan("overloads:" + name)
	o, err := overload.Resolve(sigs)
	if err != nil {
		span.End("failed")
		return nil, r.fail(err, name)
	}
	span.WithExtra("minarg", fmt.Sprint(o.MinArg)).WithExtra("maxarg", fmt.Sprint(o.MaxArg)).End("")

	lengthTests := make([]Context, 0, len(o.LengthTests))
	for _, lt := range o.LengthTests {
		tests := make([]Context, 0, len(lt.Tests))
		for _, t := range lt.Tests {
			tests = append(tests, Context{"test": t.Expr, "overload_index": index[t.Signature]})
		}
		lengthTests = append(lengthTests, Context{"length": lt.Length, "tests": tests})
	}
	var validArities any
	if o.ValidArities != nil {
		validArities = o.ValidArities
	}
	return Context{
		"name":                             o.Name,
		"minarg":                           o.MinArg,
		"maxarg":                           o.MaxArg,
		"valid_arities":                    validArities,
		"length_tests":                     lengthTests,
		"deprecate_all_as":                 orNil(o.DeprecateAllAs),
		"measure_all_as":                   orNil(o.MeasureAllAs),
		"runtime_enabled_function_all":     orNil(o.RuntimeEnabledAll),
		"per_context_enabled_function_all": orNil(o.PerContextEnabledAll),
		"has_custom_registration_all":      o.HasCustomRegistrationAll,
	}, nil
}

// methods builds every named operation and sorts the results into the
// registration buckets.
func (r *run) methods(o *owner, iface *idl.Interface, out Context) error {
	var calls []*callable
	for _, op := range iface.Operations {
		if op.Name == "" {
			continue
		}
		c, err := r.method(o, op)
		if err != nil {
			return err
		}
		calls = append(calls, c)
	}
	if err := r.applyOverloads(calls); err != nil {
		return err
	}

	methods := make([]Context, 0, len(calls))
	var perContext, customRegistration, configuration []Context
	originSafeSetter := false
	for _, c := range calls {
		m := c.ctx
		methods = append(methods, m)
		overloads, isLast := m["overloads"].(Context)
		if isLast {
			m["length"] = overloads["minarg"]
		} else {
			m["length"] = m["number_of_required_arguments"]
		}
		if m["is_check_security_for_frame"] == true && m["is_read_only"] == false {
			originSafeSetter = true
		}

		if _, overloaded := m["overload_index"]; overloaded && !isLast {
			continue
		}
		perContextFn, runtimeFn, custom := m["per_context_enabled_function"], m["runtime_enabled_function"], m["has_custom_registration"] == true
		if isLast {
			perContextFn, runtimeFn = overloads["per_context_enabled_function_all"], overloads["runtime_enabled_function_all"]
			custom = overloads["has_custom_registration_all"] == true
		}
		switch {
		case perContextFn != nil:
			perContext = append(perContext, m)
		case runtimeFn != nil || custom:
			customRegistration = append(customRegistration, m)
		default:
			configuration = append(configuration, m)
		}
	}
	out["methods"] = methods
	out["per_context_enabled_methods"] = perContext
	out["custom_registration_methods"] = customRegistration
	out["method_configuration_methods"] = configuration
	out["has_origin_safe_method_setter"] = originSafeSetter
	return nil
}
