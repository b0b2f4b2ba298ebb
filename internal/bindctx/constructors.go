package bindctx

import (
	"slices"
	"strings"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/overload"
	"github.com/2gis/2gisqt5android/internal/types"
)

const namedConstructorOp = "NamedConstructor"

func (r *run) constructor(o *owner, op *idl.Operation) (*callable, error) {
	ext := r.ext(op.ExtAttrs, "Constructor")
	named := op.Name == namedConstructorOp
	ctorOp := *op
	ctorOp.Name = "Constructor"
	if named {
		ctorOp.Name = namedConstructorOp
	}
	sig, err := r.signature(&ctorOp, ext, true)
	if err != nil {
		return nil, err
	}
	args, err := r.arguments(o, &ctorOp, sig)
	if err != nil {
		return nil, err
	}

	raises := o.ext.Get(extattr.RaisesException) == "Constructor"
	needsState := raises
	callArgs := naming.CallWithArguments(o.ext, extattr.ConstructorCallWith)
	for _, a := range sig.Arguments {
		callArgs = append(callArgs, a.Name)
		if types.IsIntegerType(a.Type) || types.Base(a.Type) == "SerializedScriptValue" {
			needsState = true
		}
	}
	if raises {
		callArgs = append(callArgs, "exceptionState")
	}
	create := naming.ScopedName(o.cppClass, ext, true, ctorOp.Name, "create")

	return &callable{sig: sig, ctx: Context{
		"arguments":                    args,
		"cpp_type":                     native.PointerType("RefPtr", "RawPtr", o.gc, o.cppClass),
		"cpp_value":                    create + "(" + strings.Join(callArgs, ", ") + ")",
		"has_exception_state":          needsState,
		"is_constructor":               true,
		"is_named_constructor":         named,
		"number_of_arguments":          len(args),
		"number_of_required_arguments": sig.RequiredArguments(),
	}}, nil
}

// constructors fills the [Constructor], [NamedConstructor],
// [CustomConstructor] and [EventConstructor] keys.
func (r *run) constructors(o *owner, iface *idl.Interface, out Context) error {
	span := r.memberSpan("constructors")
	defer span.End("")

	var calls []*callable
	var namedOp *idl.Operation
	for _, op := range iface.Constructors {
		if op.Name == namedConstructorOp {
			namedOp = op
			continue
		}
		c, err := r.constructor(o, op)
		if err != nil {
			return err
		}
		calls = append(calls, c)
	}
	ctors := make([]Context, len(calls))
	for i, c := range calls {
		ctors[i] = c.ctx
	}
	out["constructors"] = ctors
	out["constructor_overloads"] = nil
	if len(calls) > 1 {
		sigs := make([]*overload.Signature, len(calls))
		bySig := make(map[*overload.Signature]*callable, len(calls))
		for i, c := range calls {
			sigs[i] = c.sig
			bySig[c.sig] = c
		}
		ov, err := r.overloads(sigs, bySig)
		if err != nil {
			return err
		}
		out["constructor_overloads"] = ov
	}

	// Custom constructors only contribute to the interface length.
	required := make([]int, 0, len(calls)+len(iface.CustomConstructors))
	for _, c := range calls {
		required = append(required, c.sig.RequiredArguments())
	}
	for _, op := range iface.CustomConstructors {
		n := 0
		for _, a := range op.Arguments {
			if !a.IsOptional && !a.IsVariadic {
				n++
			}
		}
		required = append(required, n)
	}
	hasCustom := len(iface.CustomConstructors) > 0 || o.ext.Has(extattr.CustomConstructor)

	hasEvent := o.ext.Has(extattr.EventConstructor)
	if hasEvent {
		r.mapper.Declarations().Add("bindings/core/v8/Dictionary.h")
		for _, a := range iface.Attributes {
			if a.Type == "any" {
				r.mapper.Declarations().Add("bindings/core/v8/SerializedScriptValue.h")
				break
			}
		}
	}

	var named any
	if name, ok := o.ext.Value(extattr.NamedConstructor); ok {
		if namedOp == nil {
			namedOp = &idl.Operation{Name: namedConstructorOp}
		}
		c, err := r.constructor(o, namedOp)
		if err != nil {
			return err
		}
		c.ctx["name"] = name
		named = c.ctx
	}

	if len(calls) > 0 || hasCustom || hasEvent || named != nil {
		r.mapper.Declarations().Add("bindings/core/v8/V8ObjectConstructor.h", "core/frame/LocalDOMWindow.h")
	}

	length := 0
	switch {
	case hasEvent:
		length = 1
	case len(required) > 0:
		length = slices.Min(required)
	}

	out["named_constructor"] = named
	out["has_custom_constructor"] = hasCustom
	out["has_event_constructor"] = hasEvent
	out["interface_length"] = length
	out["is_constructor_call_with_document"] = o.ext.Contains(extattr.ConstructorCallWith, "Document")
	out["is_constructor_call_with_execution_context"] = o.ext.Contains(extattr.ConstructorCallWith, "ExecutionContext")
	out["is_constructor_raises_exception"] = o.ext.Get(extattr.RaisesException) == "Constructor"
	return nil
}
