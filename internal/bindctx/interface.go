package bindctx

import (
	"strings"

	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/naming"
	"github.com/2gis/2gisqt5android/internal/types"
)

var (
	interfaceHeaderIncludes = []string{
		"bindings/core/v8/ScriptWrappable.h",
		"bindings/core/v8/V8Binding.h",
		"bindings/core/v8/V8DOMWrapper.h",
		"bindings/core/v8/WrapperTypeInfo.h",
		"platform/heap/Handle.h",
	}
	interfaceCppIncludes = []string{
		"bindings/core/v8/ExceptionState.h",
		"bindings/core/v8/V8DOMConfiguration.h",
		"bindings/core/v8/V8HiddenValue.h",
		"bindings/core/v8/V8ObjectConstructor.h",
		"core/dom/ContextFeatures.h",
		"core/dom/Document.h",
		"platform/RuntimeEnabledFeatures.h",
		"platform/TraceEvent.h",
		"wtf/GetPtr.h",
		"wtf/RefPtr.h",
	}
)

// gcType prefers the interface's own attributes over the global tables.
func (r *run) gcType(name string, ext extattr.Set) types.GCType {
	switch {
	case ext.Has(extattr.GarbageCollected):
		return types.GarbageCollected
	case ext.Has(extattr.WillBeGarbageCollected):
		return types.WillBeGarbageCollected
	}
	return r.b.reg.GCTypeOf(name)
}

// BuildInterface returns the binding context of iface.
func (b *Builder) BuildInterface(iface *idl.Interface) (ctx Context, err error) {
	r := b.newRun("interface", iface.Name)
	defer func() { r.finish(err) }()

	ext := r.ext(iface.ExtAttrs, "")
	o := &owner{
		name:     iface.Name,
		cppClass: naming.CppName(iface.Name, ext),
		ext:      ext,
	}
	o.gc = r.gcType(iface.Name, ext)

	decls := r.mapper.Declarations()
	decls.Add(interfaceCppIncludes...)
	header := native.NewDeclarations()
	header.Add(interfaceHeaderIncludes...)
	if iface.Parent != "" {
		header.Add(r.mapper.IncludesForType(b.reg.Named(iface.Parent))...)
	}

	ctx = r.identity(o, iface)
	r.lifetime(o, ctx)

	if err := r.constructors(o, iface, ctx); err != nil {
		return nil, err
	}
	if err := r.constants(o, iface, ctx); err != nil {
		return nil, err
	}
	if err := r.attributes(o, iface, ctx); err != nil {
		return nil, err
	}
	if err := r.methods(o, iface, ctx); err != nil {
		return nil, err
	}
	if err := r.specialOperations(o, iface, ctx); err != nil {
		return nil, err
	}

	ctx["header_includes"] = header.Includes()
	ctx["cpp_includes"] = r.cppIncludes()
	return ctx, nil
}

func (r *run) identity(o *owner, iface *idl.Interface) Context {
	reg := r.b.reg
	isDocument := reg.Inherits(iface.Name, "Document")
	if isDocument {
		r.mapper.Declarations().Add(
			"bindings/core/v8/ScriptController.h",
			"bindings/core/v8/WindowProxy.h",
			"core/frame/LocalFrame.h",
		)
	}
	isAudioBuffer := reg.Inherits(iface.Name, "AudioBuffer")
	if isAudioBuffer {
		r.mapper.Declarations().Add("modules/webaudio/AudioBuffer.h")
	}
	if o.ext.Has(extattr.MeasureAs) {
		r.mapper.Declarations().Add("core/frame/UseCounter.h")
	}
	return Context{
		"interface_name":                     iface.Name,
		"cpp_class":                          o.cppClass,
		"v8_class":                           naming.V8ClassName(iface.Name),
		"parent_interface":                   orNil(iface.Parent),
		"gc_type":                            o.gc.String(),
		"pass_cpp_type":                      native.PointerType("PassRefPtr", "RawPtr", o.gc, o.cppClass),
		"conditional_string":                 orNil(naming.ConditionalString(o.ext)),
		"runtime_enabled_function":           orNil(naming.RuntimeEnabledFunction(o.ext)),
		"measure_as":                         orNil(o.ext.Get(extattr.MeasureAs)),
		"is_callback_interface":              iface.IsCallback,
		"is_node":                            reg.Inherits(iface.Name, "Node"),
		"is_document":                        isDocument,
		"is_event_target":                    reg.Inherits(iface.Name, "EventTarget"),
		"is_audio_buffer":                    isAudioBuffer,
		"has_custom_legacy_call_as_function": o.ext.Contains(extattr.Custom, "LegacyCallAsFunction"),
		"has_custom_to_v8":                   o.ext.Contains(extattr.Custom, "ToV8"),
		"has_custom_wrap":                    o.ext.Contains(extattr.Custom, "Wrap"),
	}
}

// lifetime fills the flags that decide how wrappers are kept alive.
func (r *run) lifetime(o *owner, ctx Context) {
	decls := r.mapper.Declarations()
	isActive := o.ext.Has(extattr.ActiveDOMObject)
	isDependent := o.ext.Has(extattr.DependentLifetime)
	isCheckSecurity := o.ext.Has(extattr.CheckSecurity)
	if isCheckSecurity {
		decls.Add("bindings/core/v8/BindingSecurity.h")
	}

	reachable := o.ext.Get(extattr.SetWrapperReferenceFrom)
	if reachable != "" {
		decls.Add("bindings/core/v8/V8GCController.h", "core/dom/Element.h")
	}

	// [SetWrapperReferenceTo(Type name, ...)] arrives as "Type name, ...".
	var referenceTo []Context
	for _, decl := range strings.Split(o.ext.Get(extattr.SetWrapperReferenceTo), ",") {
		fields := strings.Fields(decl)
		if len(fields) < 2 {
			continue
		}
		typeName, argName := strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
		t := r.b.reg.Named(typeName)
		r.mapper.AddIncludesForType(t)
		referenceTo = append(referenceTo, Context{
			"name":     argName,
			"idl_type": typeName,
			"cpp_type": r.b.reg.ImplementedAs(typeName) + "*",
			"v8_type":  naming.V8ClassName(typeName),
		})
	}

	var specialWrapFor []string
	if v := o.ext.Get(extattr.SpecialWrapFor); v != "" {
		specialWrapFor = strings.Split(v, "|")
		for _, name := range specialWrapFor {
			r.mapper.AddIncludesForInterface(name)
		}
	}

	hasVisit := o.ext.Contains(extattr.Custom, "VisitDOMWrapper") || reachable != "" || len(referenceTo) > 0
	config := "WrapperConfiguration::Independent"
	if hasVisit || isActive || isDependent {
		config = "WrapperConfiguration::Dependent"
	}

	ctx["is_active_dom_object"] = isActive
	ctx["is_dependent_lifetime"] = isDependent
	ctx["is_check_security"] = isCheckSecurity
	ctx["reachable_node_function"] = orNil(reachable)
	ctx["set_wrapper_reference_to_list"] = referenceTo
	ctx["special_wrap_for"] = specialWrapFor
	ctx["has_visit_dom_wrapper"] = hasVisit
	ctx["wrapper_configuration"] = config
}

// constants builds [Constant] contexts; DOMString values are re-quoted.
func (r *run) constants(o *owner, iface *idl.Interface, out Context) error {
	consts := make([]Context, 0, len(iface.Constants))
	for _, c := range iface.Constants {
		ext := r.ext(c.ExtAttrs, c.Name)
		t, err := r.parse(c.Type, c.Name)
		if err != nil {
			return err
		}
		value := c.Value
		if types.IsStringType(t) {
			value = `"` + value + `"`
		}
		reflected := c.Name
		if v := ext.Get(extattr.Reflect); v != "" {
			reflected = v
		}
		if ext.HasAny(extattr.DeprecateAs, extattr.MeasureAs) {
			r.mapper.Declarations().Add("core/frame/UseCounter.h")
		}
		consts = append(consts, Context{
			"name":                     c.Name,
			"idl_type":                 t.String(),
			"value":                    value,
			"reflected_name":           reflected,
			"cpp_class":                orNil(ext.Get(extattr.PartialInterfaceImplementedAs)),
			"runtime_enabled_function": orNil(naming.RuntimeEnabledFunction(ext)),
			"deprecate_as":             orNil(ext.Get(extattr.DeprecateAs)),
			"measure_as":               orNil(ext.Get(extattr.MeasureAs)),
		})
	}
	out["constants"] = consts
	out["do_not_check_constants"] = o.ext.Has(extattr.DoNotCheckConstants)
	return nil
}
