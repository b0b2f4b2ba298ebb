// Package bindctx turns one parsed interface or dictionary into the flat
// context a template renderer consumes. It drives the type mapper for every
// member type and the overload resolver for every name declared more than
// once.
//
// A Context holds only strings, bools, ints, nil, []string, []int, []Context
// and nested Contexts, so it can be encoded as JSON or msgpack as is.
package bindctx

import (
	"fmt"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/extattr"
	"github.com/2gis/2gisqt5android/internal/native"
	"github.com/2gis/2gisqt5android/internal/trace"
	"github.com/2gis/2gisqt5android/internal/types"
)

// Context is the generation-ready description of one definition.
type Context map[string]any

// Options configure a Builder. All fields are optional.
type Options struct {
	// Reporter receives informational diagnostics such as ignored extended
	// attributes.
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// ParentSpan parents the definition spans the builder opens.
	ParentSpan uint64
	// File is recorded in diagnostic locations.
	File string
}

// Builder builds contexts against one read-only registry. A Builder may be
// shared by goroutines; every Build call owns its own declarations.
type Builder struct {
	reg  *types.Registry
	opts Options
}

func NewBuilder(reg *types.Registry, opts Options) *Builder {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Builder{reg: reg, opts: opts}
}

func (b *Builder) Registry() *types.Registry { return b.reg }

// run is the state of one Build call.
type run struct {
	b          *Builder
	definition string
	mapper     *native.Mapper
	span       *trace.Span
}

func (b *Builder) newRun(kind, definition string) *run {
	return &run{
		b:          b,
		definition: definition,
		mapper:     native.NewMapper(b.reg, native.NewDeclarations()),
		span:       trace.Begin(b.opts.Tracer, trace.ScopeDefinition, kind+":"+definition, b.opts.ParentSpan),
	}
}

// finish closes the definition span, labelling it with the outcome.
func (r *run) finish(err error) {
	detail := "ok"
	if err != nil {
		detail = "failed"
	}
	r.span.WithExtra("includes", fmt.Sprint(r.mapper.Declarations().Len())).End(detail)
}

func (r *run) location(member string) diag.Location {
	return diag.Location{File: r.b.opts.File, Definition: r.definition, Member: member}
}

// ext parses a raw attribute bag; names outside the known set are dropped,
// traced and reported as info diagnostics.
func (r *run) ext(raw map[string]string, member string) extattr.Set {
	return extattr.Parse(raw, func(name, value string) {
		trace.Point(r.b.opts.Tracer, trace.ScopeMember, "extattr.unknown", name, r.span.ID())
		if r.b.opts.Reporter == nil {
			return
		}
		msg := fmt.Sprintf("unknown extended attribute [%s] ignored", name)
		if value != "" {
			msg = fmt.Sprintf("unknown extended attribute [%s=%s] ignored", name, value)
		}
		diag.ReportInfo(r.b.opts.Reporter, diag.ExtUnknownAttribute, r.location(member), msg).Emit()
	})
}

// parse resolves a type descriptor of member.
func (r *run) parse(desc, member string) (types.Type, error) {
	t, err := r.b.reg.Parse(desc)
	if err != nil {
		return nil, diag.Wrap(diag.KindMapping, diag.MapBadDescriptor, err).At(r.definition, member).InFile(r.b.opts.File)
	}
	return t, nil
}

// fail completes the location of err, which must come from the mapper or
// the resolver.
func (r *run) fail(err error, member string) error {
	if e, ok := diag.AsError(err); ok {
		return e.At(r.definition, member).InFile(r.b.opts.File)
	}
	return fmt.Errorf("%s.%s: %w", r.definition, member, err)
}

// memberSpan opens a member-scope span under the definition.
func (r *run) memberSpan(name string) *trace.Span {
	return trace.Begin(r.b.opts.Tracer, trace.ScopeMember, name, r.span.ID())
}

// cppIncludes returns the headers recorded so far, sorted.
func (r *run) cppIncludes() []string {
	return r.mapper.Declarations().Includes()
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
