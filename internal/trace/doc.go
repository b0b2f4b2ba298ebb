// Package trace records what the generator is doing: driver phases, passes
// over the input, and the definitions and members being built.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDefinition, "interface:Node", 0)
//	defer span.End("")
//
// Stream tracers write events as they happen (text or NDJSON). Ring tracers
// keep the most recent events in memory so they can be dumped when
// generation fails. The level decides which scopes are recorded:
// phase covers driver and passes, detail adds definitions, debug adds
// members.
package trace
