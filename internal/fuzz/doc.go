// Package fuzztests houses Go fuzz harnesses for the definition pipeline:
// decoding definition files and building contexts from whatever decodes.
// They guard against panics and against contexts that break the value
// rules templates rely on.
package fuzztests
