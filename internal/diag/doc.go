// Package diag defines the diagnostic model shared by the generator core and
// the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form such as OVL2001.
//   - Message – short human oriented text.
//   - Primary – the Location (input file, definition, member) at fault.
//   - Notes – optional secondary locations with extra context.
//
// # Errors
//
// The core never reports through a Reporter. It returns *Error values whose
// Kind classifies the failure (mapping, overload ambiguity, overload length,
// attribute conflict, structural). Callers match kinds with errors.Is against
// the Err* sentinels and turn errors into diagnostics with Error.Diagnostic.
//
// # Emitting diagnostics
//
// The driver collects diagnostics through a Reporter, usually a BagReporter
// over a per-definition Bag. Bags are merged, sorted and deduplicated before
// internal/diagfmt renders them.
package diag
