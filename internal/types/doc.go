// doc.go — Package documentation for foundational cross-cutting types.

// Package types provides the foundational, zero-dependency types for netlog.
//
// This package contains the type definitions shared by several packages:
//   - Captured log entries (log, request, response)
//   - Debugging targets (tabs reported by the DevTools endpoint)
//   - Page resources and the per-type resource tally
//
// Design Principle: Zero Dependencies
// This package imports only the Go standard library. It is safe to import from
// any other package without creating circular dependencies.
//
// Architecture Layer: Foundation
//   Layer 1: types (zero deps) ← YOU ARE HERE
//   Layer 2: Domain packages (buffers, debugger, capture, export, panel)
//   Layer 3: Wiring (cmd/netlog)
package types
