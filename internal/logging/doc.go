// Package logging is the hierarchical logging backend records are bridged
// into, plus the slog plumbing the bridge uses for its own diagnostics.
//
// A Context owns a tree of dot-named Loggers. Each logger may carry an
// explicit Level; loggers without one inherit the nearest explicit ancestor,
// and the root always has one. Context listeners are told about start, reset,
// stop, and every explicit level change, which is how administrative level
// registries stay in step with the tree.
//
// Records reach output through Appenders attached to loggers. The console and
// JSON slog handlers, the fan-out handler, and the StreamHub ring buffer are
// the concrete output stages; Configure assembles them from config.
package logging
