// Command logbridge runs the log bridge: it binds an administrative level
// registry and event sources to the backend logger tree, keeps levels in sync
// between the two, and forwards source entries as backend records.
//
// Subcommands cover the long-running bridge (run), one-shot replay of
// JSON-lines entries (ingest), level inspection (levels), and configuration
// scaffolding (config).
package main
