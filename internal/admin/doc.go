// Package admin provides the administrative level registry operators consult
// and edit.
//
// An Admin holds one LoggerContext per named scope. Each context stores a flat
// map from logger name to Level where an absent name means "inherit"; the root
// scope is keyed by RootLoggerName. Contexts are replaced wholesale through
// SetLogLevels and optionally persisted to SQLite through a Store.
package admin
