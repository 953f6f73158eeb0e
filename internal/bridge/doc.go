// Package bridge connects event sources to the hierarchical logging backend
// and keeps the administrative level registry in step with the backend's
// logger tree.
//
// A Binding pairs one admin scope with the backend. Its LevelSync engine
// merges explicit backend levels into the admin registry, replicates backend
// level changes as they happen, and rolls the registry back to the captured
// baseline when the backend stops. Its Translator receives source entries,
// applies the synthetic-name conventions, suppresses disabled records, and
// dispatches the rest to the root logger's appenders.
//
// Lifecycle drives bindings from discovery: one binding per live admin
// service, attached to every live event source. BindStatic is the one-shot
// fallback for environments without a watchable registry.
package bridge
