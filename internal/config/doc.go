// Package config loads, normalizes, and validates logbridge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the LOGBRIDGE_LOG_LEVEL
// environment override. Level names are case-folded during normalization so
// downstream parsers only ever see lower-case names.
//
// Always obtain settings through this package so the backend, the admin
// registry, and the CLI agree on paths and level vocabulary.
package config
