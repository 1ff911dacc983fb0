// Package file provides a TOML-backed configuration store.
// Settings live in ~/.lexwatch/config.toml by default and nested tables
// are exposed through dot-notation keys (e.g. "qa.context_budget").
package file
