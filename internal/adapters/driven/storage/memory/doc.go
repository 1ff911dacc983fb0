// Package memory provides in-memory implementations of the driven store
// ports. Used for testing and as a fallback when persistence is disabled.
package memory
