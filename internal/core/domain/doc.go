// Package domain contains the core entities of the lexwatch pipeline:
// tracked sources, document identities, version snapshots and the
// sentinel errors shared across services and adapters.
package domain
