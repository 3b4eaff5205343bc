// Package schema defines the core types for declarative API containers:
// model descriptors, endpoint metadata, the uniform handler contract, and
// per-action CRUD overrides. Everything routing-related is derived from
// these minimal definitions.
package schema
