// Package store holds the symbol records of one matching run.
//
// One record exists per known symbol, carrying an optional original-binary
// address, an optional recompiled-binary address, a classification, naming
// metadata, and a size. Records live in a single arena shared by two sorted
// address indices (original side and recompiled side) plus name and
// decorated-name indices, so uniqueness checks and floor/next lookups are
// direct index operations.
//
// # Contracts
//
// Partial unique keys: at most one record per original address and at most
// one per recompiled address; an absent address never collides.
//
// Silent duplicate tolerance: inserting an address that already exists on
// that side is a no-op, never an error. Upstream extraction passes overlap
// and re-ingesting their output must be safe.
//
// Pairing is monotonic: once a record has an original address, no pairing
// call reassigns it. SetPair and SetPairTentative return false instead.
//
// The store is built for one synchronous pass and is not safe for
// concurrent use. Nothing persists across runs.
package store
