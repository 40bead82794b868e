// Package ingest loads symbol listings into the record store.
//
// Listings are JSON arrays produced by the binary analysis tooling: one
// for the original binary, one for the recompiled binary, and optionally
// one of pre-paired address ranges (jump tables and similar data the
// analyzer can line up directly). Addresses are hex strings.
//
// Recompiled rows that arrive with only a decorated name are classified
// here: string constant and vtable symbols are recognizable from the
// decoration alone.
package ingest
