// Package signature validates and normalizes upstream function-signature
// records for matched functions.
//
// The records come from debug-info extraction on the recompiled binary:
// calling convention, return and class types, declared arguments, and the
// stack symbol layout. Resolution cross-checks each record against the
// match database and against itself; contradictory records are the one
// error class in this system that aborts a run, because they mean the
// inputs were built from different snapshots.
package signature
