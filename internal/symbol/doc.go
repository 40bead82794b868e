// Package symbol provides the shared vocabulary types for resym.
//
// This package contains type definitions only. All other internal packages
// import symbol; symbol imports nothing internal. This keeps it the
// foundational layer with no circular dependencies.
//
// Addresses are virtual addresses in either the original or the recompiled
// binary and are formatted as 0x-prefixed hex everywhere a human or a JSON
// file sees them.
package symbol
