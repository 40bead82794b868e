// Package engine implements the symbol matching strategies.
//
// A Matcher wraps one store handle and exposes the marker-level matching
// operations: functions, variables, strings, vtables, and function-local
// static variables, plus thunk synthesis and the vtordisp display-name
// correction. Every operation funnels through the store's pairing
// primitives, so the store's uniqueness invariants hold no matter which
// strategy established a match.
//
// Operations report failure as a boolean, never an error. Failing to match
// is a normal outcome here (the evidence may simply not be in the
// recompiled listing); the caller decides whether and how to log it.
package engine
