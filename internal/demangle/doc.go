// Package demangle decodes the small corner of MSVC name mangling the
// matcher needs: encoded numbers, vtordisp adjuster thunk names, vftable
// display names, and string-constant symbols.
//
// It is not a general demangler. Symbols it does not understand yield
// empty results, never errors the caller has to branch on; a symbol the
// package cannot decode simply contributes no evidence.
package demangle
