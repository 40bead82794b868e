// Package marker scans annotated C++ sources for decomp markers.
//
// A marker is a comment of the form
//
//	// FUNCTION: LEGO1 0x10037ef0
//
// tying the declaration that follows to an address in one module of the
// original binary. Several markers may precede one declaration (one per
// module); they form a run and share the same name evidence. The scanner
// extracts the name from the source itself: a name comment, the function
// or variable declaration, the class of a vtable, or the string literal on
// the next code line.
//
// Markers whose name cannot be determined are collected as scan errors and
// do not stop the scan.
package marker
