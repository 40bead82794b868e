package marker

import (
	"fmt"

	"resym/internal/symbol"
)

// Type is the marker keyword before the colon.
type Type string

const (
	TypeFunction  Type = "FUNCTION"
	TypeStub      Type = "STUB"
	TypeLibrary   Type = "LIBRARY"
	TypeSynthetic Type = "SYNTHETIC"
	TypeTemplate  Type = "TEMPLATE"
	TypeGlobal    Type = "GLOBAL"
	TypeVtable    Type = "VTABLE"
	TypeString    Type = "STRING"
)

var knownTypes = map[Type]bool{
	TypeFunction:  true,
	TypeStub:      true,
	TypeLibrary:   true,
	TypeSynthetic: true,
	TypeTemplate:  true,
	TypeGlobal:    true,
	TypeVtable:    true,
	TypeString:    true,
}

// isFunction reports whether the marker annotates a function definition or
// declaration. These markers share the declaration-name evidence rules and
// open an owner scope for static variables in their body.
func (t Type) isFunction() bool {
	return t == TypeFunction || t == TypeStub || t == TypeLibrary
}

// needsComment reports whether the marker has no declaration to read the
// name from, so the name comment on the following line is mandatory.
func (t Type) needsComment() bool {
	return t == TypeSynthetic || t == TypeTemplate
}

// Marker is one resolved annotation.
type Marker struct {
	Type   Type
	Module string
	Addr   symbol.Addr
	Name   string
	Extra  string // VTABLE: base class of a secondary table

	// Set when a GLOBAL marker sits inside a marked function body; the
	// owner is that function's address in the same module.
	OwnerAddr symbol.Addr
	HasOwner  bool

	File string
	Line int
}

// ScanError is a marker the scanner had to give up on. It never aborts the
// scan; callers report the collected errors after the fact.
type ScanError struct {
	File   string
	Line   int
	Reason string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}
