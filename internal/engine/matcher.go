package engine

import (
	"fmt"

	"resym/internal/symbol"
)

// maxSymbolLen is the debug symbol length limit of the original toolchain.
// Names longer than this are stored truncated in the recompiled listing, so
// lookups must truncate the same way to find them.
const maxSymbolLen = 255

func truncate(name string) string {
	if len(name) > maxSymbolLen {
		return name[:maxSymbolLen]
	}
	return name
}

// matchOn resolves name against unmatched candidates of the given kind and
// pairs the first hit with the original address.
func (m *Matcher) matchOn(kind symbol.Kind, orig symbol.Addr, name string) (symbol.Addr, bool) {
	name = truncate(name)
	recomp, ok := m.store.FindUnmatchedByName(name, kind)
	if !ok {
		return 0, false
	}
	if !m.store.SetPair(orig, recomp, kind) {
		return 0, false
	}
	return recomp, true
}

// MatchFunction pairs the original address with the recompiled function of
// the given name. Decorated names (leading '?') resolve against the
// decorated-name index, demangled names against the display-name index.
func (m *Matcher) MatchFunction(orig symbol.Addr, name string) (symbol.Addr, bool) {
	return m.matchOn(symbol.KindFunction, orig, name)
}

// MatchVariable pairs the original address with the recompiled variable of
// the given name, trying plain data first and pointers second.
func (m *Matcher) MatchVariable(orig symbol.Addr, name string) (symbol.Addr, bool) {
	if recomp, ok := m.matchOn(symbol.KindData, orig, name); ok {
		return recomp, true
	}
	return m.matchOn(symbol.KindPointer, orig, name)
}

// MatchString pairs the original address with the recompiled string constant
// holding the given literal value. The value is compared as-is; a leading
// '?' is string content here, never decoration.
func (m *Matcher) MatchString(orig symbol.Addr, value string) (symbol.Addr, bool) {
	return m.matchOn(symbol.KindString, orig, value)
}

// MatchVtable pairs the original address with the virtual function table of
// class. When the table belongs to a base subobject, base names it and only
// the qualified form can match. The qualified form is always preferred; the
// bare form is a fallback reserved for the class's own table.
func (m *Matcher) MatchVtable(orig symbol.Addr, class, base string) (symbol.Addr, bool) {
	forClass := base
	if forClass == "" {
		forClass = class
	}
	qualified := fmt.Sprintf("%s::`vftable'{for `%s'}", class, forClass)
	if recomp, ok := m.matchOn(symbol.KindVtable, orig, qualified); ok {
		return recomp, true
	}
	if base == "" || base == class {
		return m.matchOn(symbol.KindVtable, orig, class+"::`vftable'")
	}
	return 0, false
}

// MatchStaticVariable pairs the original address with a function-local
// static variable. The owning function, identified by its original address,
// must already be matched and carry a decorated name; the variable is then
// found by scanning unmatched data records whose decorated name embeds the
// variable name inside the function's scope.
func (m *Matcher) MatchStaticVariable(orig symbol.Addr, varName string, fnOrig symbol.Addr) (symbol.Addr, bool) {
	fnSym, ok := m.store.OrigDecorated(fnOrig)
	if !ok || fnSym == "" {
		return 0, false
	}
	recomp, ok := m.store.FindUnmatchedStatic(varName, fnSym)
	if !ok {
		return 0, false
	}
	if !m.store.SetPair(orig, recomp, symbol.KindData) {
		return 0, false
	}
	return recomp, true
}
