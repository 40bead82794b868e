package engine

import (
	"strings"

	"resym/internal/demangle"
	"resym/internal/symbol"
)

// IsVtordisp reports whether the recompiled address holds a vtordisp
// adjuster thunk.
//
// Display names for these thunks carry a `vtordisp{x,y}' qualifier, but
// some listings demangle the adjuster to the same display name as the
// method it forwards to. When the qualifier is missing, it is derived from
// the decorated name and the display name is rewritten in place, so the
// two records stop shadowing each other in the name index. The rewrite
// happens at most once: a later call finds the qualifier already present.
func (m *Matcher) IsVtordisp(recomp symbol.Addr) bool {
	name, decorated, ok := m.store.RecompNames(recomp)
	if !ok {
		return false
	}
	if strings.Contains(name, "`vtordisp") {
		return true
	}
	if decorated == "" {
		return false
	}
	display := demangle.VtordispName(decorated)
	if display == "" {
		return false
	}
	m.store.SetName(recomp, display)
	return true
}
