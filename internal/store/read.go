package store

import (
	"sort"
	"strings"

	"github.com/google/btree"

	"resym/internal/symbol"
)

// ByOrig returns the projection of the record at addr on the original
// side. When exact is false the lookup floors instead: the record at the
// largest original address not above addr is returned, answering "which
// known symbol does this address fall inside or after".
func (s *Store) ByOrig(addr symbol.Addr, exact bool) (symbol.Match, bool) {
	return lookup(s.byOrig, addr, exact)
}

// ByRecomp is ByOrig for the recompiled side.
func (s *Store) ByRecomp(addr symbol.Addr, exact bool) (symbol.Match, bool) {
	return lookup(s.byRecomp, addr, exact)
}

func lookup(tree *btree.BTreeG[addrEntry], addr symbol.Addr, exact bool) (symbol.Match, bool) {
	if exact {
		e, ok := tree.Get(addrEntry{addr: addr})
		if !ok {
			return symbol.Match{}, false
		}
		return e.rec.match(), true
	}
	var found *record
	tree.DescendLessOrEqual(addrEntry{addr: addr}, func(e addrEntry) bool {
		found = e.rec
		return false
	})
	if found == nil {
		return symbol.Match{}, false
	}
	return found.match(), true
}

// NextOrigAddr returns the smallest original address strictly greater
// than addr. Callers use it to bound a scan region by the next known
// symbol.
func (s *Store) NextOrigAddr(addr symbol.Addr) (symbol.Addr, bool) {
	var next symbol.Addr
	found := false
	s.byOrig.AscendGreaterOrEqual(addrEntry{addr: addr}, func(e addrEntry) bool {
		if e.addr == addr {
			return true
		}
		next = e.addr
		found = true
		return false
	})
	return next, found
}

// Matches returns every matched record ordered by original address.
func (s *Store) Matches() []symbol.Match {
	out := make([]symbol.Match, 0, s.byOrig.Len())
	s.byOrig.Ascend(func(e addrEntry) bool {
		if e.rec.hasRecomp {
			out = append(out, e.rec.match())
		}
		return true
	})
	return out
}

// MatchesByKind returns the matched records of one classification ordered
// by original address.
func (s *Store) MatchesByKind(kind symbol.Kind) []symbol.Match {
	out := []symbol.Match{}
	s.byOrig.Ascend(func(e addrEntry) bool {
		if e.rec.hasRecomp && e.rec.kind == kind {
			out = append(out, e.rec.match())
		}
		return true
	})
	return out
}

// All returns every record: those with an original address first in
// address order, then the unmatched remainder ordered by recompiled
// address.
func (s *Store) All() []symbol.Match {
	out := make([]symbol.Match, 0, len(s.records))
	s.byOrig.Ascend(func(e addrEntry) bool {
		out = append(out, e.rec.match())
		return true
	})
	s.byRecomp.Ascend(func(e addrEntry) bool {
		if !e.rec.hasOrig {
			out = append(out, e.rec.match())
		}
		return true
	})
	return out
}

// UnmatchedStrings returns the values of string records the original-side
// scan never located, in recompiled address order.
func (s *Store) UnmatchedStrings() []string {
	out := []string{}
	s.byRecomp.Ascend(func(e addrEntry) bool {
		if !e.rec.hasOrig && e.rec.kind == symbol.KindString {
			out = append(out, e.rec.name)
		}
		return true
	})
	return out
}

// FindUnmatchedByName resolves name evidence to a recompiled address with
// no original address yet. Candidates must carry the wanted kind or none
// at all. The decorated-name index is consulted when name starts with the
// mangling sentinel '?', except for string records, whose literal values
// are never decorated. Several candidates under one name resolve to the
// lowest recompiled address.
func (s *Store) FindUnmatchedByName(name string, kind symbol.Kind) (symbol.Addr, bool) {
	bucket := s.byName[name]
	if kind != symbol.KindString && strings.HasPrefix(name, "?") {
		bucket = s.byDecorated[name]
	}

	var best symbol.Addr
	found := false
	for _, r := range bucket {
		if r.hasOrig || !r.hasRecomp {
			continue
		}
		if r.kind != symbol.KindUnknown && r.kind != kind {
			continue
		}
		if !found || r.recomp < best {
			best = r.recomp
			found = true
		}
	}
	return best, found
}

// FindUnmatchedStatic locates the recompiled static variable whose
// decorated name embeds varName inside the scope of fnDecorated. The scan
// covers unmatched data-or-unclassified records; the variable name must
// appear before the enclosing function's symbol, the order the mangler
// nests the scopes in. Ties resolve to the lowest recompiled address.
func (s *Store) FindUnmatchedStatic(varName, fnDecorated string) (symbol.Addr, bool) {
	var best symbol.Addr
	found := false
	for _, r := range s.records {
		if r.hasOrig || !r.hasRecomp || r.decorated == "" {
			continue
		}
		if r.kind != symbol.KindUnknown && r.kind != symbol.KindData {
			continue
		}
		i := strings.Index(r.decorated, varName)
		if i < 0 || !strings.Contains(r.decorated[i+len(varName):], fnDecorated) {
			continue
		}
		if !found || r.recomp < best {
			best = r.recomp
			found = true
		}
	}
	return best, found
}

// OrigDecorated returns the decorated name of the record at an original
// address. Empty means the record exists but never got one.
func (s *Store) OrigDecorated(addr symbol.Addr) (string, bool) {
	r, ok := s.origRecord(addr)
	if !ok {
		return "", false
	}
	return r.decorated, true
}

// RecompNames returns the display and decorated names of the record at a
// recompiled address.
func (s *Store) RecompNames(addr symbol.Addr) (name, decorated string, ok bool) {
	r, found := s.recompRecord(addr)
	if !found {
		return "", "", false
	}
	return r.name, r.decorated, true
}

// Option returns the value stored for (addr, flag) and whether it is set.
// Boolean flags carry the empty value.
func (s *Store) Option(addr symbol.Addr, flag string) (string, bool) {
	v, ok := s.options[optionKey{addr: addr, flag: flag}]
	return v, ok
}

// Options returns every flag set for addr.
func (s *Store) Options(addr symbol.Addr) map[string]string {
	out := make(map[string]string)
	for k, v := range s.options {
		if k.addr == addr {
			out[k.flag] = v
		}
	}
	return out
}

// OptionRow is one (address, flag, value) element of the options store.
type OptionRow struct {
	Addr  symbol.Addr
	Flag  string
	Value string
}

// AllOptions returns the whole options store sorted by address then flag,
// for export.
func (s *Store) AllOptions() []OptionRow {
	out := make([]OptionRow, 0, len(s.options))
	for k, v := range s.options {
		out = append(out, OptionRow{Addr: k.addr, Flag: k.flag, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Addr != out[j].Addr {
			return out[i].Addr < out[j].Addr
		}
		return out[i].Flag < out[j].Flag
	})
	return out
}
