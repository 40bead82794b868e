package store

import (
	"fmt"

	"resym/internal/symbol"
)

// thunkSize is the byte length of a near relative jump, the only thunk
// form the matcher recognizes.
const thunkSize = 5

// InsertOrig records a symbol known only by its original-binary address.
// First writer wins: if the address already exists on the original side
// the call is a silent no-op, so overlapping extraction passes can
// re-ingest their output safely.
func (s *Store) InsertOrig(addr symbol.Addr, kind symbol.Kind, name string, size int) {
	if s.origUsed(addr) {
		return
	}
	s.add(&record{
		orig:    addr,
		hasOrig: true,
		kind:    kind,
		name:    name,
		size:    size,
	})
}

// InsertRecomp records a symbol known only by its recompiled-binary
// address. The decorated name comes from the recompiled build's debug
// info; the original side never supplies one. First writer wins.
func (s *Store) InsertRecomp(addr symbol.Addr, kind symbol.Kind, name, decorated string, size int) {
	if s.recompUsed(addr) {
		return
	}
	s.add(&record{
		recomp:    addr,
		hasRecomp: true,
		kind:      kind,
		name:      name,
		decorated: decorated,
		size:      size,
	})
}

// RecompRow is one recompiled-side listing entry for bulk insertion.
type RecompRow struct {
	Addr      symbol.Addr
	Kind      symbol.Kind
	Name      string
	Decorated string
	Size      int
}

// InsertRecompBulk inserts recompiled-side rows with the same silent
// duplicate tolerance as InsertRecomp.
func (s *Store) InsertRecompBulk(rows []RecompRow) {
	for _, row := range rows {
		s.InsertRecomp(row.Addr, row.Kind, row.Name, row.Decorated, row.Size)
	}
}

// ArrayRow pre-pairs both addresses of a compiler-generated array or jump
// table whose correspondence is already known.
type ArrayRow struct {
	Orig   symbol.Addr
	Recomp symbol.Addr
	Name   string
}

// InsertArrayBulk inserts pre-paired rows. A row is skipped entirely when
// either of its addresses is already taken on its side.
func (s *Store) InsertArrayBulk(rows []ArrayRow) {
	for _, row := range rows {
		if s.origUsed(row.Orig) || s.recompUsed(row.Recomp) {
			continue
		}
		s.add(&record{
			orig:      row.Orig,
			recomp:    row.Recomp,
			hasOrig:   true,
			hasRecomp: true,
			name:      row.Name,
		})
	}
}

// SetPair claims orig for the record currently holding recomp. Every
// matching strategy funnels through this one mutation.
//
// Returns false without mutating when orig is already claimed by any
// record, when no record holds recomp, or when that record already has an
// original address. On success the classification is backfilled when kind
// is non-zero.
func (s *Store) SetPair(orig, recomp symbol.Addr, kind symbol.Kind) bool {
	r, ok := s.claim(orig, recomp)
	if !ok {
		return false
	}
	if kind != symbol.KindUnknown {
		r.kind = kind
	}
	return true
}

// SetPairTentative claims the pair like SetPair but fills the
// classification only when the record has none, so a heuristic pass never
// overwrites an operator-confirmed kind.
func (s *Store) SetPairTentative(orig, recomp symbol.Addr, kind symbol.Kind) bool {
	r, ok := s.claim(orig, recomp)
	if !ok {
		return false
	}
	if r.kind == symbol.KindUnknown {
		r.kind = kind
	}
	return true
}

// claim performs the address half of both pairing calls.
func (s *Store) claim(orig, recomp symbol.Addr) (*record, bool) {
	if s.origUsed(orig) {
		return nil, false
	}
	r, ok := s.recompRecord(recomp)
	if !ok || r.hasOrig {
		return nil, false
	}
	r.orig = orig
	r.hasOrig = true
	s.byOrig.ReplaceOrInsert(addrEntry{addr: orig, rec: r})
	return r, true
}

// CreateOrigThunk synthesizes a function record for a thunk present only
// in the original binary. Fails when addr is already used on that side.
func (s *Store) CreateOrigThunk(addr symbol.Addr, name string) bool {
	if s.origUsed(addr) {
		return false
	}
	s.add(&record{
		orig:    addr,
		hasOrig: true,
		kind:    symbol.KindFunction,
		name:    thunkName(name),
		size:    thunkSize,
	})
	return true
}

// CreateRecompThunk synthesizes a function record for a thunk present only
// in the recompiled binary. The record carries no decorated name; debug
// info describes the thunk target, not the thunk itself. Fails when addr
// is already used on that side.
func (s *Store) CreateRecompThunk(addr symbol.Addr, name string) bool {
	if s.recompUsed(addr) {
		return false
	}
	s.add(&record{
		recomp:    addr,
		hasRecomp: true,
		kind:      symbol.KindFunction,
		name:      thunkName(name),
		size:      thunkSize,
	})
	return true
}

func thunkName(name string) string {
	return fmt.Sprintf("Thunk of '%s'", name)
}

// SetName rewrites the display name of the record at recomp and reindexes
// it. Used by the vtordisp correction; the decorated name is untouched.
func (s *Store) SetName(recomp symbol.Addr, name string) bool {
	r, ok := s.recompRecord(recomp)
	if !ok {
		return false
	}
	s.unindexName(r)
	r.name = name
	s.indexName(r)
	return true
}

// SetOption attaches a sparse flag to an address. The empty value is the
// boolean form. First writer wins, matching record insertion.
func (s *Store) SetOption(addr symbol.Addr, flag, value string) {
	k := optionKey{addr: addr, flag: flag}
	if _, ok := s.options[k]; ok {
		return
	}
	s.options[k] = value
}

// MarkStub flags addr as an intentionally unimplemented function.
func (s *Store) MarkStub(addr symbol.Addr) {
	s.SetOption(addr, symbol.OptionStub, "")
}

// SkipCompare opts addr out of byte comparison.
func (s *Store) SkipCompare(addr symbol.Addr) {
	s.SetOption(addr, symbol.OptionSkip, "")
}
