package store

import (
	"github.com/google/btree"

	"resym/internal/symbol"
)

// btreeDegree is the branching factor of the address indices. Entries are
// two words; a moderate degree keeps nodes within a cache line or two.
const btreeDegree = 32

// record is the sole persistent entity: one known symbol and everything
// the run has learned about it. Records are created by ingestion or thunk
// synthesis and never deleted.
type record struct {
	orig      symbol.Addr
	recomp    symbol.Addr
	hasOrig   bool
	hasRecomp bool
	kind      symbol.Kind
	name      string
	decorated string
	size      int
}

// match projects the record into its read-only view.
func (r *record) match() symbol.Match {
	return symbol.Match{
		Kind:      r.kind,
		Orig:      r.orig,
		Recomp:    r.recomp,
		HasOrig:   r.hasOrig,
		HasRecomp: r.hasRecomp,
		Name:      r.name,
		Size:      r.size,
	}
}

// addrEntry keys one side's sorted index.
type addrEntry struct {
	addr symbol.Addr
	rec  *record
}

func lessAddr(a, b addrEntry) bool {
	return a.addr < b.addr
}

// optionKey addresses one sparse match option.
type optionKey struct {
	addr symbol.Addr
	flag string
}

// Store owns the records of one matching run. Every other component holds
// this one handle; there are no copies.
type Store struct {
	records []*record

	byOrig   *btree.BTreeG[addrEntry]
	byRecomp *btree.BTreeG[addrEntry]

	byName      map[string][]*record
	byDecorated map[string][]*record

	options map[optionKey]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byOrig:      btree.NewG[addrEntry](btreeDegree, lessAddr),
		byRecomp:    btree.NewG[addrEntry](btreeDegree, lessAddr),
		byName:      make(map[string][]*record),
		byDecorated: make(map[string][]*record),
		options:     make(map[optionKey]string),
	}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) origRecord(addr symbol.Addr) (*record, bool) {
	e, ok := s.byOrig.Get(addrEntry{addr: addr})
	if !ok {
		return nil, false
	}
	return e.rec, true
}

func (s *Store) recompRecord(addr symbol.Addr) (*record, bool) {
	e, ok := s.byRecomp.Get(addrEntry{addr: addr})
	if !ok {
		return nil, false
	}
	return e.rec, true
}

func (s *Store) origUsed(addr symbol.Addr) bool {
	return s.byOrig.Has(addrEntry{addr: addr})
}

func (s *Store) recompUsed(addr symbol.Addr) bool {
	return s.byRecomp.Has(addrEntry{addr: addr})
}

// add appends a record to the arena and indexes every populated side and
// name. Callers must have checked address uniqueness already.
func (s *Store) add(r *record) {
	s.records = append(s.records, r)
	if r.hasOrig {
		s.byOrig.ReplaceOrInsert(addrEntry{addr: r.orig, rec: r})
	}
	if r.hasRecomp {
		s.byRecomp.ReplaceOrInsert(addrEntry{addr: r.recomp, rec: r})
	}
	s.indexName(r)
	if r.decorated != "" {
		s.byDecorated[r.decorated] = append(s.byDecorated[r.decorated], r)
	}
}

func (s *Store) indexName(r *record) {
	if r.name != "" {
		s.byName[r.name] = append(s.byName[r.name], r)
	}
}

func (s *Store) unindexName(r *record) {
	if r.name == "" {
		return
	}
	bucket := s.byName[r.name]
	for i, candidate := range bucket {
		if candidate == r {
			s.byName[r.name] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(s.byName[r.name]) == 0 {
		delete(s.byName, r.name)
	}
}
