package engine

import (
	"resym/internal/store"
	"resym/internal/symbol"
)

// Matcher applies matching strategies against a single record store.
//
// All mutations go through the store's pairing primitives; the Matcher
// itself holds no state beyond the store handle. Not safe for concurrent
// use, same as the store.
type Matcher struct {
	store *store.Store
}

// New creates a Matcher over the given store.
func New(s *store.Store) *Matcher {
	return &Matcher{store: s}
}

// CreateOrigThunk synthesizes a thunk record on the original side.
func (m *Matcher) CreateOrigThunk(addr symbol.Addr, name string) bool {
	return m.store.CreateOrigThunk(addr, name)
}

// CreateRecompThunk synthesizes a thunk record on the recompiled side.
func (m *Matcher) CreateRecompThunk(addr symbol.Addr, name string) bool {
	return m.store.CreateRecompThunk(addr, name)
}

// MarkStub flags the original address as an intentionally unimplemented
// function. Reports suppress byte comparison for stubbed addresses.
func (m *Matcher) MarkStub(addr symbol.Addr) {
	m.store.MarkStub(addr)
}

// SkipCompare flags the original address as opted out of comparison.
func (m *Matcher) SkipCompare(addr symbol.Addr) {
	m.store.SkipCompare(addr)
}
