package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resym/internal/store"
	"resym/internal/symbol"
)

func TestMatchFunction(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Foo::Bar", "?Bar@Foo@@QAEXXZ", 32)
	m := New(s)

	recomp, ok := m.MatchFunction(0x1000, "Foo::Bar")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)

	got, ok := s.ByOrig(0x1000, true)
	require.True(t, ok)
	assert.True(t, got.Matched())
	assert.Equal(t, symbol.Addr(0x2000), got.Recomp)
	assert.Equal(t, symbol.KindFunction, got.Kind)
}

func TestMatchFunction_DecoratedName(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Foo::Bar", "?Bar@Foo@@QAEXXZ", 32)
	m := New(s)

	recomp, ok := m.MatchFunction(0x1000, "?Bar@Foo@@QAEXXZ")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchFunction_Truncation(t *testing.T) {
	// The toolchain stores at most 255 bytes of a symbol name, so a lookup
	// with the full name must still find the truncated record.
	long := "Very" + strings.Repeat("Long", 100) + "::Name"
	require.Greater(t, len(long), maxSymbolLen)

	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, long[:maxSymbolLen], "", 16)
	m := New(s)

	recomp, ok := m.MatchFunction(0x1000, long)
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchFunction_NoCandidate(t *testing.T) {
	s := store.New()
	m := New(s)

	_, ok := m.MatchFunction(0x1000, "Missing::Function")
	assert.False(t, ok)
}

func TestMatchFunction_CandidateAlreadyMatched(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Foo::Bar", "", 32)
	m := New(s)

	_, ok := m.MatchFunction(0x1000, "Foo::Bar")
	require.True(t, ok)

	_, ok = m.MatchFunction(0x1100, "Foo::Bar")
	assert.False(t, ok, "matched record offered to a second caller")
}

func TestMatchFunction_TieBreaksToLowestAddress(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2020, symbol.KindFunction, "Tgl::Render", "", 16)
	s.InsertRecomp(0x2000, symbol.KindFunction, "Tgl::Render", "", 16)
	m := New(s)

	recomp, ok := m.MatchFunction(0x1000, "Tgl::Render")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchVariable_DataBeforePointer(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2010, symbol.KindPointer, "g_lego", "", 4)
	s.InsertRecomp(0x2000, symbol.KindData, "g_lego", "", 4)
	m := New(s)

	recomp, ok := m.MatchVariable(0x1000, "g_lego")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp, "data candidate should win over pointer")
}

func TestMatchVariable_PointerFallback(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2010, symbol.KindPointer, "g_isle", "", 4)
	m := New(s)

	recomp, ok := m.MatchVariable(0x1000, "g_isle")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2010), recomp)

	got, _ := s.ByOrig(0x1000, true)
	assert.Equal(t, symbol.KindPointer, got.Kind)
}

func TestMatchString(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindString, "?LIST", "", 6)
	m := New(s)

	// A '?' prefix is literal string content, not a decorated name.
	recomp, ok := m.MatchString(0x1000, "?LIST")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchString_IgnoresOtherKinds(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindData, "hello world", "", 12)
	m := New(s)

	_, ok := m.MatchString(0x1000, "hello world")
	assert.False(t, ok)
}

func TestMatchVtable_QualifiedBeforeBare(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindVtable, "LegoCarBuild::`vftable'", "", 0x40)
	s.InsertRecomp(0x2100, symbol.KindVtable, "LegoCarBuild::`vftable'{for `LegoWorld'}", "", 0x40)
	m := New(s)

	recomp, ok := m.MatchVtable(0x1000, "LegoCarBuild", "LegoWorld")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2100), recomp)
}

func TestMatchVtable_NoBareFallbackForBase(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindVtable, "LegoCarBuild::`vftable'", "", 0x40)
	m := New(s)

	// The base-subobject form only matches its qualified name.
	_, ok := m.MatchVtable(0x1000, "LegoCarBuild", "LegoWorld")
	assert.False(t, ok)
}

func TestMatchVtable_Bare(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindVtable, "MxCore::`vftable'", "", 0x20)
	m := New(s)

	recomp, ok := m.MatchVtable(0x1000, "MxCore", "")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchVtable_SelfForForm(t *testing.T) {
	// Some listings demangle a class's own table with the {for `X'}
	// qualifier; others drop it. Both must resolve when base == class.
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindVtable, "MxCore::`vftable'{for `MxCore'}", "", 0x20)
	m := New(s)

	recomp, ok := m.MatchVtable(0x1000, "MxCore", "MxCore")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)

	s2 := store.New()
	s2.InsertRecomp(0x2000, symbol.KindVtable, "MxCore::`vftable'", "", 0x20)
	m2 := New(s2)

	recomp, ok = m2.MatchVtable(0x1000, "MxCore", "MxCore")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2000), recomp)
}

func TestMatchStaticVariable(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Helicopter::Tick", "?Tick@Helicopter@@AAEXH@Z", 64)
	s.InsertRecomp(0x2100, symbol.KindData, "g_startupDelay",
		"?g_startupDelay@?1??Tick@Helicopter@@AAEXH@Z@4HA", 4)
	m := New(s)

	// The owning function is not matched yet, so the variable cannot be.
	_, ok := m.MatchStaticVariable(0x1100, "g_startupDelay", 0x1000)
	require.False(t, ok)

	_, ok = m.MatchFunction(0x1000, "Helicopter::Tick")
	require.True(t, ok)

	recomp, ok := m.MatchStaticVariable(0x1100, "g_startupDelay", 0x1000)
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2100), recomp)

	got, _ := s.ByOrig(0x1100, true)
	assert.Equal(t, symbol.KindData, got.Kind)
}

func TestMatchStaticVariable_WrongOwner(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Helicopter::Tick", "?Tick@Helicopter@@AAEXH@Z", 64)
	s.InsertRecomp(0x2010, symbol.KindFunction, "Jukebox::Tick", "?Tick@Jukebox@@AAEXH@Z", 64)
	s.InsertRecomp(0x2100, symbol.KindData, "g_delay",
		"?g_delay@?1??Tick@Helicopter@@AAEXH@Z@4HA", 4)
	m := New(s)

	_, ok := m.MatchFunction(0x1000, "Helicopter::Tick")
	require.True(t, ok)
	_, ok = m.MatchFunction(0x1010, "Jukebox::Tick")
	require.True(t, ok)

	// g_delay lives in Helicopter::Tick, not Jukebox::Tick.
	_, ok = m.MatchStaticVariable(0x1100, "g_delay", 0x1010)
	assert.False(t, ok)

	recomp, ok := m.MatchStaticVariable(0x1100, "g_delay", 0x1000)
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2100), recomp)
}

func TestThunkPassthrough(t *testing.T) {
	s := store.New()
	m := New(s)

	require.True(t, m.CreateRecompThunk(0x3000, "Baz::Qux"))
	assert.False(t, m.CreateRecompThunk(0x3000, "Baz::Qux"))

	got, ok := s.ByRecomp(0x3000, true)
	require.True(t, ok)
	assert.Equal(t, "Thunk of 'Baz::Qux'", got.Name)
	assert.Equal(t, symbol.KindFunction, got.Kind)
	assert.Equal(t, 5, got.Size)

	require.True(t, m.CreateOrigThunk(0x1000, "Baz::Qux"))
}

func TestOptionPassthrough(t *testing.T) {
	s := store.New()
	m := New(s)

	m.MarkStub(0x1000)
	m.SkipCompare(0x1010)

	_, ok := s.Option(0x1000, symbol.OptionStub)
	assert.True(t, ok)
	_, ok = s.Option(0x1010, symbol.OptionSkip)
	assert.True(t, ok)
}
