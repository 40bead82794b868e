package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resym/internal/store"
	"resym/internal/symbol"
)

func TestIsVtordisp_RewritesDisplayName(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "LegoExtraActor::ClassName",
		"?ClassName@LegoExtraActor@@$4PPPPPPPM@A@BEPBDXZ", 5)
	m := New(s)

	require.True(t, m.IsVtordisp(0x2000))

	name, decorated, ok := s.RecompNames(0x2000)
	require.True(t, ok)
	assert.Equal(t, "LegoExtraActor::`vtordisp{-4,0}'::ClassName", name)
	assert.Equal(t, "?ClassName@LegoExtraActor@@$4PPPPPPPM@A@BEPBDXZ", decorated,
		"decorated name must survive the rewrite")

	// Second call takes the already-rewritten branch.
	assert.True(t, m.IsVtordisp(0x2000))
	name, _, _ = s.RecompNames(0x2000)
	assert.Equal(t, "LegoExtraActor::`vtordisp{-4,0}'::ClassName", name)
}

func TestIsVtordisp_AlreadyQualified(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction,
		"LegoExtraActor::`vtordisp{-4,0}'::ClassName", "", 5)
	m := New(s)

	assert.True(t, m.IsVtordisp(0x2000))
}

func TestIsVtordisp_Negative(t *testing.T) {
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Foo::Bar", "?Bar@Foo@@QAEXXZ", 32)
	s.InsertRecomp(0x2010, symbol.KindFunction, "NoSymbol::Fn", "", 16)
	m := New(s)

	assert.False(t, m.IsVtordisp(0x2000), "ordinary method")
	assert.False(t, m.IsVtordisp(0x2010), "no decorated name to derive from")
	assert.False(t, m.IsVtordisp(0x9999), "no record at address")
}

func TestIsVtordisp_UnshadowsNameIndex(t *testing.T) {
	// An adjuster demangled to the plain method name shadows the real
	// method in the name index. The rewrite must free the plain name.
	s := store.New()
	s.InsertRecomp(0x2000, symbol.KindFunction, "Helicopter::Tick",
		"?Tick@Helicopter@@$43A@AEXH@Z", 5)
	s.InsertRecomp(0x2100, symbol.KindFunction, "Helicopter::Tick",
		"?Tick@Helicopter@@AAEXH@Z", 64)
	m := New(s)

	require.True(t, m.IsVtordisp(0x2000))

	recomp, ok := m.MatchFunction(0x1000, "Helicopter::Tick")
	require.True(t, ok)
	assert.Equal(t, symbol.Addr(0x2100), recomp, "plain name should resolve to the real method")
}
