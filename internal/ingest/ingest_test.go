package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resym/internal/store"
	"resym/internal/symbol"
)

func writeListing(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOrig(t *testing.T) {
	path := writeListing(t, "orig.json", `[
		{"addr": "0x10001000", "kind": "function", "name": "Pizza::Create", "size": 96},
		{"addr": "0x100f0000", "kind": "data", "name": "g_isleFlags", "size": 4},
		{"addr": "0x10001000", "kind": "function", "name": "duplicate"}
	]`)

	st := store.New()
	n, err := LoadOrig(path, st)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "duplicate row must not create a record")

	m, ok := st.ByOrig(0x10001000, true)
	require.True(t, ok)
	assert.Equal(t, "Pizza::Create", m.Name)
	assert.Equal(t, symbol.KindFunction, m.Kind)
	assert.Equal(t, 96, m.Size)
}

func TestLoadRecomp(t *testing.T) {
	path := writeListing(t, "recomp.json", `[
		{"addr": "0x20001000", "kind": "function", "name": "Pizza::Create", "symbol": "?Create@Pizza@@UAEJAAVMxDSAction@@@Z", "size": 96},
		{"addr": "0x200f0000", "symbol": "??_C@_0L@EGPPCLNO@Helicopter?$AA@"},
		{"addr": "0x200f1000", "symbol": "??_7Pizza@@6B@"},
		{"addr": "0x200f2000", "symbol": "??_7LegoCarBuild@@6BLegoWorld@@@"}
	]`)

	st := store.New()
	n, err := LoadRecomp(path, st)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	m, ok := st.ByRecomp(0x20001000, true)
	require.True(t, ok)
	assert.Equal(t, symbol.KindFunction, m.Kind)

	m, ok = st.ByRecomp(0x200f0000, true)
	require.True(t, ok)
	assert.Equal(t, symbol.KindString, m.Kind, "string constant classified from decoration")

	m, ok = st.ByRecomp(0x200f1000, true)
	require.True(t, ok)
	assert.Equal(t, symbol.KindVtable, m.Kind)
	assert.Equal(t, "Pizza::`vftable'", m.Name, "vtable display name derived from decoration")

	m, ok = st.ByRecomp(0x200f2000, true)
	require.True(t, ok)
	assert.Equal(t, "LegoCarBuild::`vftable'{for `LegoWorld'}", m.Name)
}

func TestLoadRecomp_KeepsProvidedFields(t *testing.T) {
	path := writeListing(t, "recomp.json", `[
		{"addr": "0x200f1000", "kind": "data", "name": "custom", "symbol": "??_7Pizza@@6B@"}
	]`)

	st := store.New()
	_, err := LoadRecomp(path, st)
	require.NoError(t, err)

	m, _ := st.ByRecomp(0x200f1000, true)
	assert.Equal(t, symbol.KindData, m.Kind, "explicit kind wins over decoration")
	assert.Equal(t, "custom", m.Name, "explicit name wins over decoration")
}

func TestLoadArrays(t *testing.T) {
	path := writeListing(t, "arrays.json", `[
		{"orig": "0x10020000", "recomp": "0x20020000", "name": "jump table"},
		{"orig": "0x10020000", "recomp": "0x20021000", "name": "collides"}
	]`)

	st := store.New()
	n, err := LoadArrays(path, st)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, ok := st.ByOrig(0x10020000, true)
	require.True(t, ok)
	assert.True(t, m.Matched())
	assert.Equal(t, symbol.Addr(0x20020000), m.Recomp)
}

func TestLoad_Errors(t *testing.T) {
	st := store.New()

	_, err := LoadOrig(filepath.Join(t.TempDir(), "missing.json"), st)
	assert.Error(t, err)

	bad := writeListing(t, "bad.json", `{"not": "an array"}`)
	_, err = LoadRecomp(bad, st)
	assert.Error(t, err)
}
