package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resym.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
targets:
  LEGO1:
    orig-symbols: build/orig-symbols.json
    recomp-symbols: build/recomp-symbols.json
    arrays: build/arrays.json
    signatures: build/signatures.json
    source-root: src
report:
  json: out/report.json
  sqlite: out/matches.db
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validConfig)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	target, ok := cfg.Target("LEGO1")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "build", "orig-symbols.json"), target.OrigSymbols)
	assert.Equal(t, filepath.Join(dir, "build", "recomp-symbols.json"), target.RecompSymbols)
	assert.Equal(t, filepath.Join(dir, "build", "arrays.json"), target.Arrays)
	assert.Equal(t, filepath.Join(dir, "src"), target.SourceRoot)
	assert.Equal(t, filepath.Join(dir, "out", "report.json"), cfg.Report.JSON)
	assert.Equal(t, filepath.Join(dir, "out", "matches.db"), cfg.Report.SQLite)

	_, ok = cfg.Target("BETA10")
	assert.False(t, ok)
}

func TestLoad_OptionalFieldsAbsent(t *testing.T) {
	path := writeConfig(t, `
targets:
  LEGO1:
    orig-symbols: orig.json
    recomp-symbols: recomp.json
    source-root: src
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	target, _ := cfg.Target("LEGO1")
	assert.Empty(t, target.Arrays)
	assert.Empty(t, target.Signatures)
	assert.Empty(t, cfg.Report.JSON)
}

func TestLoad_AbsolutePathKept(t *testing.T) {
	path := writeConfig(t, `
targets:
  LEGO1:
    orig-symbols: /abs/orig.json
    recomp-symbols: recomp.json
    source-root: src
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	target, _ := cfg.Target("LEGO1")
	assert.Equal(t, "/abs/orig.json", target.OrigSymbols)
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, `
targets:
  LEGO1:
    orig-symbols: orig.json
    recomp-symbols: recomp.json
    source-root: src
    recomp-symbol: typo.json
`)
	_, err := Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
	assert.True(t, loadErr.Pos.IsValid(), "schema violations should carry a file position")
	assert.Contains(t, loadErr.Error(), "resym.yml")
}

func TestLoad_MissingRequiredField(t *testing.T) {
	path := writeConfig(t, `
targets:
  LEGO1:
    orig-symbols: orig.json
    source-root: src
`)
	_, err := Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
	assert.Contains(t, loadErr.Message, "recomp-symbols")
}

func TestLoad_NoTargets(t *testing.T) {
	path := writeConfig(t, "targets: {}\n")
	_, err := Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeEmpty, loadErr.Code)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "targets: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeParse, loadErr.Code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}
