package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"resym/internal/demangle"
	"resym/internal/store"
	"resym/internal/symbol"
)

// OrigSymbol is one row of the original binary's listing.
type OrigSymbol struct {
	Addr symbol.Addr `json:"addr"`
	Kind symbol.Kind `json:"kind,omitempty"`
	Name string      `json:"name,omitempty"`
	Size int         `json:"size,omitempty"`
}

// RecompSymbol is one row of the recompiled binary's listing. Symbol is
// the decorated (linker) name when the toolchain provides one.
type RecompSymbol struct {
	Addr   symbol.Addr `json:"addr"`
	Kind   symbol.Kind `json:"kind,omitempty"`
	Name   string      `json:"name,omitempty"`
	Symbol string      `json:"symbol,omitempty"`
	Size   int         `json:"size,omitempty"`
}

// ArrayEntry is one pre-paired address range.
type ArrayEntry struct {
	Orig   symbol.Addr `json:"orig"`
	Recomp symbol.Addr `json:"recomp"`
	Name   string      `json:"name,omitempty"`
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadOrig reads the original-side listing into the store and returns the
// number of records created. Duplicate addresses in the listing follow the
// store's first-writer-wins rule.
func LoadOrig(path string, st *store.Store) (int, error) {
	var rows []OrigSymbol
	if err := decodeFile(path, &rows); err != nil {
		return 0, fmt.Errorf("loading original symbols: %w", err)
	}
	before := st.Len()
	for _, r := range rows {
		st.InsertOrig(r.Addr, r.Kind, r.Name, r.Size)
	}
	return st.Len() - before, nil
}

// LoadRecomp reads the recompiled-side listing into the store and returns
// the number of records created. Unclassified rows whose decorated name
// identifies a string constant or a vtable are classified here, and
// vtables missing a display name get one derived from the decoration.
func LoadRecomp(path string, st *store.Store) (int, error) {
	var rows []RecompSymbol
	if err := decodeFile(path, &rows); err != nil {
		return 0, fmt.Errorf("loading recompiled symbols: %w", err)
	}
	bulk := make([]store.RecompRow, 0, len(rows))
	for _, r := range rows {
		if r.Symbol != "" {
			if r.Kind == symbol.KindUnknown {
				if _, ok := demangle.StringConst(r.Symbol); ok {
					r.Kind = symbol.KindString
				}
			}
			if name := demangle.VtableName(r.Symbol); name != "" {
				if r.Kind == symbol.KindUnknown {
					r.Kind = symbol.KindVtable
				}
				if r.Name == "" {
					r.Name = name
				}
			}
		}
		bulk = append(bulk, store.RecompRow{
			Addr:      r.Addr,
			Kind:      r.Kind,
			Name:      r.Name,
			Decorated: r.Symbol,
			Size:      r.Size,
		})
	}
	before := st.Len()
	st.InsertRecompBulk(bulk)
	return st.Len() - before, nil
}

// LoadArrays reads the pre-paired listing into the store and returns the
// number of records created. Rows colliding with existing addresses on
// either side are skipped by the store.
func LoadArrays(path string, st *store.Store) (int, error) {
	var rows []ArrayEntry
	if err := decodeFile(path, &rows); err != nil {
		return 0, fmt.Errorf("loading arrays: %w", err)
	}
	bulk := make([]store.ArrayRow, 0, len(rows))
	for _, r := range rows {
		bulk = append(bulk, store.ArrayRow{Orig: r.Orig, Recomp: r.Recomp, Name: r.Name})
	}
	before := st.Len()
	st.InsertArrayBulk(bulk)
	return st.Len() - before, nil
}
