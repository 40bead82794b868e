package report

import (
	"time"

	"github.com/google/uuid"

	"resym/internal/signature"
	"resym/internal/store"
	"resym/internal/symbol"
)

// Report is one run's complete result set.
type Report struct {
	RunID       string                `json:"run_id"`
	Target      string                `json:"target"`
	GeneratedAt time.Time             `json:"generated_at"`
	Summary     Summary               `json:"summary"`
	Rows        []Row                 `json:"rows"`
	Options     []Option              `json:"options,omitempty"`
	Signatures  []signature.Signature `json:"signatures,omitempty"`
}

// Row is one record's projection. A missing address renders as null.
type Row struct {
	Kind   symbol.Kind  `json:"kind,omitempty"`
	Orig   *symbol.Addr `json:"orig"`
	Recomp *symbol.Addr `json:"recomp"`
	Name   string       `json:"name,omitempty"`
	Size   int          `json:"size,omitempty"`
}

// Option is one entry of the match options store. A boolean flag has an
// empty value.
type Option struct {
	Addr  symbol.Addr `json:"addr"`
	Flag  string      `json:"flag"`
	Value string      `json:"value,omitempty"`
}

// Summary carries the headline counts.
type Summary struct {
	Matched          int                  `json:"matched"`
	Total            int                  `json:"total"`
	UnmatchedStrings int                  `json:"unmatched_strings"`
	Kinds            map[string]KindCount `json:"kinds,omitempty"`
}

type KindCount struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// NewRunID returns a fresh time-ordered run id.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Build snapshots the store into a Report. runID and at are injected so
// rendering stays deterministic under test.
func Build(st *store.Store, target, runID string, at time.Time, sigs []signature.Signature) *Report {
	all := st.All()
	rows := make([]Row, 0, len(all))
	summary := Summary{Kinds: make(map[string]KindCount)}

	for _, m := range all {
		row := Row{Kind: m.Kind, Name: m.Name, Size: m.Size}
		if m.HasOrig {
			orig := m.Orig
			row.Orig = &orig
		}
		if m.HasRecomp {
			recomp := m.Recomp
			row.Recomp = &recomp
		}
		rows = append(rows, row)

		summary.Total++
		kc := summary.Kinds[m.Kind.String()]
		kc.Total++
		if m.Matched() {
			summary.Matched++
			kc.Matched++
		}
		summary.Kinds[m.Kind.String()] = kc
	}
	summary.UnmatchedStrings = len(st.UnmatchedStrings())
	if len(summary.Kinds) == 0 {
		summary.Kinds = nil
	}

	var options []Option
	for _, o := range st.AllOptions() {
		options = append(options, Option{Addr: o.Addr, Flag: o.Flag, Value: o.Value})
	}

	return &Report{
		RunID:       runID,
		Target:      target,
		GeneratedAt: at,
		Summary:     summary,
		Rows:        rows,
		Options:     options,
		Signatures:  sigs,
	}
}
