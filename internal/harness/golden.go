package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"resym/internal/symbol"
)

// Snapshot captures the final store projection of a scenario run: every
// record in listing order plus the option flags. Addresses render as hex
// strings so golden files read like the scenarios that produced them.
type Snapshot struct {
	Scenario string           `json:"scenario"`
	Target   string           `json:"target"`
	Rows     []SnapshotRow    `json:"rows"`
	Options  []SnapshotOption `json:"options,omitempty"`
}

// SnapshotRow is one record: records with an original address come first
// in address order, then the unmatched recompiled remainder.
type SnapshotRow struct {
	Kind   symbol.Kind `json:"kind,omitempty"`
	Orig   string      `json:"orig,omitempty"`
	Recomp string      `json:"recomp,omitempty"`
	Name   string      `json:"name,omitempty"`
	Size   int         `json:"size,omitempty"`
}

// SnapshotOption is one option flag, sorted by address then flag.
type SnapshotOption struct {
	Addr  string `json:"addr"`
	Flag  string `json:"flag"`
	Value string `json:"value,omitempty"`
}

// NewSnapshot projects the result's store into snapshot form.
func NewSnapshot(scenario *Scenario, result *Result) *Snapshot {
	snap := &Snapshot{Scenario: scenario.Name, Target: scenario.Target, Rows: []SnapshotRow{}}
	for _, mt := range result.Store.All() {
		row := SnapshotRow{Kind: mt.Kind, Name: mt.Name, Size: mt.Size}
		if mt.HasOrig {
			row.Orig = mt.Orig.String()
		}
		if mt.HasRecomp {
			row.Recomp = mt.Recomp.String()
		}
		snap.Rows = append(snap.Rows, row)
	}
	for _, opt := range result.Store.AllOptions() {
		snap.Options = append(snap.Options, SnapshotOption{
			Addr:  opt.Addr.String(),
			Flag:  opt.Flag,
			Value: opt.Value,
		})
	}
	return snap
}

// RunWithGolden executes a scenario, reports its assertion failures, and
// compares the final store snapshot against a golden file. The golden
// file is stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario, result)
}

// AssertGolden compares the result's store snapshot against the golden
// file named after the scenario, without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := json.MarshalIndent(NewSnapshot(scenario, result), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
