package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"resym/internal/cli"
	"resym/internal/config"
	"resym/internal/ingest"
	"resym/internal/store"
	"resym/internal/symbol"
)

// Result is the outcome of one scenario run.
type Result struct {
	// Pass indicates every assertion held.
	Pass bool

	// Store is the final record store, kept for golden snapshots and
	// further inspection.
	Store *store.Store

	// Matched and Failed count the marker pass outcomes.
	Matched int
	Failed  int

	// Errors lists failed assertions. Empty when Pass is true.
	Errors []string
}

// AddError records an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// The scenario's listings and source excerpt are materialized as an
// on-disk project in a temporary directory, then fed through the same
// ingest-and-match pipeline the match command runs. The directory is
// removed before Run returns; the store lives on in the result.
//
// Assertion failures land in the result's Errors, not in the returned
// error, which is reserved for scenarios that cannot run at all.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "resym-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	target, err := materialize(scenario, dir)
	if err != nil {
		return nil, err
	}
	cfg := &config.Config{Targets: map[string]config.Target{scenario.Target: target}}

	// Pipeline progress logs are noise inside a scenario run.
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(prev)

	pr, err := cli.RunPipeline(cfg, scenario.Target)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	result := &Result{Pass: true, Store: pr.Store, Matched: pr.Matched, Failed: pr.Failed}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// materialize writes the scenario's listings and source excerpt under dir
// and returns the target pointing at them.
func materialize(scenario *Scenario, dir string) (config.Target, error) {
	var target config.Target

	orig, err := origRows(scenario.Orig)
	if err != nil {
		return target, err
	}
	target.OrigSymbols = filepath.Join(dir, "orig.json")
	if err := writeJSON(target.OrigSymbols, orig); err != nil {
		return target, err
	}

	recomp, err := recompRows(scenario.Recomp)
	if err != nil {
		return target, err
	}
	target.RecompSymbols = filepath.Join(dir, "recomp.json")
	if err := writeJSON(target.RecompSymbols, recomp); err != nil {
		return target, err
	}

	if len(scenario.Arrays) > 0 {
		arrays, err := arrayRows(scenario.Arrays)
		if err != nil {
			return target, err
		}
		target.Arrays = filepath.Join(dir, "arrays.json")
		if err := writeJSON(target.Arrays, arrays); err != nil {
			return target, err
		}
	}

	target.SourceRoot = filepath.Join(dir, "src")
	if err := os.MkdirAll(target.SourceRoot, 0o755); err != nil {
		return target, fmt.Errorf("failed to create source dir: %w", err)
	}
	src := filepath.Join(target.SourceRoot, "scenario.cpp")
	if err := os.WriteFile(src, []byte(scenario.Source), 0o644); err != nil {
		return target, fmt.Errorf("failed to write source excerpt: %w", err)
	}

	return target, nil
}

func origRows(rows []OrigRow) ([]ingest.OrigSymbol, error) {
	out := make([]ingest.OrigSymbol, 0, len(rows))
	for i, r := range rows {
		addr, err := symbol.ParseAddr(r.Addr)
		if err != nil {
			return nil, fmt.Errorf("orig[%d]: %w", i, err)
		}
		kind, err := symbol.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("orig[%d]: %w", i, err)
		}
		out = append(out, ingest.OrigSymbol{Addr: addr, Kind: kind, Name: r.Name, Size: r.Size})
	}
	return out, nil
}

func recompRows(rows []RecompRow) ([]ingest.RecompSymbol, error) {
	out := make([]ingest.RecompSymbol, 0, len(rows))
	for i, r := range rows {
		addr, err := symbol.ParseAddr(r.Addr)
		if err != nil {
			return nil, fmt.Errorf("recomp[%d]: %w", i, err)
		}
		kind, err := symbol.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("recomp[%d]: %w", i, err)
		}
		out = append(out, ingest.RecompSymbol{Addr: addr, Kind: kind, Name: r.Name, Symbol: r.Symbol, Size: r.Size})
	}
	return out, nil
}

func arrayRows(rows []ArrayRow) ([]ingest.ArrayEntry, error) {
	out := make([]ingest.ArrayEntry, 0, len(rows))
	for i, r := range rows {
		orig, err := symbol.ParseAddr(r.Orig)
		if err != nil {
			return nil, fmt.Errorf("arrays[%d]: %w", i, err)
		}
		recomp, err := symbol.ParseAddr(r.Recomp)
		if err != nil {
			return nil, fmt.Errorf("arrays[%d]: %w", i, err)
		}
		out = append(out, ingest.ArrayEntry{Orig: orig, Recomp: recomp, Name: r.Name})
	}
	return out, nil
}

// writeJSON marshals v to path. Row slices are allocated empty rather than
// nil so an absent listing still encodes as a valid JSON array.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}
