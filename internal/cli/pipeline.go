package cli

import (
	"fmt"
	"log/slog"

	"resym/internal/config"
	"resym/internal/engine"
	"resym/internal/ingest"
	"resym/internal/marker"
	"resym/internal/signature"
	"resym/internal/store"
	"resym/internal/symbol"
)

// PipelineResult carries everything the reporting commands need from one
// ingest-and-match run.
type PipelineResult struct {
	Store      *store.Store
	Signatures []signature.Signature
	Markers    int // markers applied for the target module
	Matched    int
	Failed     int
	ScanErrors int
}

// RunPipeline executes the ingest-and-match flow for one target: symbol
// listings in, marker scan over the source tree, one engine dispatch per
// marker, vtordisp name repair, then signature resolution when the target
// configures a listing.
//
// Match failures are logged and counted, never fatal. The returned error
// is an *ExitError: command errors (unreadable inputs, unknown target)
// carry ExitCommandError, inconsistent signature data carries ExitFailure.
func RunPipeline(cfg *config.Config, targetName string) (*PipelineResult, error) {
	target, ok := cfg.Target(targetName)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("target %q is not defined in the project file", targetName))
	}

	st := store.New()

	n, err := ingest.LoadOrig(target.OrigSymbols, st)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load original symbols", err)
	}
	slog.Info("loaded original symbols", "path", target.OrigSymbols, "records", n)

	n, err = ingest.LoadRecomp(target.RecompSymbols, st)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load recompiled symbols", err)
	}
	slog.Info("loaded recompiled symbols", "path", target.RecompSymbols, "records", n)

	if target.Arrays != "" {
		n, err = ingest.LoadArrays(target.Arrays, st)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load array listing", err)
		}
		slog.Info("loaded pre-paired arrays", "path", target.Arrays, "records", n)
	}

	markers, scanErrs, err := marker.ScanDir(target.SourceRoot)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to scan source tree", err)
	}
	for _, e := range scanErrs {
		slog.Warn("marker skipped", "file", e.File, "line", e.Line, "reason", e.Reason)
	}

	res := &PipelineResult{Store: st, ScanErrors: len(scanErrs)}
	eng := engine.New(st)

	for _, mk := range markers {
		if mk.Module != targetName {
			continue
		}
		res.Markers++
		recomp, ok := applyMarker(eng, mk)
		if !ok {
			res.Failed++
			slog.Warn("no match found", "marker", string(mk.Type), "name", mk.Name,
				"orig", mk.Addr, "file", mk.File, "line", mk.Line)
			continue
		}
		res.Matched++
		slog.Debug("matched", "marker", string(mk.Type), "name", mk.Name,
			"orig", mk.Addr, "recomp", recomp)
	}
	slog.Info("marker pass complete", "markers", res.Markers, "matched", res.Matched, "failed", res.Failed)

	// Adjuster thunks share the display name of the method they wrap
	// until the vtordisp qualifier is restored from the decorated name.
	for _, mt := range st.MatchesByKind(symbol.KindFunction) {
		if eng.IsVtordisp(mt.Recomp) {
			slog.Debug("vtordisp adjuster", "recomp", mt.Recomp, "name", mt.Name)
		}
	}

	if target.Signatures != "" {
		raws, err := signature.Load(target.Signatures)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load signature listing", err)
		}
		sigs, err := signature.Resolve(st, raws)
		if err != nil {
			if signature.IsInconsistentInput(err) {
				return nil, WrapExitError(ExitFailure, "inconsistent signature data", err)
			}
			return nil, WrapExitError(ExitCommandError, "failed to resolve signatures", err)
		}
		res.Signatures = sigs
		slog.Info("resolved signatures", "path", target.Signatures, "count", len(sigs))
	}

	return res, nil
}

// applyMarker dispatches one marker to its engine operation.
func applyMarker(eng *engine.Matcher, mk marker.Marker) (symbol.Addr, bool) {
	switch mk.Type {
	case marker.TypeStub:
		eng.MarkStub(mk.Addr)
		return eng.MatchFunction(mk.Addr, mk.Name)
	case marker.TypeLibrary:
		eng.SkipCompare(mk.Addr)
		return eng.MatchFunction(mk.Addr, mk.Name)
	case marker.TypeGlobal:
		if mk.HasOwner {
			return eng.MatchStaticVariable(mk.Addr, mk.Name, mk.OwnerAddr)
		}
		return eng.MatchVariable(mk.Addr, mk.Name)
	case marker.TypeVtable:
		return eng.MatchVtable(mk.Addr, mk.Name, mk.Extra)
	case marker.TypeString:
		return eng.MatchString(mk.Addr, mk.Name)
	default: // FUNCTION, SYNTHETIC, TEMPLATE
		return eng.MatchFunction(mk.Addr, mk.Name)
	}
}
