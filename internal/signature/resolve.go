package signature

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"resym/internal/store"
	"resym/internal/symbol"
)

// Load reads a signature listing from a JSON file.
func Load(path string) ([]Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading signatures: %w", err)
	}
	var raws []Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("loading signatures: %s: %w", path, err)
	}
	return raws, nil
}

// Resolve validates the records against the store and returns signatures
// for matched functions, in input order.
//
// Records for addresses that are unknown, unmatched, or not functions are
// skipped: the extractor sees every symbol, not just the matched ones.
// Records for stubbed functions are skipped too; a stub's body is a
// placeholder and its layout means nothing. A record that contradicts
// itself returns InconsistentInputError.
func Resolve(st *store.Store, raws []Raw) ([]Signature, error) {
	sigs := make([]Signature, 0, len(raws))
	for _, raw := range raws {
		m, ok := st.ByRecomp(raw.Addr, true)
		if !ok || !m.Matched() || m.Kind != symbol.KindFunction {
			continue
		}
		if _, stubbed := st.Option(m.Orig, symbol.OptionStub); stubbed {
			continue
		}

		if len(raw.ArgTypes) != raw.ArgCount {
			return nil, &InconsistentInputError{
				Addr:    raw.Addr,
				Field:   "argcount",
				Message: fmt.Sprintf("declared %d arguments but listed %d", raw.ArgCount, len(raw.ArgTypes)),
			}
		}
		callType, ok := callTypes[raw.CallType]
		if !ok {
			return nil, &InconsistentInputError{
				Addr:    raw.Addr,
				Field:   "call_type",
				Message: fmt.Sprintf("unknown calling convention %q", raw.CallType),
			}
		}

		args := make([]string, len(raw.ArgTypes))
		copy(args, raw.ArgTypes)

		var stack []StackEntry
		if len(raw.Stack) > 0 {
			stack = make([]StackEntry, len(raw.Stack))
			copy(stack, raw.Stack)
			for i := range stack {
				if stack[i].Register != "" {
					stack[i].Register = strings.ToLower(stack[i].Register)
					continue
				}
				if raw.FramePointer {
					stack[i].Offset += frameDelta
				}
			}
		}

		sigs = append(sigs, Signature{
			Orig:       m.Orig,
			Recomp:     raw.Addr,
			Name:       m.Name,
			CallType:   callType,
			ReturnType: raw.ReturnType,
			ClassType:  raw.ClassType,
			ThisAdjust: raw.ThisAdjust,
			Args:       args,
			Stack:      stack,
		})
	}
	return sigs, nil
}
