package signature

import (
	"errors"
	"fmt"

	"resym/internal/symbol"
)

// Raw is one record as the extractor emits it, keyed by recompiled
// address.
type Raw struct {
	Addr         symbol.Addr  `json:"addr"`
	CallType     string       `json:"call_type"`
	ReturnType   string       `json:"return_type"`
	ClassType    string       `json:"class_type,omitempty"`
	ArgCount     int          `json:"argcount"`
	ArgTypes     []string     `json:"args"`
	FramePointer bool         `json:"frame_pointer,omitempty"`
	ThisAdjust   int          `json:"this_adjust,omitempty"`
	Stack        []StackEntry `json:"stack,omitempty"`
}

// StackEntry locates one parameter or local: in a register, or at a
// BP-relative offset.
type StackEntry struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Register string `json:"register,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Signature is a resolved record, tied to both addresses of the match.
type Signature struct {
	Orig       symbol.Addr  `json:"orig"`
	Recomp     symbol.Addr  `json:"recomp"`
	Name       string       `json:"name,omitempty"`
	CallType   string       `json:"call_type"`
	ReturnType string       `json:"return_type"`
	ClassType  string       `json:"class_type,omitempty"`
	ThisAdjust int          `json:"this_adjust,omitempty"`
	Args       []string     `json:"args"`
	Stack      []StackEntry `json:"stack,omitempty"`
}

// callTypes maps the extractor's calling convention names to the compiler
// spellings downstream tools expect.
var callTypes = map[string]string{
	"ThisCall": "__thiscall",
	"C Near":   "default",
	"STD Near": "__stdcall",
}

// frameDelta is added to BP-relative offsets when the function has a
// frame pointer: the extractor reports those offsets shifted by one slot.
const frameDelta = -4

// InconsistentInputError reports a signature record that contradicts
// itself or the match database. It aborts the run.
type InconsistentInputError struct {
	Addr    symbol.Addr
	Field   string
	Message string
}

func (e *InconsistentInputError) Error() string {
	return fmt.Sprintf("inconsistent signature input at %s: %s: %s", e.Addr, e.Field, e.Message)
}

// IsInconsistentInput reports whether err is, or wraps, an
// InconsistentInputError.
func IsInconsistentInput(err error) bool {
	var target *InconsistentInputError
	return errors.As(err, &target)
}
