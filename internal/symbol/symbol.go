package symbol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Addr is a virtual address in the original or the recompiled binary.
type Addr uint64

// String formats the address the way annotation markers write it.
func (a Addr) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// ParseAddr parses an address from "0x..." hex or plain decimal text.
func ParseAddr(s string) (Addr, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parse address %q: %w", s, err)
	}
	return Addr(v), nil
}

// MarshalJSON writes the address as a hex string ("0x10001000").
func (a Addr) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts hex strings and bare JSON numbers.
func (a *Addr) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseAddr(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Addr(n)
	return nil
}

// Kind classifies what a symbol record points at. The zero value means the
// classification has not been determined; name lookups treat it as a
// wildcard.
type Kind int

const (
	KindUnknown Kind = iota
	KindFunction
	KindData
	KindPointer
	KindString
	KindVtable
	KindFloat
)

var kindNames = map[Kind]string{
	KindFunction: "function",
	KindData:     "data",
	KindPointer:  "pointer",
	KindString:   "string",
	KindVtable:   "vtable",
	KindFloat:    "float",
}

// String returns the lowercase name used in listings and config files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a listing/config kind name. The empty string parses to
// KindUnknown.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindUnknown, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown symbol kind %q", s)
}

// MarshalText implements encoding.TextMarshaler. KindUnknown marshals to
// the empty string so optional fields stay absent.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return []byte(""), nil
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Match is the read-only projection of one symbol record: classification,
// both addresses when known, display name, and size. It is computed from
// the record store on read and never stored separately.
type Match struct {
	Kind      Kind
	Orig      Addr
	Recomp    Addr
	HasOrig   bool
	HasRecomp bool
	Name      string
	Size      int
}

// Matched reports whether both addresses are present.
func (m Match) Matched() bool {
	return m.HasOrig && m.HasRecomp
}

// DisplayName renders "name (KIND)" for logs and reports. String values
// are quoted so control characters stay visible.
func (m Match) DisplayName() string {
	kind := "UNK"
	if m.Kind != KindUnknown {
		kind = strings.ToUpper(m.Kind.String())
	}
	name := m.Name
	if m.Kind == KindString {
		name = strconv.Quote(m.Name)
	}
	return fmt.Sprintf("%s (%s)", name, kind)
}

// OffsetName renders "name+ofs (OFFSET)" for a byte offset inside the
// record's span.
func (m Match) OffsetName(ofs int) string {
	return fmt.Sprintf("%s+%d (OFFSET)", m.Name, ofs)
}

// Option flag names used in the match options store.
const (
	// OptionStub marks a function whose body is intentionally
	// unimplemented; the report suppresses byte comparison for it.
	OptionStub = "stub"
	// OptionSkip opts an address out of comparison entirely.
	OptionSkip = "skip"
)
