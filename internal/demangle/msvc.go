package demangle

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Number decodes one MSVC-mangled number at the front of s and returns the
// value together with the remainder of s.
//
// The encoding: an optional '?' negates; a single decimal digit d encodes
// d+1; otherwise 'A'..'P' are hex digits (A=0) terminated by '@', encoding
// zero and larger values. Sixteen-bit-era toolchains store negative 32-bit
// displacements as unsigned two's complement, so hex values past the int32
// range wrap negative.
func Number(s string) (int64, string, error) {
	neg := false
	if strings.HasPrefix(s, "?") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, "", errors.New("empty number encoding")
	}
	if s[0] >= '0' && s[0] <= '9' {
		val := int64(s[0]-'0') + 1
		if neg {
			val = -val
		}
		return val, s[1:], nil
	}

	var u uint64
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c == '@' {
			break
		}
		if c < 'A' || c > 'P' {
			return 0, "", fmt.Errorf("bad number digit %q", c)
		}
		u = u<<4 | uint64(c-'A')
	}
	switch {
	case i == len(s):
		return 0, "", errors.New("unterminated number encoding")
	case i == 0:
		return 0, "", errors.New("empty hex number encoding")
	case i > 16:
		return 0, "", errors.New("number encoding too long")
	}

	val := int64(u)
	if u > math.MaxInt32 && u <= math.MaxUint32 {
		val = int64(int32(uint32(u)))
	}
	if neg {
		val = -val
	}
	return val, s[i+1:], nil
}

// VtordispName derives the display name of a vtordisp adjuster thunk from
// its decorated name, e.g.
//
//	?ClassName@LegoExtraActor@@$4PPPPPPPM@A@BEPBDXZ
//	-> LegoExtraActor::`vtordisp{-4,0}'::ClassName
//
// The two encoded numbers after "$4" are the vtordisp field displacement
// and the this adjustment. Returns "" when decorated is not a vtordisp
// thunk symbol or cannot be decoded.
func VtordispName(decorated string) string {
	if !strings.HasPrefix(decorated, "?") {
		return ""
	}
	qual, rest, ok := strings.Cut(decorated[1:], "@@")
	if !ok || !strings.HasPrefix(rest, "$4") {
		return ""
	}
	names := strings.Split(qual, "@")
	if len(names) < 2 || names[0] == "" {
		return ""
	}
	// Special names ("?0" constructors and the like) have no plain
	// display form to rebuild.
	if strings.HasPrefix(names[0], "?") {
		return ""
	}

	disp, rest, err := Number(rest[2:])
	if err != nil {
		return ""
	}
	adj, _, err := Number(rest)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s::`vtordisp{%d,%d}'::%s", scopeJoin(names[1:]), disp, adj, names[0])
}

// VtableName renders the display form of a "??_7" vftable symbol:
//
//	??_7Helicopter@@6B@                 -> Helicopter::`vftable'
//	??_7Pizza@@6BMxCore@@@              -> Pizza::`vftable'{for `MxCore'}
//
// Returns "" for anything that is not a const vftable symbol.
func VtableName(decorated string) string {
	s, ok := strings.CutPrefix(decorated, "??_7")
	if !ok {
		return ""
	}
	qual, rest, ok := strings.Cut(s, "@@")
	if !ok || qual == "" || !strings.HasPrefix(rest, "6B") {
		return ""
	}
	scope := scopeJoin(strings.Split(qual, "@"))

	rest = rest[2:]
	if rest == "@" || rest == "" {
		return scope + "::`vftable'"
	}
	forQual, _, ok := strings.Cut(rest, "@@")
	if !ok || forQual == "" {
		return ""
	}
	return fmt.Sprintf("%s::`vftable'{for `%s'}", scope, scopeJoin(strings.Split(forQual, "@")))
}

// StringInfo describes a decoded string-constant symbol.
type StringInfo struct {
	// Wide reports a UTF-16 constant.
	Wide bool
	// Len is the encoded byte length including the terminator.
	Len int64
}

// StringConst reports whether decorated names a string constant
// ("??_C@_05CJBACGMB@Hello?$AA@") and decodes its width and byte length.
func StringConst(decorated string) (StringInfo, bool) {
	s, ok := strings.CutPrefix(decorated, "??_C@_")
	if !ok || s == "" {
		return StringInfo{}, false
	}
	var wide bool
	switch s[0] {
	case '0':
		wide = false
	case '1':
		wide = true
	default:
		return StringInfo{}, false
	}
	n, _, err := Number(s[1:])
	if err != nil || n < 0 {
		return StringInfo{}, false
	}
	return StringInfo{Wide: wide, Len: n}, true
}

// scopeJoin joins a mangled scope chain, innermost first, into the "::"
// display order.
func scopeJoin(names []string) string {
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteString("::")
		}
		b.WriteString(names[i])
	}
	return b.String()
}
