package marker

import (
	"regexp"
	"strings"
)

// declNameRe captures the (possibly qualified) function name immediately
// before a parameter list, including destructors and operators.
var declNameRe = regexp.MustCompile(`((?:[A-Za-z_][A-Za-z0-9_]*::)*(?:operator[^\s(]+|~?[A-Za-z_][A-Za-z0-9_]*))\s*\(`)

func declName(decl string) (string, bool) {
	m := declNameRe.FindStringSubmatch(decl)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var qualifiedIdentRe = regexp.MustCompile(`(?:[A-Za-z_][A-Za-z0-9_]*::)*[A-Za-z_][A-Za-z0-9_]*`)

// globalName extracts the variable name from a declaration line: the last
// identifier before the initializer, array bound, or terminator.
func globalName(code string) (string, bool) {
	cut := len(code)
	for _, stop := range []string{"=", "[", ";"} {
		if i := strings.Index(code, stop); i >= 0 && i < cut {
			cut = i
		}
	}
	ids := qualifiedIdentRe.FindAllString(code[:cut], -1)
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

func className(code string) (string, bool) {
	m := classRe.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var stringLitRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// stringLiteral finds the first C string literal on the line and decodes
// its escape sequences.
func stringLiteral(line string) (string, bool) {
	m := stringLitRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return cDecode(m[1]), true
}

func cDecode(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'b':
			b.WriteByte('\b')
		case 'a':
			b.WriteByte(7)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(s[i] - '0')
			for n := 1; n < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; n++ {
				i++
				v = v*8 + int(s[i]-'0')
			}
			b.WriteByte(byte(v))
		case 'x':
			v, n := 0, 0
			for n < 2 && i+1 < len(s) && isHexDigit(s[i+1]) {
				i++
				v = v*16 + hexVal(s[i])
				n++
			}
			if n == 0 {
				b.WriteString(`\x`)
			} else {
				b.WriteByte(byte(v))
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
