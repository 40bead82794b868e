package marker

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"resym/internal/symbol"
)

// markerRe matches one marker comment: type, module, address, and an
// optional trailing token (the base class of a VTABLE marker).
var markerRe = regexp.MustCompile(`^\s*//\s*([A-Z]+):\s*(\w+)\s+(0x[0-9A-Fa-f]+)(?:\s+(\S+))?\s*$`)

// sizeRe matches the struct-size annotation that sits between a VTABLE
// marker and its class declaration.
var sizeRe = regexp.MustCompile(`^//\s*SIZE\b`)

var sourceExts = map[string]bool{
	".cpp": true,
	".cxx": true,
	".cc":  true,
	".h":   true,
	".hpp": true,
}

// ScanDir scans every C++ source file under root, in lexical walk order.
func ScanDir(root string) ([]Marker, []*ScanError, error) {
	var markers []Marker
	var scanErrs []*ScanError
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !sourceExts[filepath.Ext(path)] {
			return nil
		}
		ms, es, err := ScanFile(path)
		if err != nil {
			return err
		}
		markers = append(markers, ms...)
		scanErrs = append(scanErrs, es...)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return markers, scanErrs, nil
}

// ScanFile scans a single source file.
func ScanFile(path string) ([]Marker, []*ScanError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning markers: %w", err)
	}
	defer f.Close()
	return Scan(f, path)
}

// maxDeclLines bounds how many lines a wrapped function declaration may
// span before the scanner gives up on finding the parameter list.
const maxDeclLines = 4

// Scan reads C++ source from r. file is used in positions only.
func Scan(r io.Reader, file string) ([]Marker, []*ScanError, error) {
	s := &scanner{file: file}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		s.processLine(n, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning markers: %w", err)
	}
	if len(s.pending) > 0 {
		s.fail("missing name evidence")
	}
	return s.markers, s.errs, nil
}

type pendingMarker struct {
	typ    Type
	module string
	addr   symbol.Addr
	extra  string
	line   int
}

// classFrame and fnFrame record an open brace scope: the declaration's
// name (or owner addresses), and the depth the scope closes back to.
type classFrame struct {
	name  string
	depth int
}

type fnFrame struct {
	owners map[string]symbol.Addr
	depth  int
}

type scanner struct {
	file    string
	markers []Marker
	errs    []*ScanError

	pending []pendingMarker // marker run awaiting name evidence
	decl    []string        // accumulated declaration lines for the run

	depth     int
	inComment bool

	classes []classFrame
	fns     []fnFrame

	// awaitBody carries a resolved function run's addresses until its
	// opening brace; awaitClass does the same for a class declaration.
	awaitBody  map[string]symbol.Addr
	awaitClass string
}

func (s *scanner) processLine(n int, text string) {
	startedInComment := s.inComment
	code := s.stripCode(text)
	trimmed := strings.TrimSpace(text)

	if !startedInComment && strings.HasPrefix(trimmed, "//") {
		if m := markerRe.FindStringSubmatch(text); m != nil {
			s.addMarker(n, m)
			return
		}
		if len(s.pending) > 0 {
			s.commentEvidence(trimmed)
		}
		return
	}

	if strings.TrimSpace(code) == "" {
		return
	}

	if len(s.pending) > 0 {
		s.codeEvidence(text, code)
	}
	s.trackScopes(code)
}

func (s *scanner) addMarker(n int, m []string) {
	typ := Type(m[1])
	if !knownTypes[typ] {
		s.errs = append(s.errs, &ScanError{File: s.file, Line: n,
			Reason: fmt.Sprintf("unknown marker type %s", typ)})
		return
	}
	addr, err := symbol.ParseAddr(m[3])
	if err != nil {
		s.errs = append(s.errs, &ScanError{File: s.file, Line: n,
			Reason: fmt.Sprintf("bad address %q", m[3])})
		return
	}
	s.pending = append(s.pending, pendingMarker{
		typ:    typ,
		module: m[2],
		addr:   addr,
		extra:  m[4],
		line:   n,
	})
}

// commentEvidence handles a non-marker comment line while a run is
// pending: the size annotation is skipped, anything else is taken as the
// name. String values never come from comments.
func (s *scanner) commentEvidence(trimmed string) {
	if sizeRe.MatchString(trimmed) {
		return
	}
	if s.pending[0].typ == TypeString {
		return
	}
	name := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
	if name == "" {
		return
	}
	s.resolve(name)
}

func (s *scanner) codeEvidence(raw, code string) {
	typ := s.pending[0].typ
	switch {
	case typ.needsComment():
		s.fail(fmt.Sprintf("%s marker requires a name comment", typ))

	case typ == TypeString:
		value, ok := stringLiteral(raw)
		if !ok {
			s.fail("no string literal after STRING marker")
			return
		}
		s.resolve(value)

	case typ == TypeGlobal:
		name, ok := globalName(code)
		if !ok {
			s.fail("cannot determine variable name")
			return
		}
		s.resolve(name)

	case typ == TypeVtable:
		name, ok := className(code)
		if !ok {
			s.fail("no class declaration after VTABLE marker")
			return
		}
		s.resolve(s.qualify(name))

	default:
		s.decl = append(s.decl, code)
		joined := strings.Join(s.decl, " ")
		if !strings.Contains(joined, "(") {
			if len(s.decl) >= maxDeclLines {
				s.fail("cannot determine function name")
			}
			return
		}
		name, ok := declName(joined)
		if !ok {
			s.fail("cannot determine function name")
			return
		}
		s.resolveFunction(s.qualify(name))
	}
}

// resolve emits every marker of the pending run under the given name.
func (s *scanner) resolve(name string) {
	for _, pm := range s.pending {
		mk := Marker{
			Type:   pm.typ,
			Module: pm.module,
			Addr:   pm.addr,
			Name:   name,
			Extra:  pm.extra,
			File:   s.file,
			Line:   pm.line,
		}
		if pm.typ == TypeGlobal && len(s.fns) > 0 {
			owners := s.fns[len(s.fns)-1].owners
			owner, ok := owners[pm.module]
			if !ok {
				s.errs = append(s.errs, &ScanError{File: s.file, Line: pm.line,
					Reason: fmt.Sprintf("enclosing function has no %s marker", pm.module)})
				continue
			}
			mk.OwnerAddr = owner
			mk.HasOwner = true
		}
		s.markers = append(s.markers, mk)
	}
	s.pending = nil
	s.decl = nil
}

// resolveFunction additionally arms the owner scope for the body about to
// open, so GLOBAL markers inside it bind to this function's addresses.
func (s *scanner) resolveFunction(name string) {
	owners := make(map[string]symbol.Addr, len(s.pending))
	for _, pm := range s.pending {
		if pm.typ.isFunction() {
			owners[pm.module] = pm.addr
		}
	}
	s.resolve(name)
	s.awaitBody = owners
}

func (s *scanner) fail(reason string) {
	s.errs = append(s.errs, &ScanError{File: s.file, Line: s.pending[0].line, Reason: reason})
	s.pending = nil
	s.decl = nil
}

func (s *scanner) qualify(name string) string {
	if len(s.classes) == 0 || strings.Contains(name, "::") {
		return name
	}
	parts := make([]string, 0, len(s.classes)+1)
	for _, c := range s.classes {
		parts = append(parts, c.name)
	}
	return strings.Join(append(parts, name), "::")
}

var classRe = regexp.MustCompile(`^\s*(?:class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// trackScopes maintains brace depth and the open class and function
// scopes. code has strings and comments already stripped.
func (s *scanner) trackScopes(code string) {
	if m := classRe.FindStringSubmatch(code); m != nil {
		// A forward declaration opens nothing.
		if strings.Contains(code, "{") || !strings.Contains(code, ";") {
			s.awaitClass = m[1]
		}
	}
	if s.awaitBody != nil && strings.Contains(code, ";") && !strings.Contains(code, "{") {
		// Declaration terminator before any brace: no body follows.
		s.awaitBody = nil
	}
	for _, c := range code {
		switch c {
		case '{':
			if s.awaitClass != "" {
				s.classes = append(s.classes, classFrame{name: s.awaitClass, depth: s.depth})
				s.awaitClass = ""
			} else if s.awaitBody != nil {
				s.fns = append(s.fns, fnFrame{owners: s.awaitBody, depth: s.depth})
				s.awaitBody = nil
			}
			s.depth++
		case '}':
			s.depth--
			for len(s.classes) > 0 && s.depth <= s.classes[len(s.classes)-1].depth {
				s.classes = s.classes[:len(s.classes)-1]
			}
			for len(s.fns) > 0 && s.depth <= s.fns[len(s.fns)-1].depth {
				s.fns = s.fns[:len(s.fns)-1]
			}
		}
	}
}

// stripCode blanks out comments and the contents of string and character
// literals, leaving the structure the brace counter and declaration
// parsers operate on. Block comment state carries across lines.
func (s *scanner) stripCode(text string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if s.inComment {
			j := strings.Index(text[i:], "*/")
			if j < 0 {
				return b.String()
			}
			i += j + 2
			s.inComment = false
			continue
		}
		c := text[i]
		switch {
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			return b.String()
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			s.inComment = true
			i += 2
		case c == '"' || c == '\'':
			q := c
			b.WriteByte(q)
			i++
			for i < len(text) {
				if text[i] == '\\' {
					i += 2
					continue
				}
				if text[i] == q {
					b.WriteByte(q)
					i++
					break
				}
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
