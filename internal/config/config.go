package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded project file. All paths are resolved relative to
// the file's own directory.
type Config struct {
	Targets map[string]Target `yaml:"targets"`
	Report  Report            `yaml:"report"`
}

// Target describes one binary under verification.
type Target struct {
	OrigSymbols   string `yaml:"orig-symbols"`
	RecompSymbols string `yaml:"recomp-symbols"`
	Arrays        string `yaml:"arrays"`
	Signatures    string `yaml:"signatures"`
	SourceRoot    string `yaml:"source-root"`
}

// Report holds the default output locations.
type Report struct {
	JSON   string `yaml:"json"`
	SQLite string `yaml:"sqlite"`
}

// Target returns the named target.
func (c *Config) Target(name string) (Target, bool) {
	t, ok := c.Targets[name]
	return t, ok
}

// Error code constants.
const (
	ErrCodeNotFound = "C001" // config file missing or unreadable
	ErrCodeParse    = "C002" // YAML syntax error
	ErrCodeSchema   = "C003" // schema violation
	ErrCodeEmpty    = "C004" // no targets defined
)

// LoadError is a project file problem, with the file position when the
// schema check can pin one down.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads, validates, and decodes the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config: %v", err)}
	}

	if err := validateSchema(path, data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if len(cfg.Targets) == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: fmt.Sprintf("%s defines no targets", path)}
	}

	dir := filepath.Dir(path)
	for name, t := range cfg.Targets {
		t.OrigSymbols = resolvePath(dir, t.OrigSymbols)
		t.RecompSymbols = resolvePath(dir, t.RecompSymbols)
		t.Arrays = resolvePath(dir, t.Arrays)
		t.Signatures = resolvePath(dir, t.Signatures)
		t.SourceRoot = resolvePath(dir, t.SourceRoot)
		cfg.Targets[name] = t
	}
	cfg.Report.JSON = resolvePath(dir, cfg.Report.JSON)
	cfg.Report.SQLite = resolvePath(dir, cfg.Report.SQLite)

	return &cfg, nil
}

// validateSchema unifies the YAML document with the embedded schema. The
// schema's structs are closed, so unknown fields fail here.
func validateSchema(path string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Project"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return &LoadError{Code: ErrCodeParse, Message: err.Error(), Pos: firstPos(err)}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeParse, Message: err.Error(), Pos: firstPos(err)}
	}

	if err := schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: cueerrors.Details(err, nil), Pos: firstPos(err)}
	}
	return nil
}

func firstPos(err error) token.Pos {
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		return positions[0]
	}
	return token.NoPos
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
