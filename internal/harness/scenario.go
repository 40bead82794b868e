package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resym/internal/symbol"
)

// Scenario defines one conformance scenario: the inputs of a matching run
// and the assertions on its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden snapshots are
	// stored under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Target is the module name the annotation markers carry.
	Target string `yaml:"target"`

	// Orig lists original-side symbol rows known before the run
	// (imports, floats, anything the annotations never claim).
	Orig []OrigRow `yaml:"orig,omitempty"`

	// Recomp lists the recompiled binary's symbol rows.
	Recomp []RecompRow `yaml:"recomp"`

	// Arrays lists pre-paired address ranges.
	Arrays []ArrayRow `yaml:"arrays,omitempty"`

	// Source is the annotated source excerpt the scanner reads.
	Source string `yaml:"source"`

	// Assertions validate the final store state and match counts.
	// Supported types: paired, unpaired, option, counts.
	Assertions []Assertion `yaml:"assertions"`
}

// OrigRow is one original-side listing row. Addresses are hex strings so
// scenarios read like the annotations they exercise.
type OrigRow struct {
	Addr string `yaml:"addr"`
	Kind string `yaml:"kind,omitempty"`
	Name string `yaml:"name,omitempty"`
	Size int    `yaml:"size,omitempty"`
}

// RecompRow is one recompiled-side listing row.
type RecompRow struct {
	Addr   string `yaml:"addr"`
	Kind   string `yaml:"kind,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Symbol string `yaml:"symbol,omitempty"`
	Size   int    `yaml:"size,omitempty"`
}

// ArrayRow is one pre-paired address range.
type ArrayRow struct {
	Orig   string `yaml:"orig"`
	Recomp string `yaml:"recomp"`
	Name   string `yaml:"name,omitempty"`
}

// Assertion validates one aspect of the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "paired": the two addresses ended up on the same record
	// - "unpaired": the record at one address has no partner
	// - "option": an option flag is set for an address
	// - "counts": the marker pass matched and failed exact totals
	Type string `yaml:"type"`

	// Orig and Recomp are the addresses checked by paired/unpaired.
	Orig   string `yaml:"orig,omitempty"`
	Recomp string `yaml:"recomp,omitempty"`

	// Name additionally pins the record's display name (paired only).
	Name string `yaml:"name,omitempty"`

	// Addr, Flag, and Value describe an option assertion. An empty
	// Value only checks presence.
	Addr  string `yaml:"addr,omitempty"`
	Flag  string `yaml:"flag,omitempty"`
	Value string `yaml:"value,omitempty"`

	// Matched and Failed are the expected totals for counts.
	Matched int `yaml:"matched,omitempty"`
	Failed  int `yaml:"failed,omitempty"`
}

// Assertion type constants.
const (
	AssertPaired   = "paired"
	AssertUnpaired = "unpaired"
	AssertOption   = "option"
	AssertCounts   = "counts"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos),
// or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" for
	// "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Target == "" {
		return fmt.Errorf("target is required")
	}
	if len(s.Recomp) == 0 {
		return fmt.Errorf("recomp list is required and must be non-empty")
	}
	if s.Source == "" {
		return fmt.Errorf("source is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, row := range s.Orig {
		if err := checkAddr(row.Addr); err != nil {
			return fmt.Errorf("orig[%d]: %w", i, err)
		}
		if _, err := symbol.ParseKind(row.Kind); err != nil {
			return fmt.Errorf("orig[%d]: %w", i, err)
		}
	}
	for i, row := range s.Recomp {
		if err := checkAddr(row.Addr); err != nil {
			return fmt.Errorf("recomp[%d]: %w", i, err)
		}
		if _, err := symbol.ParseKind(row.Kind); err != nil {
			return fmt.Errorf("recomp[%d]: %w", i, err)
		}
	}
	for i, row := range s.Arrays {
		if err := checkAddr(row.Orig); err != nil {
			return fmt.Errorf("arrays[%d].orig: %w", i, err)
		}
		if err := checkAddr(row.Recomp); err != nil {
			return fmt.Errorf("arrays[%d].recomp: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertPaired:
		if a.Orig == "" || a.Recomp == "" {
			return fmt.Errorf("assertions[%d]: paired requires orig and recomp", index)
		}
	case AssertUnpaired:
		if (a.Orig == "") == (a.Recomp == "") {
			return fmt.Errorf("assertions[%d]: unpaired requires exactly one of orig or recomp", index)
		}
	case AssertOption:
		if a.Addr == "" || a.Flag == "" {
			return fmt.Errorf("assertions[%d]: option requires addr and flag", index)
		}
	case AssertCounts:
		if a.Matched < 0 || a.Failed < 0 {
			return fmt.Errorf("assertions[%d]: counts must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func checkAddr(s string) error {
	if s == "" {
		return fmt.Errorf("addr is required")
	}
	if _, err := symbol.ParseAddr(s); err != nil {
		return err
	}
	return nil
}
