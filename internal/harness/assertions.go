package harness

import (
	"fmt"
	"strings"

	"resym/internal/store"
	"resym/internal/symbol"
)

// AssertionError is returned when an assertion fails. It includes the
// full store listing so the failure can be read without re-running the
// scenario.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Store    *store.Store
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Store != nil {
		fmt.Fprintf(&buf, "\nStore contents:\n")
		for i, mt := range e.Store.All() {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, formatMatch(mt))
		}
	}

	return buf.String()
}

func formatMatch(mt symbol.Match) string {
	orig, recomp := "-", "-"
	if mt.HasOrig {
		orig = mt.Orig.String()
	}
	if mt.HasRecomp {
		recomp = mt.Recomp.String()
	}
	return fmt.Sprintf("%s / %s %s", orig, recomp, mt.DisplayName())
}

// assertPaired checks that the two addresses ended up on the same record,
// optionally pinning its display name.
func assertPaired(st *store.Store, a Assertion) error {
	orig, err := symbol.ParseAddr(a.Orig)
	if err != nil {
		return err
	}
	recomp, err := symbol.ParseAddr(a.Recomp)
	if err != nil {
		return err
	}

	expected := fmt.Sprintf("%s paired with %s", orig, recomp)
	if a.Name != "" {
		expected = fmt.Sprintf("%s named %q", expected, a.Name)
	}

	mt, ok := st.ByOrig(orig, true)
	if !ok {
		return &AssertionError{
			Type:     AssertPaired,
			Expected: expected,
			Actual:   fmt.Sprintf("no record at original address %s", orig),
			Store:    st,
		}
	}
	if !mt.Matched() {
		return &AssertionError{
			Type:     AssertPaired,
			Expected: expected,
			Actual:   fmt.Sprintf("record at %s has no recompiled address", orig),
			Store:    st,
		}
	}
	if mt.Recomp != recomp {
		return &AssertionError{
			Type:     AssertPaired,
			Expected: expected,
			Actual:   fmt.Sprintf("%s paired with %s", orig, mt.Recomp),
			Store:    st,
		}
	}
	if a.Name != "" && mt.Name != a.Name {
		return &AssertionError{
			Type:     AssertPaired,
			Expected: expected,
			Actual:   fmt.Sprintf("record is named %q", mt.Name),
			Store:    st,
		}
	}
	return nil
}

// assertUnpaired checks that the record on the given side exists and has
// no partner. Exactly one of orig/recomp names the side.
func assertUnpaired(st *store.Store, a Assertion) error {
	side, text := "original", a.Orig
	lookup := st.ByOrig
	if a.Orig == "" {
		side, text = "recompiled", a.Recomp
		lookup = st.ByRecomp
	}
	addr, err := symbol.ParseAddr(text)
	if err != nil {
		return err
	}

	expected := fmt.Sprintf("unpaired record at %s address %s", side, addr)

	mt, ok := lookup(addr, true)
	if !ok {
		return &AssertionError{
			Type:     AssertUnpaired,
			Expected: expected,
			Actual:   "no record at that address",
			Store:    st,
		}
	}
	if mt.Matched() {
		return &AssertionError{
			Type:     AssertUnpaired,
			Expected: expected,
			Actual:   fmt.Sprintf("record is paired (%s / %s)", mt.Orig, mt.Recomp),
			Store:    st,
		}
	}
	return nil
}

// assertOption checks that a flag is set for the address. An empty value
// in the assertion only checks presence.
func assertOption(st *store.Store, a Assertion) error {
	addr, err := symbol.ParseAddr(a.Addr)
	if err != nil {
		return err
	}

	expected := fmt.Sprintf("option %q at %s", a.Flag, addr)
	if a.Value != "" {
		expected = fmt.Sprintf("%s with value %q", expected, a.Value)
	}

	value, ok := st.Option(addr, a.Flag)
	if !ok {
		return &AssertionError{
			Type:     AssertOption,
			Expected: expected,
			Actual:   "option not set",
			Store:    st,
		}
	}
	if a.Value != "" && value != a.Value {
		return &AssertionError{
			Type:     AssertOption,
			Expected: expected,
			Actual:   fmt.Sprintf("option has value %q", value),
			Store:    st,
		}
	}
	return nil
}

// assertCounts checks the marker pass totals.
func assertCounts(res *Result, a Assertion) error {
	if res.Matched != a.Matched || res.Failed != a.Failed {
		return &AssertionError{
			Type:     AssertCounts,
			Expected: fmt.Sprintf("%d matched, %d failed", a.Matched, a.Failed),
			Actual:   fmt.Sprintf("%d matched, %d failed", res.Matched, res.Failed),
			Store:    res.Store,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertPaired:
			err = assertPaired(result.Store, assertion)
		case AssertUnpaired:
			err = assertUnpaired(result.Store, assertion)
		case AssertOption:
			err = assertOption(result.Store, assertion)
		case AssertCounts:
			err = assertCounts(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
