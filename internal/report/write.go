package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"resym/internal/symbol"
)

// WriteJSON renders the report as indented JSON. The rendering is
// byte-deterministic: field order is fixed and map keys sort.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("writing json report: %w", err)
	}
	return nil
}

// WriteTable renders rows as a text table.
func WriteTable(w io.Writer, rows []symbol.Match) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Orig", "Recomp", "Name", "Size"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, m := range rows {
		orig, recomp := "", ""
		if m.HasOrig {
			orig = m.Orig.String()
		}
		if m.HasRecomp {
			recomp = m.Recomp.String()
		}
		name := m.Name
		if m.Kind == symbol.KindString {
			name = strconv.Quote(m.Name)
		}
		size := ""
		if m.Size > 0 {
			size = strconv.Itoa(m.Size)
		}
		table.Append([]string{m.Kind.String(), orig, recomp, name, size})
	}
	table.Render()
}

// WriteSummary renders the headline counts, one line overall and one per
// classification.
func WriteSummary(w io.Writer, s Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Matched) / float64(s.Total) * 100
	}
	fmt.Fprintf(w, "%s / %s symbols matched (%.1f%%)\n",
		green(humanize.Comma(int64(s.Matched))), humanize.Comma(int64(s.Total)), percent)

	kinds := make([]string, 0, len(s.Kinds))
	for kind := range s.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		kc := s.Kinds[kind]
		fmt.Fprintf(w, "  %-10s %s / %s\n",
			kind, humanize.Comma(int64(kc.Matched)), humanize.Comma(int64(kc.Total)))
	}

	if s.UnmatchedStrings > 0 {
		fmt.Fprintf(w, "%s unmatched strings\n", yellow(humanize.Comma(int64(s.UnmatchedStrings))))
	}
}

// WriteStrings renders the unmatched-string listing, one quoted literal
// per line so control characters survive the terminal.
func WriteStrings(w io.Writer, values []string) {
	for _, v := range values {
		fmt.Fprintf(w, "%q\n", v)
	}
}
