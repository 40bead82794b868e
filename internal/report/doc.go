// Package report renders the match results: a text table and summary for
// the terminal, a JSON report for downstream diffing tools, a SQLite
// export for importers that speak SQL, and the unmatched-string listing.
//
// A Report is a frozen snapshot of the store. Given the same store, run
// id, and timestamp, the JSON rendering is byte-identical, which is what
// the golden tests pin down.
package report
