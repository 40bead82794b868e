// Package harness provides a conformance harness for the matching pipeline.
//
// Scenarios are YAML documents bundling the three inputs of a run: the
// symbol listings of both binaries and an annotated source excerpt. The
// harness materializes them as an on-disk project and drives the same
// pipeline the match command runs, so a scenario exercises ingestion, the
// annotation scanner, and the engine together rather than any layer in
// isolation.
//
// Each scenario carries its own assertions (pairings, option flags, match
// counts), and the final store state can additionally be snapshotted and
// compared against a golden file, which pins the full projection: row
// order, classification backfill, names, and option flags.
//
// Scenario format:
//
//	name: function-basic
//	description: plain function markers pair against the recompiled listing
//	target: LEGO1
//	recomp:
//	  - addr: "0x20001000"
//	    kind: function
//	    name: Isle::Tick
//	source: |
//	  // FUNCTION: LEGO1 0x10001000
//	  void Isle::Tick()
//	  {
//	  }
//	assertions:
//	  - type: paired
//	    orig: "0x10001000"
//	    recomp: "0x20001000"
package harness
