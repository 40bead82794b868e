// Package config loads the project file.
//
// A project file (resym.yml) names the verification targets: where each
// target's symbol listings live and where its annotated sources are. The
// YAML is validated against an embedded CUE schema before decoding, so
// typos in field names and missing required fields are caught with file
// positions instead of surfacing later as empty strings.
package config
