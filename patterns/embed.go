// Package patterns provides embedded default recognizer definitions.
// The YAML file in this directory uses the Presidio-compatible recognizer
// registry format with a validation extension for checksummed entity types.
package patterns

import _ "embed"

//go:embed pii_default.yaml
var piiDefaultYAML []byte

// PIIDefaultYAML returns the embedded default PII recognizer definitions.
func PIIDefaultYAML() []byte { return piiDefaultYAML }
