// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var embeddedSchema []byte

// ValidateWithCue validates YAML config bytes against the #Config definition
// of a CUE schema.
func ValidateWithCue(yamlBytes, schemaBytes []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schemaBytes)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("CUE schema has no #Config definition")
	}

	if err := yaml.Validate(yamlBytes, def); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
