package tracking

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema constrains the artifact manifests the service returns.
// File lists drive local writes, so a manifest is validated before any of
// its entries are trusted.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version", "type", "files"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "type": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "url"],
        "properties": {
          "name": {"type": "string", "minLength": 1, "pattern": "^[^/\\\\]+$"},
          "url": {"type": "string", "minLength": 1},
          "size": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

// validateManifest checks raw manifest JSON against manifestSchema and
// returns a field-by-field error on violation.
func validateManifest(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("manifest validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("manifest violates schema:")
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		sb.WriteString(fmt.Sprintf(" %s: %s;", field, desc.Description()))
	}
	return fmt.Errorf("%s", strings.TrimSuffix(sb.String(), ";"))
}
