package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/procuredocs/pomatch/constants"
)

// ValidateFieldMap checks that a field map conforms to the document type's
// vocabulary and value shapes. Returns an error describing the first
// violation; a valid map returns nil.
func ValidateFieldMap(docType constants.DocType, fields FieldMap) error {
	schemaMap := BuildFieldMapJSONSchema(docType)
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fieldmap.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("fieldmap.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal field map: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal field map: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("field map does not match schema: %w", err)
	}
	return nil
}
