package extract

import (
	"github.com/procuredocs/pomatch/constants"
)

// BuildFieldMapJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the field vocabulary for a document type. Used to
// validate field maps at the pipeline boundary before persistence.
func BuildFieldMapJSONSchema(docType constants.DocType) map[string]any {
	shape := map[string]func() map[string]any{
		constants.FieldPONumber:      identifierProp,
		constants.FieldInvoiceNumber: identifierProp,
		constants.FieldVendor:        textProp,
		constants.FieldBuyer:         textProp,
		constants.FieldAmount:        decimalProp,
		constants.FieldGSTAmount:     decimalProp,
		constants.FieldQuantity:      integerProp,
		constants.FieldDate:          dateProp,
	}

	props := map[string]any{}
	for _, f := range docType.Vocabulary() {
		props[f] = shape[f]()
	}

	// No field is required: extraction is best-effort and any field may be
	// absent. The schema rejects unknown keys and malformed values only.
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func identifierProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^[A-Za-z0-9\-/]+$`}
}

func textProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func decimalProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d+\.\d{2}$`}
}

func integerProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d+$`}
}

func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^(\d{2}[/.\-]\d{2}[/.\-]\d{4}|[A-Za-z]{3,9} \d{1,2}, \d{4})$`,
	}
}
