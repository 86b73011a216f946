package extract

import (
	"errors"

	"github.com/procuredocs/pomatch/constants"
)

// FieldMap holds named extracted values for one document. Keys are drawn from
// the document type's vocabulary; a missing key means the field was not found.
type FieldMap map[string]string

// ErrInsufficientFields is returned by Extract when none of the required field
// groups (identifier, party, amount, date) could be extracted. The partial map
// is still returned alongside it so callers can report what little was found.
var ErrInsufficientFields = errors.New("insufficient fields extracted")

// Get returns the value for name, or "" when absent.
func (m FieldMap) Get(name string) string {
	return m[name]
}

// Has reports whether the field was extracted with a non-empty value.
func (m FieldMap) Has(name string) bool {
	return m[name] != ""
}

// Backfill returns a copy with the placeholder filled in for every field of
// the document type's vocabulary that was not extracted. This is a display and
// persistence convention only; matching operates on the raw map, where absence
// normalizes to empty/zero.
func (m FieldMap) Backfill(docType constants.DocType) FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, f := range docType.Vocabulary() {
		if out[f] == "" {
			out[f] = constants.MissingFieldPlaceholder
		}
	}
	return out
}

// sufficient reports whether at least one required field group produced a value.
// Required groups per document: an identifier, a party, the total amount and
// the document date. Only when every group is empty is the extraction useless
// for matching.
func (m FieldMap) sufficient() bool {
	return m.Has(constants.FieldPONumber) ||
		m.Has(constants.FieldInvoiceNumber) ||
		m.Has(constants.FieldVendor) ||
		m.Has(constants.FieldBuyer) ||
		m.Has(constants.FieldAmount) ||
		m.Has(constants.FieldDate)
}
