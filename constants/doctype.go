package constants

import "strings"

// DocType tags which side of a reconciliation a document belongs to.
type DocType string

const (
	PurchaseOrder DocType = "purchase_order"
	Invoice       DocType = "invoice"
)

// ParseDocType canonicalizes user-supplied document type strings.
func ParseDocType(s string) (DocType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "po", "purchase_order", "purchase order", "purchaseorder":
		return PurchaseOrder, true
	case "inv", "invoice":
		return Invoice, true
	}
	return "", false
}

// Vocabulary returns the field vocabulary for the document type.
func (d DocType) Vocabulary() []string {
	if d == PurchaseOrder {
		return POFields
	}
	return InvoiceFields
}
