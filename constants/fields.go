package constants

// Field names the extractor may produce. Stable values (stored in DB and
// exported files as-is).
const (
	FieldPONumber      = "po_number"
	FieldInvoiceNumber = "invoice_number"
	FieldVendor        = "vendor"
	FieldBuyer         = "buyer"
	FieldAmount        = "amount"
	FieldGSTAmount     = "gst_amount"
	FieldQuantity      = "quantity"
	FieldDate          = "date"
)

// FieldOrder is the declared display/export order for comparison records.
var FieldOrder = []string{
	FieldPONumber,
	FieldInvoiceNumber,
	FieldVendor,
	FieldBuyer,
	FieldAmount,
	FieldGSTAmount,
	FieldQuantity,
	FieldDate,
}

// POFields is the field vocabulary for purchase orders.
var POFields = []string{
	FieldPONumber,
	FieldVendor,
	FieldBuyer,
	FieldAmount,
	FieldGSTAmount,
	FieldQuantity,
	FieldDate,
}

// InvoiceFields is the field vocabulary for invoices.
var InvoiceFields = []string{
	FieldPONumber,
	FieldInvoiceNumber,
	FieldVendor,
	FieldBuyer,
	FieldAmount,
	FieldGSTAmount,
	FieldQuantity,
	FieldDate,
}

// MissingFieldPlaceholder is backfilled for declared-but-missing fields at the
// display/persistence boundary.
const MissingFieldPlaceholder = "-"
