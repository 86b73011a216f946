package extract

import (
	"regexp"

	"github.com/procuredocs/pomatch/constants"
)

// Compiled once; all patterns are case-insensitive and tolerant of uneven
// whitespace around labels and punctuation.
var (
	// purchase order side
	rePONumberStrict = regexp.MustCompile(`(?i)Purchase Order No\s*:\s*([A-Za-z0-9\-/]+)`)
	rePOVendorLine   = regexp.MustCompile(`(?i)Vendor Details\s*:[^\n]*\n\s*([A-Za-z0-9 &.\-]+)`)
	rePOVendorBlock  = regexp.MustCompile(`(?is)Vendor Details\s*:.*?(\n.*?)(?:Vendor GSTIN|P\.O\. Date)`)
	rePOBuyer        = regexp.MustCompile(`(?i)(?:Buyer|Billed To)[^\n]*\n\s*([^\n]+)`)
	rePOAmount       = regexp.MustCompile(`(?i)(?:Total Amount|Grand Total|Total|Amount Payable)[^\d]*([\d,]+\.\d{2})`)
	rePODate         = regexp.MustCompile(`(?i)(?:P\.O\. Date|PO Date|Date)[\s:]*([0-9]{2}[/.\-][0-9]{2}[/.\-][0-9]{4}|[A-Za-z]{3,9} \d{1,2}, \d{4})`)

	// invoice side; longest label variant first, alternation is first-match
	rePONumberLoose = regexp.MustCompile(`(?i)(?:Purchase Order No|PO Number|PO No)[\s:]*([A-Za-z0-9\-/]+)`)
	reInvNumber     = regexp.MustCompile(`(?i)(?:Invoice Number|Invoice No)[\s#:\-]*([A-Za-z0-9\-/]+)`)
	reInvVendor     = regexp.MustCompile(`(?i)Billed By[^\n]*\n\s*([^\n]+)`)
	reInvBuyer      = regexp.MustCompile(`(?i)Billed To[^\n]*\n\s*([^\n]+)`)
	reInvAmount     = regexp.MustCompile(`(?i)(?:Total \(INR\)|Total Amount|Grand Total|Amount Payable)[^\d]*([\d,]+\.\d{2})`)
	reInvDate       = regexp.MustCompile(`(?i)(?:Invoice Date|Date)[\s:]*([0-9]{2}[/.\-][0-9]{2}[/.\-][0-9]{4}|[A-Za-z]{3,9} \d{1,2}, \d{4})`)

	// shared
	reGSTAmount = regexp.MustCompile(`(?i)(?:GST Amount|Tax Amount|IGST|CGST|SGST|GST)[^\d]*([\d,]+\.\d{2})`)
	reTotalQty  = regexp.MustCompile(`(?i)(?:Total Quantity|Total Qty)[^\d]*([\d,]+)`)
)

// moneyCapture is labelCapture with thousands separators stripped from the
// captured figure.
func moneyCapture(name string, re *regexp.Regexp) strategy {
	inner := labelCapture(name, re, 1)
	return strategy{
		name: name,
		fn: func(text string) (string, bool) {
			v, ok := inner.fn(text)
			if !ok {
				return "", false
			}
			return stripSeparators(v), true
		},
	}
}

// Extractor converts raw document text into a FieldMap using ordered
// per-field strategy chains. It is stateless across calls and safe for
// concurrent use.
type Extractor struct {
	buyerName string
	obs       Observer
	rules     map[constants.DocType][]fieldRule
}

type Option func(*Extractor)

// WithObserver installs a callback receiving every strategy attempt.
func WithObserver(obs Observer) Option {
	return func(e *Extractor) { e.obs = obs }
}

// WithBuyerName enables the literal company-name buyer fallback for purchase
// orders where no buyer label is present. This is a narrow heuristic for
// documents issued by a known buyer, not general inference.
func WithBuyerName(name string) Option {
	return func(e *Extractor) { e.buyerName = name }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = map[constants.DocType][]fieldRule{
		constants.PurchaseOrder: e.poRules(),
		constants.Invoice:       e.invoiceRules(),
	}
	return e
}

func (e *Extractor) poRules() []fieldRule {
	buyerChain := []strategy{labelCapture("buyer-label", rePOBuyer, 1)}
	if e.buyerName != "" {
		reCompany := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(e.buyerName) + `[^\n]*`)
		buyerChain = append(buyerChain, labelCapture("company-literal", reCompany, 0))
	}
	return []fieldRule{
		{constants.FieldPONumber, []strategy{
			labelCapture("po-label-strict", rePONumberStrict, 1),
			labelCapture("po-label-variants", rePONumberLoose, 1),
		}},
		{constants.FieldVendor, []strategy{
			labelCapture("vendor-line", rePOVendorLine, 1),
			blockCapture("vendor-block", rePOVendorBlock, 1),
		}},
		{constants.FieldBuyer, buyerChain},
		{constants.FieldAmount, []strategy{
			moneyCapture("total-label", rePOAmount),
			largestDecimal(),
		}},
		{constants.FieldGSTAmount, []strategy{
			moneyCapture("gst-label", reGSTAmount),
		}},
		{constants.FieldQuantity, []strategy{
			moneyCapture("total-qty-label", reTotalQty),
			sumQuantityRows(),
		}},
		{constants.FieldDate, []strategy{
			labelCapture("po-date-label", rePODate, 1),
		}},
	}
}

func (e *Extractor) invoiceRules() []fieldRule {
	return []fieldRule{
		{constants.FieldPONumber, []strategy{
			labelCapture("po-label-variants", rePONumberLoose, 1),
		}},
		{constants.FieldInvoiceNumber, []strategy{
			labelCapture("invoice-label", reInvNumber, 1),
		}},
		{constants.FieldVendor, []strategy{
			labelCapture("billed-by", reInvVendor, 1),
		}},
		{constants.FieldBuyer, []strategy{
			labelCapture("billed-to", reInvBuyer, 1),
		}},
		{constants.FieldAmount, []strategy{
			moneyCapture("total-label", reInvAmount),
			largestDecimal(),
		}},
		{constants.FieldGSTAmount, []strategy{
			moneyCapture("gst-label", reGSTAmount),
		}},
		{constants.FieldQuantity, []strategy{
			moneyCapture("total-qty-label", reTotalQty),
			sumQuantityRows(),
		}},
		{constants.FieldDate, []strategy{
			labelCapture("invoice-date-label", reInvDate, 1),
		}},
	}
}

// Extract runs every field rule for the document type against the raw text.
// It never fails on malformed text: a field whose whole chain misses is simply
// absent. ErrInsufficientFields is returned (with the partial map) only when
// no identifier, party, amount or date could be extracted at all.
func (e *Extractor) Extract(text string, docType constants.DocType) (FieldMap, error) {
	fields := make(FieldMap)
	if text == "" {
		return fields, ErrInsufficientFields
	}
	for _, rule := range e.rules[docType] {
		for _, s := range rule.strategies {
			v, ok := s.fn(text)
			if e.obs != nil {
				e.obs(Event{Field: rule.field, Strategy: s.name, Hit: ok, Value: v})
			}
			if ok {
				fields[rule.field] = v
				break
			}
		}
	}
	if !fields.sufficient() {
		return fields, ErrInsufficientFields
	}
	return fields, nil
}

// Extract is a convenience wrapper over a default Extractor with no observer
// and no buyer fallback.
func Extract(text string, docType constants.DocType) (FieldMap, error) {
	return NewExtractor().Extract(text, docType)
}
