package match

import (
	"math"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/extract"
)

// AmountTolerance is the permitted absolute difference between normalized
// amounts, absorbing rounding between the two documents.
const AmountTolerance = 1.0

// DefaultThreshold is the pass bar for fuzzy text scores under the
// threshold-gate policy.
const DefaultThreshold = 70

// Weighted-points policy: fixed per-field point values and the pass total.
// The identifier carries the largest share, then the amount.
const (
	pointsPONumber  = 40
	pointsAmount    = 30
	pointsVendor    = 15
	pointsQuantity  = 15
	pointsPassTotal = 70
)

// FieldComparison is the per-field audit record: both raw values and the
// 0-100 score their normalized forms produced.
type FieldComparison struct {
	POValue      string `json:"po_value"`
	InvoiceValue string `json:"invoice_value"`
	Score        int    `json:"score"`
}

// Comparison maps field name to its comparison record. Iterate with Fields
// for the declared display order.
type Comparison map[string]FieldComparison

// Fields returns the comparison's field names in declared order.
func (c Comparison) Fields() []string {
	out := make([]string, 0, len(c))
	for _, f := range constants.FieldOrder {
		if _, ok := c[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Verdict is the match decision plus the numeric evidence that produced it.
type Verdict struct {
	IsMatch   bool                  `json:"is_match"`
	Policy    constants.MatchPolicy `json:"policy"`
	Threshold int                   `json:"threshold"`
	// Points is the weighted-points total; zero under the threshold-gate policy.
	Points int `json:"points,omitempty"`
}

// Options configures a match run. The zero value means threshold-gate policy
// with the default threshold.
type Options struct {
	Policy    constants.MatchPolicy
	Threshold int
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = constants.PolicyThresholdGate
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Match compares the two field maps and returns the verdict together with the
// full per-field comparison. Pure and total: any field absent on either side
// normalizes to an empty/zero value, and the comparison record is returned
// unconditionally for display and audit.
func Match(po, inv extract.FieldMap, opts Options) (Verdict, Comparison) {
	opts = opts.withDefaults()
	cmp := make(Comparison, 7)

	record := func(field string, score int) {
		cmp[field] = FieldComparison{
			POValue:      po.Get(field),
			InvoiceValue: inv.Get(field),
			Score:        score,
		}
	}

	poNumberScore := Ratio(
		NormalizeText(po.Get(constants.FieldPONumber)),
		NormalizeText(inv.Get(constants.FieldPONumber)),
	)
	record(constants.FieldPONumber, poNumberScore)

	vendorScore := PartialRatio(
		NormalizeText(po.Get(constants.FieldVendor)),
		NormalizeText(inv.Get(constants.FieldVendor)),
	)
	record(constants.FieldVendor, vendorScore)

	buyerScore := PartialRatio(
		NormalizeText(po.Get(constants.FieldBuyer)),
		NormalizeText(inv.Get(constants.FieldBuyer)),
	)
	record(constants.FieldBuyer, buyerScore)

	dateScore := PartialRatio(
		NormalizeText(po.Get(constants.FieldDate)),
		NormalizeText(inv.Get(constants.FieldDate)),
	)
	record(constants.FieldDate, dateScore)

	poAmt := NormalizeAmount(po.Get(constants.FieldAmount))
	invAmt := NormalizeAmount(inv.Get(constants.FieldAmount))
	amountScore := binaryTolerance(poAmt, invAmt)
	record(constants.FieldAmount, amountScore)

	poGST := NormalizeAmount(po.Get(constants.FieldGSTAmount))
	invGST := NormalizeAmount(inv.Get(constants.FieldGSTAmount))
	record(constants.FieldGSTAmount, binaryTolerance(poGST, invGST))

	poQty := NormalizeQuantity(po.Get(constants.FieldQuantity))
	invQty := NormalizeQuantity(inv.Get(constants.FieldQuantity))
	// zero-vs-zero is inconclusive, not a match
	qtyScore := 0
	if poQty == invQty && poQty != 0 {
		qtyScore = 100
	}
	record(constants.FieldQuantity, qtyScore)

	v := Verdict{Policy: opts.Policy, Threshold: opts.Threshold}
	switch opts.Policy {
	case constants.PolicyWeightedPoints:
		// Tax-inclusive totals (amount plus twice the tax figure, the dual
		// CGST/SGST split) when both sides carry a GST amount.
		wPOAmt, wInvAmt := poAmt, invAmt
		if po.Has(constants.FieldGSTAmount) && inv.Has(constants.FieldGSTAmount) {
			wPOAmt += 2 * poGST
			wInvAmt += 2 * invGST
		}
		points := 0
		exactPO := NormalizeText(po.Get(constants.FieldPONumber)) != "" &&
			NormalizeText(po.Get(constants.FieldPONumber)) == NormalizeText(inv.Get(constants.FieldPONumber))
		if exactPO {
			points += pointsPONumber
		}
		if binaryTolerance(wPOAmt, wInvAmt) == 100 {
			points += pointsAmount
		}
		if vendorScore >= opts.Threshold {
			points += pointsVendor
		}
		if qtyScore == 100 {
			points += pointsQuantity
		}
		v.Points = points
		// the point total never overrides mismatched identifiers
		v.IsMatch = exactPO && points >= pointsPassTotal
	default:
		v.IsMatch = vendorScore >= opts.Threshold &&
			buyerScore >= opts.Threshold &&
			poNumberScore >= opts.Threshold &&
			amountScore == 100 &&
			qtyScore == 100
	}
	return v, cmp
}

func binaryTolerance(a, b float64) int {
	if math.Abs(a-b) < AmountTolerance {
		return 100
	}
	return 0
}
