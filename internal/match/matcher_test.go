package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/extract"
)

func matchingPair() (extract.FieldMap, extract.FieldMap) {
	po := extract.FieldMap{
		constants.FieldPONumber: "PO-9001",
		constants.FieldVendor:   "SHARMA INDUSTRIES PVT. LTD.",
		constants.FieldBuyer:    "Advik Autocomp Pvt. Ltd.",
		constants.FieldAmount:   "45000.00",
		constants.FieldQuantity: "150",
		constants.FieldDate:     "12/05/2024",
	}
	inv := extract.FieldMap{
		constants.FieldPONumber:      "po-9001",
		constants.FieldInvoiceNumber: "INV-555",
		constants.FieldVendor:        "Sharma Industries Pvt Ltd",
		constants.FieldBuyer:         "Advik Autocomp Pvt Ltd",
		constants.FieldAmount:        "45000.00",
		constants.FieldQuantity:      "150",
		constants.FieldDate:          "14/05/2024",
	}
	return po, inv
}

func TestMatch_ThresholdGate_Match(t *testing.T) {
	po, inv := matchingPair()
	v, cmp := Match(po, inv, Options{})

	assert.True(t, v.IsMatch)
	assert.Equal(t, constants.PolicyThresholdGate, v.Policy)
	assert.Equal(t, DefaultThreshold, v.Threshold)

	require.Contains(t, cmp, constants.FieldPONumber)
	assert.Equal(t, 100, cmp[constants.FieldPONumber].Score)
	assert.Equal(t, 100, cmp[constants.FieldAmount].Score)
	assert.Equal(t, 100, cmp[constants.FieldQuantity].Score)
	assert.GreaterOrEqual(t, cmp[constants.FieldVendor].Score, 70)
	assert.GreaterOrEqual(t, cmp[constants.FieldBuyer].Score, 70)
}

func TestMatch_Deterministic(t *testing.T) {
	po, inv := matchingPair()
	v1, c1 := Match(po, inv, Options{})
	v2, c2 := Match(po, inv, Options{})
	assert.Equal(t, v1, v2)
	assert.Equal(t, c1, c2)
}

func TestMatch_AmountTolerance(t *testing.T) {
	po, inv := matchingPair()
	po[constants.FieldAmount] = "1,234.50"
	inv[constants.FieldAmount] = "1234.50"
	_, cmp := Match(po, inv, Options{})
	assert.Equal(t, 100, cmp[constants.FieldAmount].Score)

	inv[constants.FieldAmount] = "1236.00"
	v, cmp := Match(po, inv, Options{})
	assert.Equal(t, 0, cmp[constants.FieldAmount].Score)
	assert.False(t, v.IsMatch)
}

func TestMatch_ZeroQuantityIsInconclusive(t *testing.T) {
	po, inv := matchingPair()
	delete(po, constants.FieldQuantity)
	delete(inv, constants.FieldQuantity)

	// both absent normalize to 0; 0 == 0 must NOT count as a match
	v, cmp := Match(po, inv, Options{})
	assert.Equal(t, 0, cmp[constants.FieldQuantity].Score)
	assert.False(t, v.IsMatch)
}

func TestMatch_QuantityAbsentOneSide(t *testing.T) {
	po, inv := matchingPair()
	delete(inv, constants.FieldQuantity)
	v, cmp := Match(po, inv, Options{})
	assert.Equal(t, 0, cmp[constants.FieldQuantity].Score)
	assert.False(t, v.IsMatch)
}

func TestMatch_PONumberMismatch(t *testing.T) {
	po, inv := matchingPair()
	inv[constants.FieldPONumber] = "PO-9002"
	v, cmp := Match(po, inv, Options{})
	assert.Less(t, cmp[constants.FieldPONumber].Score, 100)
	assert.False(t, v.IsMatch)
}

func TestMatch_EmptyMapsAreTotal(t *testing.T) {
	v, cmp := Match(extract.FieldMap{}, extract.FieldMap{}, Options{})
	assert.False(t, v.IsMatch)
	assert.Len(t, cmp, 7)
	// quantity zero-vs-zero stays inconclusive even on empty input
	assert.Equal(t, 0, cmp[constants.FieldQuantity].Score)
}

func TestMatch_WeightedPolicy(t *testing.T) {
	po, inv := matchingPair()
	po[constants.FieldGSTAmount] = "2025.00"
	inv[constants.FieldGSTAmount] = "2025.00"

	v, _ := Match(po, inv, Options{Policy: constants.PolicyWeightedPoints})
	assert.True(t, v.IsMatch)
	assert.Equal(t, 100, v.Points)
}

func TestMatch_WeightedPolicy_PONumberGates(t *testing.T) {
	po, inv := matchingPair()
	// one digit off: high similarity and full points elsewhere must not match
	inv[constants.FieldPONumber] = "PO-9002"
	v, _ := Match(po, inv, Options{Policy: constants.PolicyWeightedPoints})
	assert.False(t, v.IsMatch)
	assert.Less(t, v.Points, 70)
}

func TestMatch_WeightedPolicy_TaxInclusiveAmounts(t *testing.T) {
	po, inv := matchingPair()
	// bare amounts differ by exactly the dual GST component
	po[constants.FieldAmount] = "45000.00"
	po[constants.FieldGSTAmount] = "2025.00"
	inv[constants.FieldAmount] = "45000.00"
	inv[constants.FieldGSTAmount] = "2025.00"

	v, _ := Match(po, inv, Options{Policy: constants.PolicyWeightedPoints})
	assert.True(t, v.IsMatch)

	// mismatched gst makes the tax-inclusive totals diverge, but the run
	// still clears the pass total without the amount points
	inv[constants.FieldGSTAmount] = "1000.00"
	v, _ = Match(po, inv, Options{Policy: constants.PolicyWeightedPoints})
	assert.Equal(t, 70, v.Points) // po_number 40 + vendor 15 + quantity 15
	assert.True(t, v.IsMatch)
}

func TestComparison_FieldsOrder(t *testing.T) {
	po, inv := matchingPair()
	_, cmp := Match(po, inv, Options{})
	fields := cmp.Fields()
	require.NotEmpty(t, fields)
	assert.Equal(t, constants.FieldPONumber, fields[0])
}
