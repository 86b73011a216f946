package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf to lf", "Invoice No: INV-1\r\nTotal 100.00\r", "Invoice No: INV-1\nTotal 100.00"},
		{"tabs and runs of spaces", "PO\t\tNumber:   PO-1", "PO Number: PO-1"},
		{"blank line runs collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces stripped per line", "Vendor Details :   \n Sharma  ", "Vendor Details :\n Sharma"},
		{"line breaks survive", "Buyer\nAdvik Autocomp", "Buyer\nAdvik Autocomp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "Purchase Order No: PO-9001\r\n\r\n\r\nGrand Total\t₹  45,000.00   "
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestHeuristicConfidence(t *testing.T) {
	garbage := heuristicConfidence("zzzz qqqq")
	invoiceish := heuristicConfidence("Invoice Number: INV-555\nInvoice Date: 14/05/2024\nTotal (INR) 45,000.00\nGSTIN: 27AABCS1234A1Z5")
	assert.Greater(t, invoiceish, garbage)
	assert.LessOrEqual(t, invoiceish, float32(1.0))
	assert.GreaterOrEqual(t, garbage, float32(0.0))
}
