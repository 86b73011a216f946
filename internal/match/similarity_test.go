package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("po123", "po123"))
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 0, Ratio("po123", ""))
	assert.Equal(t, 0, Ratio("", "po123"))

	// near-miss identifiers stay clearly below a 70 pass bar's headroom
	score := Ratio("po123", "po124")
	assert.Less(t, score, 90)
	assert.Greater(t, score, 0)

	assert.Less(t, Ratio("po123", "completely different"), 40)
}

func TestPartialRatio(t *testing.T) {
	// substring of a longer header block still scores perfect
	assert.Equal(t, 100, PartialRatio("sharma industries", "sharma industries pvt ltd plot 12"))
	assert.Equal(t, 100, PartialRatio("sharma industries pvt ltd plot 12", "sharma industries"))
	assert.Equal(t, 100, PartialRatio("", ""))
	assert.Equal(t, 0, PartialRatio("vendor", ""))

	// unrelated strings score low even partially
	assert.Less(t, PartialRatio("sharma industries", "acme fabrication works"), 60)
}

func TestPartialRatio_AtLeastFullRatio(t *testing.T) {
	pairs := [][2]string{
		{"sharma industries", "sharma industrees"},
		{"advik autocomp", "advik autocomp pvt ltd"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		assert.GreaterOrEqual(t, PartialRatio(p[0], p[1]), Ratio(p[0], p[1]),
			"partial should never score below full for %q vs %q", p[0], p[1])
	}
}
