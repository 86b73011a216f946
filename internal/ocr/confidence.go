package ocr

import (
	"regexp"
	"strings"
)

var (
	reDateish  = regexp.MustCompile(`\b\d{2}[/.\-]\d{2}[/.\-]\d{4}\b`)
	reIdentish = regexp.MustCompile(`\b(po|invoice|purchase order)\b`)
	reAmount   = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reGSTIN    = regexp.MustCompile(`\bgstin\b|\bgst\b|₹|\binr\b`)
)

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// boost if we see common PO/invoice artifacts (identifier labels,
	// date-ish tokens, two-decimal amounts, GST/currency markers).
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reIdentish.MatchString(txtL) {
		score += 0.2
	}
	if reDateish.MatchString(txtL) {
		score += 0.2
	}
	if reAmount.MatchString(txtL) {
		score += 0.15
	}
	if reGSTIN.MatchString(txtL) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
